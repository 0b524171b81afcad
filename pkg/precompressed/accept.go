package precompressed

import (
	"strconv"
	"strings"
)

// AcceptEncoding is a parsed Accept-Encoding header. The zero value accepts no coding.
type AcceptEncoding struct {
	codings  map[string]float64
	wildcard float64
	hasAny   bool
}

// ParseAcceptEncoding parses an Accept-Encoding header value. Elements with an
// unparsable quality value are ignored.
func ParseAcceptEncoding(value string) AcceptEncoding {
	var ae AcceptEncoding
	for _, element := range strings.Split(value, ",") {
		coding, params, _ := strings.Cut(element, ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding == "" {
			continue
		}

		q, ok := quality(params)
		if !ok {
			continue
		}

		if coding == "x-gzip" {
			coding = "gzip"
		}
		if coding == "*" {
			ae.wildcard, ae.hasAny = q, true
			continue
		}
		if ae.codings == nil {
			ae.codings = make(map[string]float64)
		}
		ae.codings[coding] = q
	}
	return ae
}

// Accepts reports whether the coding is acceptable, i.e. listed with a non-zero
// quality or covered by a non-zero wildcard.
func (ae AcceptEncoding) Accepts(coding string) bool {
	if q, ok := ae.codings[strings.ToLower(coding)]; ok {
		return q > 0
	}
	return ae.hasAny && ae.wildcard > 0
}

func quality(params string) (float64, bool) {
	for _, param := range strings.Split(params, ";") {
		name, value, found := strings.Cut(param, "=")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || q < 0 || q > 1 {
			return 0, false
		}
		return q, true
	}
	return 1, true
}
