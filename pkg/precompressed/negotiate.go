package precompressed

import (
	"net/http"
	"strings"
)

// Probe checks whether a sibling file can be served. It returns the path to
// serve, which may be a canonicalized form of candidate.
type Probe func(candidate string) (string, bool)

// Decision is the outcome of negotiation. The zero value means "serve the
// resolved path as-is".
type Decision struct {
	// Path is the substituted sibling file.
	Path string
	// Original is the path the sibling was derived from.
	Original string
	// Algorithm is the compression of Path.
	Algorithm Algorithm
}

// Substituted reports whether a precompressed sibling was selected.
func (d Decision) Substituted() bool {
	return d.Algorithm != 0 && d.Path != ""
}

// Negotiate picks the first algorithm, in configuration order, that the client
// accepts and for which a sibling file passes probe. Client quality values only
// decide acceptability, never the order.
func Negotiate(path, acceptEncoding string, algorithms []Algorithm, probe Probe) Decision {
	if len(algorithms) == 0 || acceptEncoding == "" || probe == nil {
		return Decision{}
	}

	accepted := ParseAcceptEncoding(acceptEncoding)
	for _, alg := range algorithms {
		if alg.Encoding() == "" || !accepted.Accepts(alg.Encoding()) {
			continue
		}
		if sibling, ok := probe(path + alg.Extension()); ok {
			return Decision{Path: sibling, Original: path, Algorithm: alg}
		}
	}
	return Decision{}
}

// TransformHeader adds Content-Encoding and merges Accept-Encoding into Vary
// when a sibling was selected. Headers are left untouched otherwise.
func (d Decision) TransformHeader(h http.Header) http.Header {
	if !d.Substituted() || h == nil {
		return h
	}
	h.Set("Content-Encoding", d.Algorithm.Encoding())
	MergeVary(h, "Accept-Encoding")
	return h
}

// MergeVary adds field to the Vary header unless it is already listed or Vary is "*".
func MergeVary(h http.Header, field string) {
	var fields []string
	for _, value := range h.Values("Vary") {
		for _, f := range strings.Split(value, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if f == "*" || strings.EqualFold(f, field) {
				return
			}
			fields = append(fields, f)
		}
	}
	h.Set("Vary", strings.Join(append(fields, field), ", "))
}
