package static

import (
	"net/http"
	"strings"
	"time"
)

// Outcome is the result of evaluating conditional request headers.
type Outcome uint8

const (
	// Proceed means the request should be served normally.
	Proceed Outcome = iota
	// NotModified means the client copy is current (304).
	NotModified
	// PreconditionFailed means a write-style precondition did not hold (412).
	PreconditionFailed
)

func (o Outcome) String() string {
	switch o {
	case NotModified:
		return "not_modified"
	case PreconditionFailed:
		return "precondition_failed"
	default:
		return "proceed"
	}
}

// ETagList is a parsed If-Match or If-None-Match value.
type ETagList struct {
	Any  bool
	Tags []string
}

// Conditions holds the conditional request headers. Nil fields are absent or
// unparsable headers.
type Conditions struct {
	IfMatch           *ETagList
	IfNoneMatch       *ETagList
	IfModifiedSince   *time.Time
	IfUnmodifiedSince *time.Time
}

// ParseConditions extracts the conditional headers from h.
func ParseConditions(h http.Header) Conditions {
	return Conditions{
		IfMatch:           parseETagList(h.Values("If-Match")),
		IfNoneMatch:       parseETagList(h.Values("If-None-Match")),
		IfModifiedSince:   parseDate(h.Get("If-Modified-Since")),
		IfUnmodifiedSince: parseDate(h.Get("If-Unmodified-Since")),
	}
}

// Evaluate applies the conditions to a file with the given validators.
// If-Match takes precedence over If-Unmodified-Since, and If-None-Match over
// If-Modified-Since. A zero modified time disables the date checks.
func Evaluate(c Conditions, etag string, modified time.Time) Outcome {
	modified = modified.Truncate(time.Second)

	if c.IfMatch != nil {
		if !c.IfMatch.matches(etag, strongEqual) {
			return PreconditionFailed
		}
	} else if c.IfUnmodifiedSince != nil && !modified.IsZero() && modified.After(*c.IfUnmodifiedSince) {
		return PreconditionFailed
	}

	if c.IfNoneMatch != nil {
		if c.IfNoneMatch.matches(etag, weakEqual) {
			return NotModified
		}
		return Proceed
	}
	if c.IfModifiedSince != nil && !modified.IsZero() && !modified.After(*c.IfModifiedSince) {
		return NotModified
	}
	return Proceed
}

func (l *ETagList) matches(etag string, equal func(a, b string) bool) bool {
	if l.Any {
		return true
	}
	if etag == "" {
		return false
	}
	for _, tag := range l.Tags {
		if equal(tag, etag) {
			return true
		}
	}
	return false
}

func strongEqual(a, b string) bool {
	return a == b && !isWeak(a) && !isWeak(b)
}

func weakEqual(a, b string) bool {
	return strings.TrimPrefix(a, "W/") == strings.TrimPrefix(b, "W/")
}

func isWeak(tag string) bool { return strings.HasPrefix(tag, "W/") }

// parseETagList scans comma separated entity tags. Parsing stops at the first
// malformed element, keeping the tags read so far.
func parseETagList(values []string) *ETagList {
	if len(values) == 0 {
		return nil
	}
	l := &ETagList{}
	for _, v := range values {
		for {
			v = strings.TrimLeft(v, " \t,")
			if v == "" {
				break
			}
			if v[0] == '*' {
				l.Any = true
				v = v[1:]
				continue
			}
			tag, rest, ok := scanETag(v)
			if !ok {
				break
			}
			l.Tags = append(l.Tags, tag)
			v = rest
		}
	}
	return l
}

func scanETag(s string) (tag, rest string, ok bool) {
	start := 0
	if strings.HasPrefix(s, "W/") {
		start = 2
	}
	if len(s) <= start || s[start] != '"' {
		return "", s, false
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return "", s, false
	}
	end += start + 2
	return s[:end], s[end:], true
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := http.ParseTime(value)
	if err != nil {
		return nil
	}
	return &t
}
