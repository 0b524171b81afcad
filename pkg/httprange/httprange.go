// Package httprange parses single byte ranges from the HTTP Range header.
//
// Only the "bytes" unit and a single range spec are supported. Anything else, including
// multi-range requests and malformed specs, is reported as "no range requested" so that
// the caller falls back to delivering the full representation.
package httprange

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Kind distinguishes satisfiable ranges from unsatisfiable ones.
type Kind uint8

const (
	KindValid Kind = iota + 1
	KindOutOfBounds
)

// Range is the outcome of range parsing for a representation of known size.
// For KindValid ranges 0 <= Start <= End < size holds and both bounds are inclusive.
type Range struct {
	Kind  Kind
	Start int64
	End   int64
}

// OutOfBounds is the range that cannot be satisfied for the representation.
var OutOfBounds = Range{Kind: KindOutOfBounds}

// Valid returns a satisfiable range with inclusive bounds.
func Valid(start, end int64) Range {
	return Range{Kind: KindValid, Start: start, End: end}
}

// IsValid reports whether the range can be served.
func (r Range) IsValid() bool { return r.Kind == KindValid }

// Length returns the number of bytes covered by a valid range.
func (r Range) Length() int64 {
	if !r.IsValid() {
		return 0
	}
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for the range.
func (r Range) ContentRange(size int64) string {
	if !r.IsValid() {
		return fmt.Sprintf("bytes */%d", size)
	}
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

func (r Range) String() string {
	switch r.Kind {
	case KindValid:
		return fmt.Sprintf("%d-%d", r.Start, r.End)
	case KindOutOfBounds:
		return "out-of-bounds"
	}
	return "none"
}

// Parse parses a Range header value against a representation of the given size.
// The boolean is false when the value cannot be used and the header should be ignored.
func Parse(value string, size int64) (Range, bool) {
	unit, spec, ok := strings.Cut(value, "=")
	if !ok || !strings.EqualFold(strings.TrimSpace(unit), "bytes") {
		return Range{}, false
	}
	spec = strings.TrimSpace(spec)
	if strings.Contains(spec, ",") {
		return Range{}, false
	}

	first, last, ok := strings.Cut(spec, "-")
	if !ok {
		return Range{}, false
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	limit := uint64(max(size, 0))
	var start, end uint64
	switch {
	case first == "":
		n, ok := position(last)
		if !ok {
			return Range{}, false
		}
		if n > limit {
			return OutOfBounds, true
		}
		if limit == 0 {
			return OutOfBounds, true
		}
		start, end = limit-n, limit-1
	case last == "":
		n, ok := position(first)
		if !ok {
			return Range{}, false
		}
		if limit == 0 {
			return OutOfBounds, true
		}
		start, end = n, limit-1
	default:
		s, ok := position(first)
		if !ok {
			return Range{}, false
		}
		e, ok := position(last)
		if !ok {
			return Range{}, false
		}
		start, end = s, e
	}

	if end >= limit || start > end {
		return OutOfBounds, true
	}
	return Valid(int64(start), int64(end)), true
}

// position parses a decimal byte position. Numbers too large for uint64
// saturate: they lie past the end of any representation, so they are
// unsatisfiable rather than malformed.
func position(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxUint64, true
		}
		return 0, false
	}
	return n, true
}

// Extract reads the Range header from h, gated by If-Range. When If-Range is present and
// matches neither the entity tag nor the Last-Modified value, the range is dropped so a
// stale partial response is never produced.
func Extract(h http.Header, size int64, etag, lastModified string) (Range, bool) {
	if values, ok := h["If-Range"]; ok && len(values) > 0 {
		ifRange := strings.TrimSpace(values[0])
		if ifRange != etag && (lastModified == "" || ifRange != lastModified) {
			return Range{}, false
		}
	}

	value := h.Get("Range")
	if value == "" {
		return Range{}, false
	}
	return Parse(value, size)
}
