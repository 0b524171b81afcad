// Package mimematch matches media types against glob-like patterns.
//
// Supported pattern forms are an exact "type/subtype", a subtype wildcard "type/*",
// a structured syntax suffix "*+suffix" and the catch-all "*/*". Matching is
// case-insensitive and ignores parameters on the media type being tested.
package mimematch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is returned for patterns that are not of a supported form.
var ErrInvalidPattern = errors.New("invalid media type pattern")

// DefaultTextTypes lists media types that are text-like enough to carry a charset.
var DefaultTextTypes = []string{
	"text/*",
	"*+xml",
	"*+json",
	"application/javascript",
	"application/json",
	"application/json5",
}

// Matcher holds a set of compiled patterns. The zero value matches nothing.
// A Matcher must not be modified once it is shared between goroutines.
type Matcher struct {
	exact    map[string]struct{}
	types    map[string]struct{}
	suffixes map[string]struct{}
	any      bool
}

// New compiles the given patterns into a Matcher.
func New(patterns ...string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		if err := m.Add(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on invalid patterns.
func MustNew(patterns ...string) *Matcher {
	m, err := New(patterns...)
	if err != nil {
		panic("mimematch: " + err.Error())
	}
	return m
}

// Add compiles a single pattern into the matcher.
func (m *Matcher) Add(pattern string) error {
	p := strings.ToLower(strings.TrimSpace(pattern))
	if suffix, ok := strings.CutPrefix(p, "*+"); ok {
		if !token(suffix) {
			return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
		}
		add(&m.suffixes, suffix)
		return nil
	}

	typ, sub, ok := strings.Cut(p, "/")
	if !ok || !token(typ) || !token(sub) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	switch {
	case typ == "*" && sub == "*":
		m.any = true
	case typ == "*":
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	case sub == "*":
		add(&m.types, typ)
	default:
		add(&m.exact, typ+"/"+sub)
	}
	return nil
}

// Matches reports whether mediaType matches any of the patterns.
func (m *Matcher) Matches(mediaType string) bool {
	if m == nil {
		return false
	}
	essence, _, _ := strings.Cut(mediaType, ";")
	typ, sub, ok := strings.Cut(strings.ToLower(strings.TrimSpace(essence)), "/")
	if !ok || typ == "" || sub == "" {
		return false
	}
	if m.any {
		return true
	}
	if _, found := m.exact[typ+"/"+sub]; found {
		return true
	}
	if _, found := m.types[typ]; found {
		return true
	}
	if i := strings.LastIndexByte(sub, '+'); i >= 0 {
		if _, found := m.suffixes[sub[i+1:]]; found {
			return true
		}
	}
	return false
}

func add(set *map[string]struct{}, key string) {
	if *set == nil {
		*set = make(map[string]struct{})
	}
	(*set)[key] = struct{}{}
}

func token(s string) bool {
	return s != "" && !strings.ContainsAny(s, "/;, \t")
}
