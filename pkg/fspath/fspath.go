package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"
)

var (
	ErrMalformed  = errors.New("malformed path")
	ErrEscape     = errors.New("path escapes root directory")
	ErrNotFound   = errors.New("path not found")
	ErrPermission = errors.New("permission denied")
)

// Canonical returns the absolute, symlink-free form of root.
func Canonical(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to make root absolute: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", classify(err)
	}
	return resolved, nil
}

// Resolve maps urlPath onto a canonical filesystem path inside root.
// urlPath is expected in its escaped form, without the query string.
func Resolve(urlPath, root string) (string, error) {
	segments, err := split(urlPath)
	if err != nil {
		return "", err
	}
	return Within(filepath.Join(append([]string{root}, segments...)...), root)
}

// Within canonicalizes path and verifies that the result is root or one of its descendants.
func Within(path, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", classify(err)
	}
	if !contains(root, resolved) {
		return "", fmt.Errorf("%w: %s", ErrEscape, resolved)
	}
	return resolved, nil
}

// ToURI maps a canonical path inside root back to the URL path addressing it.
// Directories get a trailing slash. The boolean is false when the path has no
// lossless URL form.
func ToURI(path, root string) (string, bool) {
	if !contains(root, path) {
		return "", false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	if rel != "." {
		for _, component := range strings.Split(filepath.ToSlash(rel), "/") {
			if component == "" || component == "." || component == ".." || !utf8.ValidString(component) {
				return "", false
			}
			b.WriteByte('/')
			escapeSegment(&b, component)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", false
	}
	if info.IsDir() || b.Len() == 0 {
		b.WriteByte('/')
	}
	return b.String(), true
}

// escapeSegment percent-encodes the bytes of s that RFC 3986 does not allow in
// a path segment. Sub-delimiters, ':' and '@' are kept as they are.
func escapeSegment(b *strings.Builder, s string) {
	const hex = "0123456789ABCDEF"
	for i := 0; i < len(s); i++ {
		c := s[i]
		if pchar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
}

func pchar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', // unreserved
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=', // sub-delims
		':', '@':
		return true
	}
	return false
}

func split(urlPath string) ([]string, error) {
	if !strings.HasPrefix(urlPath, "/") {
		return nil, fmt.Errorf("%w: %q does not start with a slash", ErrMalformed, urlPath)
	}

	segments := make([]string, 0, strings.Count(urlPath, "/"))
	for _, raw := range strings.Split(urlPath[1:], "/") {
		segment, err := url.PathUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if !utf8.ValidString(segment) || strings.ContainsAny(segment, "/\\\x00") {
			return nil, fmt.Errorf("%w: illegal characters in segment %q", ErrMalformed, raw)
		}

		switch segment {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrEscape, urlPath)
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, segment)
		}
	}
	return segments, nil
}

func contains(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermission, err)
	}
	return err
}
