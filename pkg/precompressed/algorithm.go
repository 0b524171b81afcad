package precompressed

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedAlgorithm is returned when parsing an unknown algorithm name.
var ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

// Algorithm identifies a compression scheme for precompressed sibling files.
type Algorithm uint8

const (
	Gzip Algorithm = iota + 1
	Brotli
	Zstandard
)

// Algorithms lists every supported algorithm in the default preference order.
var Algorithms = []Algorithm{Brotli, Zstandard, Gzip}

// ParseAlgorithm accepts the content coding name, the file extension or the
// long name of an algorithm, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "."))) {
	case "gzip", "gz", "x-gzip":
		return Gzip, nil
	case "br", "brotli":
		return Brotli, nil
	case "zstd", "zst", "zstandard":
		return Zstandard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
}

// Encoding returns the Content-Encoding token of the algorithm.
func (a Algorithm) Encoding() string {
	switch a {
	case Gzip:
		return "gzip"
	case Brotli:
		return "br"
	case Zstandard:
		return "zstd"
	}
	return ""
}

// Extension returns the file name suffix, including the dot, of sibling files.
func (a Algorithm) Extension() string {
	switch a {
	case Gzip:
		return ".gz"
	case Brotli:
		return ".br"
	case Zstandard:
		return ".zst"
	}
	return ""
}

func (a Algorithm) String() string {
	if e := a.Encoding(); e != "" {
		return e
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if a.Encoding() == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, uint8(a))
	}
	return []byte(a.Encoding()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so algorithms can be
// listed in environment configuration.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
