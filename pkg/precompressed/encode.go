package precompressed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Level selects a speed/size trade-off independent of the algorithm.
type Level uint8

const (
	LevelDefault Level = iota
	LevelFastest
	LevelBest
)

// UnmarshalText accepts "default", "fastest" or "best".
func (l *Level) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "default":
		*l = LevelDefault
	case "fastest", "fast":
		*l = LevelFastest
	case "best":
		*l = LevelBest
	default:
		return fmt.Errorf("unknown compression level %q", text)
	}
	return nil
}

// NewWriter returns a writer compressing into w with the given algorithm.
// Closing the returned writer flushes the stream but does not close w.
func NewWriter(w io.Writer, alg Algorithm, level Level) (io.WriteCloser, error) {
	switch alg {
	case Gzip:
		lvl := gzip.DefaultCompression
		switch level {
		case LevelFastest:
			lvl = gzip.BestSpeed
		case LevelBest:
			lvl = gzip.BestCompression
		}
		return gzip.NewWriterLevel(w, lvl)
	case Brotli:
		lvl := brotli.DefaultCompression
		switch level {
		case LevelFastest:
			lvl = brotli.BestSpeed
		case LevelBest:
			lvl = brotli.BestCompression
		}
		return brotli.NewWriterLevel(w, lvl), nil
	case Zstandard:
		lvl := zstd.SpeedDefault
		switch level {
		case LevelFastest:
			lvl = zstd.SpeedFastest
		case LevelBest:
			lvl = zstd.SpeedBestCompression
		}
		return zstd.NewWriter(w, zstd.WithEncoderLevel(lvl))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
}

// SiblingPath returns the path of the precompressed sibling of path.
func SiblingPath(path string, alg Algorithm) string {
	return path + alg.Extension()
}

// Fresh reports whether the sibling of path exists and is not older than path.
func Fresh(path string, alg Algorithm) bool {
	src, err := os.Stat(path)
	if err != nil {
		return false
	}
	dst, err := os.Stat(SiblingPath(path, alg))
	if err != nil || !dst.Mode().IsRegular() {
		return false
	}
	return !dst.ModTime().Before(src.ModTime())
}

// CompressFile writes the precompressed sibling of path and returns its location.
// The sibling is written to a temporary file first and renamed into place, and it
// inherits the modification time of the source.
func CompressFile(path string, alg Algorithm, level Level) (_ string, err error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("not a regular file: %s", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".precompress-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	zw, err := NewWriter(tmp, alg, level)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(zw, src); err != nil {
		return "", errors.Join(fmt.Errorf("failed to compress: %w", err), zw.Close())
	}
	if err = zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish stream: %w", err)
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Chtimes(tmp.Name(), info.ModTime(), info.ModTime()); err != nil {
		return "", fmt.Errorf("failed to set modification time: %w", err)
	}

	dst := SiblingPath(path, alg)
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("failed to move sibling into place: %w", err)
	}
	return dst, nil
}
