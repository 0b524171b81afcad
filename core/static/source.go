package static

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Source opens file content for sending.
type Source interface {
	// ReadRange returns a reader over the inclusive interval [start, end] of path.
	ReadRange(ctx context.Context, path string, start, end int64) (io.ReadCloser, error)
}

// FileSource reads content from a billy filesystem. Only Open is used, so
// any billy.Basic implementation will do.
type FileSource struct {
	fs billy.Basic
}

// NewFileSource returns a Source over fs. A nil fs means the host filesystem.
func NewFileSource(fs billy.Basic) *FileSource {
	if fs == nil {
		fs = osfs.Default
	}
	return &FileSource{fs: fs}
}

func (s *FileSource) ReadRange(ctx context.Context, path string, start, end int64) (io.ReadCloser, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &sectionReadCloser{
		Reader: io.NewSectionReader(f, start, end-start+1),
		Closer: f,
	}, nil
}

type sectionReadCloser struct {
	io.Reader
	io.Closer
}
