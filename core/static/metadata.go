package static

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/dmitrymomot/staticfiles/pkg/httprange"
)

// Metadata describes a file about to be served. Size, validators and Path
// refer to the effective file (which may be a precompressed sibling), while
// MediaType describes the logical resource the client asked for.
type Metadata struct {
	Path         string
	Size         int64
	MediaType    string
	ETag         string
	LastModified string
	ModTime      time.Time
}

// MetadataFromPath stats path and derives the response metadata. The media
// type is taken from logical, or from path when logical is empty.
func MetadataFromPath(path, logical string) (*Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	if logical == "" {
		logical = path
	}

	m := &Metadata{
		Path:      path,
		Size:      info.Size(),
		MediaType: MediaTypeByExtension(logical),
		ModTime:   info.ModTime(),
	}
	if id, ok := fileIdentity(path); ok {
		m.ETag = fmt.Sprintf(`"%x-%x-%x"`, id, m.ModTime.Unix(), m.Size)
	} else {
		m.ETag = fmt.Sprintf(`"%x-%x"`, m.ModTime.Unix(), m.Size)
	}
	if !m.ModTime.IsZero() {
		m.LastModified = m.ModTime.UTC().Format(http.TimeFormat)
	}
	return m, nil
}

// ContentType returns the media type with the charset parameter appended when charset is set.
func (m *Metadata) ContentType(charset string) string {
	if charset == "" {
		return m.MediaType
	}
	return m.MediaType + "; charset=" + charset
}

// FullHeader builds a 200 response covering the whole file.
func (m *Metadata) FullHeader(charset string) *Response {
	resp := m.CustomHeader(http.StatusOK)
	resp.Header.Set("Content-Type", m.ContentType(charset))
	resp.Header.Set("Content-Length", strconv.FormatInt(m.Size, 10))
	if m.Size > 0 {
		resp.Body = &Interval{Start: 0, End: m.Size - 1}
	}
	return resp
}

// PartialHeader builds a 206 response for the inclusive byte interval [start, end].
func (m *Metadata) PartialHeader(charset string, start, end int64) *Response {
	r := httprange.Valid(start, end)
	resp := m.CustomHeader(http.StatusPartialContent)
	resp.Header.Set("Content-Type", m.ContentType(charset))
	resp.Header.Set("Content-Length", strconv.FormatInt(r.Length(), 10))
	resp.Header.Set("Content-Range", r.ContentRange(m.Size))
	resp.Body = &Interval{Start: start, End: end}
	return resp
}

// NotSatisfiableHeader builds a 416 response announcing the file size.
func (m *Metadata) NotSatisfiableHeader() *Response {
	resp := m.CustomHeader(http.StatusRequestedRangeNotSatisfiable)
	resp.Header.Set("Content-Range", httprange.OutOfBounds.ContentRange(m.Size))
	resp.Header.Set("Content-Length", "0")
	return resp
}

// CustomHeader builds a bodiless response carrying only the validators and
// Accept-Ranges. It is used as is for 304 and 412.
func (m *Metadata) CustomHeader(status int) *Response {
	h := make(http.Header, 6)
	if m.ETag != "" {
		h.Set("ETag", m.ETag)
	}
	if m.LastModified != "" {
		h.Set("Last-Modified", m.LastModified)
	}
	h.Set("Accept-Ranges", "bytes")
	return &Response{Status: status, Header: h, Path: m.Path}
}
