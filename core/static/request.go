package static

import (
	"io"
	"net/http"
)

// Request is the host-independent view of an incoming request.
type Request struct {
	Method string
	// Path is the raw, still escaped URL path the handler resolves against its root.
	Path     string
	RawQuery string
	// OriginalPath is the escaped path as the client sent it, before any
	// prefix stripping by the host. Used to rebuild redirect locations.
	OriginalPath string
	Header       http.Header
}

// Interval is an inclusive byte interval of the effective file.
type Interval struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the interval.
func (i Interval) Length() int64 { return i.End - i.Start + 1 }

// Response describes what to send. Body, when set, refers to bytes of the
// file at Path.
type Response struct {
	Status int
	Header http.Header
	Body   *Interval
	Path   string
}

// ResponseWriter is the host capability used to emit a response.
type ResponseWriter interface {
	WriteHeader(status int, header http.Header) error
	io.Writer
}

// StreamWriter is implemented by writers that can take ownership of a body
// reader instead of having it copied into them.
type StreamWriter interface {
	WriteStream(body io.ReadCloser, size int64) error
}

// Result tells the host how to continue after a filter ran.
type Result uint8

const (
	// Unhandled means the filter declined the request.
	Unhandled Result = iota
	// Handled means the filter acted but processing should continue.
	Handled
	// ResponseSent means the response is complete.
	ResponseSent
)

func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case ResponseSent:
		return "response_sent"
	default:
		return "unhandled"
	}
}
