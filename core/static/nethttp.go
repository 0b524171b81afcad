package static

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/staticfiles/core/handler"
)

// NewRequest converts an incoming net/http request. The original path is
// taken from RequestURI so that prefixes removed by http.StripPrefix can be
// restored in redirect locations.
func NewRequest(r *http.Request) *Request {
	path := r.URL.EscapedPath()
	original := path
	if r.RequestURI != "" {
		if u, err := url.ParseRequestURI(r.RequestURI); err == nil {
			original = u.EscapedPath()
		}
	}
	return &Request{
		Method:       r.Method,
		Path:         path,
		RawQuery:     r.URL.RawQuery,
		OriginalPath: original,
		Header:       r.Header,
	}
}

// HTTPResponseWriter adapts an http.ResponseWriter.
type HTTPResponseWriter struct {
	w           http.ResponseWriter
	wroteHeader bool
}

// NewHTTPResponseWriter wraps w.
func NewHTTPResponseWriter(w http.ResponseWriter) *HTTPResponseWriter {
	return &HTTPResponseWriter{w: w}
}

func (w *HTTPResponseWriter) WriteHeader(status int, header http.Header) error {
	dst := w.w.Header()
	for key, values := range header {
		dst[key] = append([]string(nil), values...)
	}
	w.w.WriteHeader(status)
	w.wroteHeader = true
	return nil
}

func (w *HTTPResponseWriter) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// WroteHeader reports whether a status line was sent.
func (w *HTTPResponseWriter) WroteHeader() bool { return w.wroteHeader }

// HTTPHandler runs f for every request and falls through to next unless f
// sent a complete response. A nil next answers 404.
func HTTPHandler(f Filter, next http.Handler) http.Handler {
	if next == nil {
		next = http.NotFoundHandler()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := NewHTTPResponseWriter(w)
		res, err := f.Filter(r.Context(), NewRequest(r), rw)
		if err != nil {
			if !rw.WroteHeader() && r.Context().Err() == nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}
		if res != ResponseSent {
			next.ServeHTTP(w, r)
		}
	})
}

// Files exposes f as a handler for the core/handler framework. Declined
// requests surface as ErrNotHandled to the configured error handler, and
// failures after the status line was sent are wrapped in ErrResponseStarted.
func Files[C handler.Context](f Filter) handler.HandlerFunc[C] {
	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			rw := NewHTTPResponseWriter(w)
			res, err := f.Filter(ctx, NewRequest(r), rw)
			if err != nil {
				if rw.WroteHeader() {
					return fmt.Errorf("%w: %w", ErrResponseStarted, err)
				}
				return err
			}
			if res == Unhandled {
				return ErrNotHandled
			}
			return nil
		}
	}
}

// IsNotHandled reports whether err means the request was declined.
func IsNotHandled(err error) bool { return errors.Is(err, ErrNotHandled) }
