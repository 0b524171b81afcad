package static

import (
	"io"
	"net/http"

	"github.com/valyala/fasthttp"
)

// NewFastHTTPRequest converts a fasthttp request. fasthttp does not rewrite
// paths, so the original path equals the request path.
func NewFastHTTPRequest(ctx *fasthttp.RequestCtx) *Request {
	header := make(http.Header)
	ctx.Request.Header.VisitAll(func(key, value []byte) {
		header.Add(string(key), string(value))
	})
	path := string(ctx.URI().PathOriginal())
	if path == "" {
		path = "/"
	}
	return &Request{
		Method:       string(ctx.Method()),
		Path:         path,
		RawQuery:     string(ctx.URI().QueryString()),
		OriginalPath: path,
		Header:       header,
	}
}

// FastHTTPResponseWriter adapts a fasthttp request context. Bodies are handed
// to fasthttp as streams so large files are not buffered in memory.
type FastHTTPResponseWriter struct {
	ctx *fasthttp.RequestCtx
}

// NewFastHTTPResponseWriter wraps ctx.
func NewFastHTTPResponseWriter(ctx *fasthttp.RequestCtx) *FastHTTPResponseWriter {
	return &FastHTTPResponseWriter{ctx: ctx}
}

func (w *FastHTTPResponseWriter) WriteHeader(status int, header http.Header) error {
	w.ctx.SetStatusCode(status)
	for key, values := range header {
		for i, v := range values {
			if i == 0 {
				w.ctx.Response.Header.Set(key, v)
			} else {
				w.ctx.Response.Header.Add(key, v)
			}
		}
	}
	return nil
}

func (w *FastHTTPResponseWriter) Write(p []byte) (int, error) {
	return w.ctx.Write(p)
}

// WriteStream passes body to fasthttp, which closes it once sent.
func (w *FastHTTPResponseWriter) WriteStream(body io.ReadCloser, size int64) error {
	w.ctx.SetBodyStream(body, int(size))
	return nil
}

// FastHTTPHandler runs f for every request and falls through to next unless
// f sent a complete response. A nil next answers 404. The server should set
// NoDefaultContentType so bodiless responses carry no Content-Type.
func FastHTTPHandler(f Filter, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	if next == nil {
		next = func(ctx *fasthttp.RequestCtx) {
			ctx.Error(fasthttp.StatusMessage(fasthttp.StatusNotFound), fasthttp.StatusNotFound)
		}
	}
	return func(ctx *fasthttp.RequestCtx) {
		res, err := f.Filter(ctx, NewFastHTTPRequest(ctx), NewFastHTTPResponseWriter(ctx))
		if err != nil {
			ctx.Error(fasthttp.StatusMessage(fasthttp.StatusInternalServerError), fasthttp.StatusInternalServerError)
			return
		}
		if res != ResponseSent {
			next(ctx)
		}
	}
}
