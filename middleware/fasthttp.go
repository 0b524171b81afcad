package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
)

// FastRequestID is the fasthttp counterpart of RequestIDWithConfig. The ID
// is stored as a user value, so GetRequestID works on the *fasthttp.RequestCtx.
func FastRequestID(cfg RequestIDConfig, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	cfg.defaults()

	return func(ctx *fasthttp.RequestCtx) {
		requestID := cfg.resolve(string(ctx.Request.Header.Peek(cfg.HeaderName)))
		ctx.SetUserValue(requestIDUserValue, requestID)
		next(ctx)
		// Set afterwards: ctx.Error resets response headers.
		ctx.Response.Header.Set(cfg.HeaderName, requestID)
	}
}

// FastLogging is the fasthttp counterpart of LoggingWithConfig. Skip is not
// consulted because fasthttp has no *http.Request.
func FastLogging(cfg LoggingConfig, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	cfg.defaults()

	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		// Body() would drain a stream, so streams report their declared length.
		var size int64
		if ctx.Response.IsBodyStream() {
			size = int64(ctx.Response.Header.ContentLength())
		} else {
			size = int64(len(ctx.Response.Body()))
		}
		if size < 0 || ctx.IsHead() {
			size = 0
		}
		cfg.log(ctx, accessEntry{
			method:    string(ctx.Method()),
			path:      string(ctx.Path()),
			query:     string(ctx.URI().QueryString()),
			clientIP:  ctx.RemoteIP().String(),
			userAgent: string(ctx.UserAgent()),
			rangeSpec: string(ctx.Request.Header.Peek("Range")),
			status:    ctx.Response.StatusCode(),
			bytes:     size,
			encoding:  string(ctx.Response.Header.Peek("Content-Encoding")),
			start:     start,
		})
	}
}
