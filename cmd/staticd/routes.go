package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/dmitrymomot/staticfiles/core/handler"
	"github.com/dmitrymomot/staticfiles/core/logger"
	"github.com/dmitrymomot/staticfiles/core/static"
	"github.com/dmitrymomot/staticfiles/middleware"
)

// notFound answers 404 for requests the file handler declined.
func notFound(next handler.HandlerFunc[*handler.BaseContext]) handler.HandlerFunc[*handler.BaseContext] {
	return func(ctx *handler.BaseContext) handler.Response {
		response := next(ctx)
		return func(w http.ResponseWriter, r *http.Request) error {
			err := response(w, r)
			if static.IsNotHandled(err) {
				http.NotFound(w, r)
				return nil
			}
			return err
		}
	}
}

// newHTTPHandler assembles the net/http stack. Rendering errors reach
// onError only when the file handler failed before sending a status line.
func newHTTPHandler(files static.Filter, log *slog.Logger, requestID middleware.RequestIDConfig) http.Handler {
	h := handler.Chain(
		static.Files[*handler.BaseContext](files),
		middleware.RequestIDWithConfig[*handler.BaseContext](requestID),
		middleware.LoggingWithLogger[*handler.BaseContext](log),
		notFound,
	)

	onError := func(ctx *handler.BaseContext, err error) {
		if ctx.Err() != nil {
			return
		}
		log.ErrorContext(ctx, "failed to serve file", logger.Component("http"), logger.Error(err))
		if errors.Is(err, static.ErrResponseStarted) {
			return
		}
		http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}

	return handler.ToHTTP(h, handler.NewContext, onError)
}

// newFastHandler assembles the fasthttp stack.
func newFastHandler(files static.Filter, log *slog.Logger, requestID middleware.RequestIDConfig) fasthttp.RequestHandler {
	return middleware.FastRequestID(requestID,
		middleware.FastLogging(middleware.LoggingConfig{Logger: log},
			static.FastHTTPHandler(files, nil),
		),
	)
}
