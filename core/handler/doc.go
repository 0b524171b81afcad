// Package handler provides types and interfaces for HTTP request processing
// with type-safe context handling and middleware support.
//
// # Core Types
//
//	// Response function renders HTTP responses
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Type-safe handler with custom context
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// Error handling function
//	type ErrorHandler[C Context] func(ctx C, err error)
//
//	// Middleware function for handler composition
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
// # Wiring into net/http
//
// Chain composes middleware around an endpoint and ToHTTP turns the result into an
// http.Handler. BaseContext is the default Context implementation:
//
//	h := handler.Chain[*handler.BaseContext](
//		static.Files[*handler.BaseContext](files),
//		middleware.RequestID[*handler.BaseContext](),
//		middleware.LoggingWithLogger[*handler.BaseContext](log),
//	)
//	srv.Start(ctx, handler.ToHTTP(h, handler.NewContext, nil))
package handler
