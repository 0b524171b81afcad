// Package middleware provides request ID and access logging middleware for
// the static file server.
//
// Both middleware come in two forms: generic handler.Middleware[C] functions
// for the core/handler framework and fasthttp wrappers for the fasthttp
// engine. The request ID is stored in the request context in both cases, so
// GetRequestID and RequestIDExtractor work regardless of the engine.
//
// # Request ID
//
//	chain := handler.Chain(endpoint,
//		middleware.RequestID[*handler.BaseContext](),
//		middleware.LoggingWithLogger[*handler.BaseContext](log),
//	)
//
// Incoming IDs are reused only with UseExisting and only when they consist of
// letters, digits and "-_.:" and are at most 128 bytes long.
//
// # Logging
//
// One record is written per request with method, path, status, bytes sent,
// duration, client address, user agent, Range header and Content-Encoding.
// Server errors are logged at error level, client errors and slow requests
// at warning level.
//
// To attach the request ID to every record logged with a request context,
// including records from the static handler:
//
//	log := logger.New(logger.WithContextExtractors(middleware.RequestIDExtractor))
//
// # fasthttp
//
//	h := middleware.FastRequestID(middleware.RequestIDConfig{},
//		middleware.FastLogging(middleware.LoggingConfig{Logger: log}, next))
package middleware
