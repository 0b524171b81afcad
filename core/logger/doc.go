// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from functional options, and the attribute helpers give
// consistent keys to the values logged across the module:
//
//	log := logger.New(
//		logger.WithProduction("staticd"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Warn("requested path outside root directory",
//		logger.Component("static"),
//		logger.Path(r.URL.Path),
//		logger.Error(err),
//	)
//
// Helpers that receive an empty value (nil error, empty request ID, ...) return the empty
// slog.Attr, which slog handlers skip, so callers never need nil checks.
package logger
