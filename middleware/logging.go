package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/staticfiles/core/handler"
	"github.com/dmitrymomot/staticfiles/core/logger"
)

// LoggingConfig configures the access logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for successful requests (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging (default: "http")
	Component string
}

func (cfg *LoggingConfig) defaults() {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}
}

// accessEntry is the engine-independent description of a finished request.
type accessEntry struct {
	method    string
	path      string
	query     string
	clientIP  string
	userAgent string
	rangeSpec string
	status    int
	bytes     int64
	encoding  string
	start     time.Time
	err       error
}

// log writes one line per request. Server errors log at error level, client
// errors and slow requests at warning level.
func (cfg *LoggingConfig) log(ctx context.Context, e accessEntry) {
	duration := time.Since(e.start)

	attrs := []slog.Attr{
		logger.Component(cfg.Component),
		logger.Method(e.method),
		logger.Path(e.path),
		logger.StatusCode(e.status),
		logger.BytesOut(e.bytes),
		logger.Duration(duration),
		logger.ClientIP(e.clientIP),
		logger.UserAgent(e.userAgent),
		logger.Encoding(e.encoding),
	}
	if e.query != "" {
		attrs = append(attrs, slog.String("query", e.query))
	}
	if e.rangeSpec != "" {
		attrs = append(attrs, slog.String("range", e.rangeSpec))
	}

	level := cfg.LogLevel
	switch {
	case e.status >= 500:
		level = slog.LevelError
		attrs = append(attrs, logger.Error(e.err))
	case e.status >= 400:
		level = slog.LevelWarn
	case duration > cfg.SlowRequestThreshold:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Bool("slow_request", true))
	}

	cfg.Logger.LogAttrs(ctx, level, "HTTP request completed", attrs...)
}

// Logging creates an access logging middleware with default configuration.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger creates an access logging middleware with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

// LoggingWithConfig creates an access logging middleware with custom configuration.
// Place it after RequestID so that records carry the request ID.
func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	cfg.defaults()

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx.Request()) {
				return next(ctx)
			}

			start := time.Now()
			response := next(ctx)
			if response == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
				err := response(wrapped, r)

				status := wrapped.statusCode
				if err != nil && !wrapped.headerWritten {
					// The error handler has not written anything yet.
					status = http.StatusInternalServerError
				}
				cfg.log(r.Context(), accessEntry{
					method:    r.Method,
					path:      r.URL.Path,
					query:     r.URL.RawQuery,
					clientIP:  r.RemoteAddr,
					userAgent: r.UserAgent(),
					rangeSpec: r.Header.Get("Range"),
					status:    status,
					bytes:     wrapped.size,
					encoding:  w.Header().Get("Content-Encoding"),
					start:     start,
					err:       err,
				})
				return err
			}
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture response details
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	size          int64
	headerWritten bool
}

// WriteHeader captures the status code
func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.headerWritten {
		rw.statusCode = statusCode
		rw.headerWritten = true
	}
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Write captures the response size
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	size, err := rw.ResponseWriter.Write(b)
	rw.size += int64(size)
	return size, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
