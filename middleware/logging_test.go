package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticfiles/core/handler"
	"github.com/dmitrymomot/staticfiles/core/logger"
	"github.com/dmitrymomot/staticfiles/middleware"
)

// testLogHandler captures log entries for testing
type testLogHandler struct {
	mu      sync.Mutex
	entries []map[string]any
}

func (h *testLogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *testLogHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(map[string]any)
	entry["level"] = r.Level.String()
	entry["msg"] = r.Message

	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	h.mu.Unlock()
	return nil
}

func (h *testLogHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *testLogHandler) WithGroup(string) slog.Handler { return h }

func respond(status int, body string) handler.HandlerFunc[*handler.BaseContext] {
	return func(ctx *handler.BaseContext) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			w.Header().Set("Content-Encoding", "br")
			w.WriteHeader(status)
			_, err := w.Write([]byte(body))
			return err
		}
	}
}

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		level  string
	}{
		{name: "success", status: http.StatusOK, level: "INFO"},
		{name: "partial content", status: http.StatusPartialContent, level: "INFO"},
		{name: "client error", status: http.StatusNotFound, level: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logs := &testLogHandler{}
			h := handler.Chain(respond(tt.status, "payload"),
				middleware.LoggingWithLogger[*handler.BaseContext](slog.New(logs)),
			)

			req := httptest.NewRequest(http.MethodGet, "/app.js?v=1", nil)
			req.Header.Set("Range", "bytes=0-6")
			req.Header.Set("User-Agent", "test-agent")
			rec := httptest.NewRecorder()
			handler.ToHTTP(h, handler.NewContext, nil).ServeHTTP(rec, req)

			require.Len(t, logs.entries, 1)
			entry := logs.entries[0]
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "HTTP request completed", entry["msg"])
			assert.Equal(t, "http", entry["component"])
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, "/app.js", entry["path"])
			assert.Equal(t, "v=1", entry["query"])
			assert.Equal(t, int64(tt.status), entry["status_code"])
			assert.Equal(t, int64(7), entry["bytes_out"])
			assert.Equal(t, "bytes=0-6", entry["range"])
			assert.Equal(t, "test-agent", entry["user_agent"])
			assert.Equal(t, "br", entry["encoding"])
			assert.Contains(t, entry, "duration")
		})
	}
}

func TestLoggingMiddlewareSkip(t *testing.T) {
	t.Parallel()

	logs := &testLogHandler{}
	h := handler.Chain(respond(http.StatusOK, "ok"),
		middleware.LoggingWithConfig[*handler.BaseContext](middleware.LoggingConfig{
			Logger: slog.New(logs),
			Skip:   func(r *http.Request) bool { return r.URL.Path == "/health" },
		}),
	)
	srv := handler.ToHTTP(h, handler.NewContext, nil)

	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, logs.entries)

	srv.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/index.html", nil))
	assert.Len(t, logs.entries, 1)
}

func TestLoggingMiddlewareError(t *testing.T) {
	t.Parallel()

	logs := &testLogHandler{}
	failing := func(ctx *handler.BaseContext) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			return errors.New("disk on fire")
		}
	}
	h := handler.Chain(failing, middleware.LoggingWithLogger[*handler.BaseContext](slog.New(logs)))

	rec := httptest.NewRecorder()
	handler.ToHTTP(h, handler.NewContext, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, logs.entries, 1)
	assert.Equal(t, "ERROR", logs.entries[0]["level"])
	assert.Contains(t, logs.entries[0], "error")
}

func TestLoggingWithRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithJSONFormatter(),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)

	h := handler.Chain(respond(http.StatusOK, "ok"),
		middleware.RequestIDWithConfig[*handler.BaseContext](middleware.RequestIDConfig{
			Generator: func() string { return "req-42" },
		}),
		middleware.LoggingWithLogger[*handler.BaseContext](log),
	)

	rec := httptest.NewRecorder()
	handler.ToHTTP(h, handler.NewContext, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	assert.Contains(t, buf.String(), `"msg":"HTTP request completed"`)
}
