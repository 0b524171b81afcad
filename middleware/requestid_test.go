package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticfiles/core/handler"
	"github.com/dmitrymomot/staticfiles/middleware"
)

// captureID returns an endpoint that records the request ID seen in its context.
func captureID(t *testing.T, dst *string) handler.HandlerFunc[*handler.BaseContext] {
	t.Helper()
	return func(ctx *handler.BaseContext) handler.Response {
		id, ok := middleware.GetRequestID(ctx)
		assert.True(t, ok, "request ID should be present in context")
		*dst = id
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusOK)
			return nil
		}
	}
}

func serveWith(h handler.HandlerFunc[*handler.BaseContext], req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ToHTTP(h, handler.NewContext, nil).ServeHTTP(rec, req)
	return rec
}

func TestRequestIDDefaultConfiguration(t *testing.T) {
	t.Parallel()

	var captured string
	h := handler.Chain(captureID(t, &captured), middleware.RequestID[*handler.BaseContext]())

	rec := serveWith(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, captured, 36)
	assert.Equal(t, 4, strings.Count(captured, "-"))
	assert.Equal(t, captured, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	t.Parallel()

	var captured string
	h := handler.Chain(captureID(t, &captured), middleware.RequestID[*handler.BaseContext]())

	seen := make(map[string]struct{})
	for range 20 {
		serveWith(h, httptest.NewRequest(http.MethodGet, "/", nil))
		seen[captured] = struct{}{}
	}
	assert.Len(t, seen, 20)
}

func TestRequestIDUseExisting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "well formed", incoming: "edge-7f3a.b2:01", reused: true},
		{name: "empty", incoming: "", reused: false},
		{name: "header injection", incoming: "abc\r\nSet-Cookie: x=1", reused: false},
		{name: "spaces", incoming: "a b", reused: false},
		{name: "too long", incoming: strings.Repeat("a", 129), reused: false},
		{name: "max length", incoming: strings.Repeat("a", 128), reused: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured string
			h := handler.Chain(captureID(t, &captured),
				middleware.RequestIDWithConfig[*handler.BaseContext](middleware.RequestIDConfig{
					UseExisting: true,
					Generator:   func() string { return "generated" },
				}),
			)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header["X-Request-Id"] = []string{tt.incoming}
			}
			rec := serveWith(h, req)

			want := "generated"
			if tt.reused {
				want = tt.incoming
			}
			assert.Equal(t, want, captured)
			assert.Equal(t, want, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRequestIDIgnoresIncomingByDefault(t *testing.T) {
	t.Parallel()

	var captured string
	h := handler.Chain(captureID(t, &captured), middleware.RequestID[*handler.BaseContext]())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-chosen")
	serveWith(h, req)

	assert.NotEqual(t, "client-chosen", captured)
}

func TestRequestIDCustomHeader(t *testing.T) {
	t.Parallel()

	var captured string
	h := handler.Chain(captureID(t, &captured),
		middleware.RequestIDWithConfig[*handler.BaseContext](middleware.RequestIDConfig{
			HeaderName: "X-Trace-ID",
			Generator:  func() string { return "trace-1" },
		}),
	)

	rec := serveWith(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "trace-1", captured)
	assert.Equal(t, "trace-1", rec.Header().Get("X-Trace-ID"))
	assert.Empty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDSkip(t *testing.T) {
	t.Parallel()

	var present bool
	endpoint := func(ctx *handler.BaseContext) handler.Response {
		_, present = middleware.GetRequestID(ctx)
		return func(w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
	}
	h := handler.Chain(endpoint,
		middleware.RequestIDWithConfig[*handler.BaseContext](middleware.RequestIDConfig{
			Skip: func(r *http.Request) bool { return r.URL.Path == "/health" },
		}),
	)

	rec := serveWith(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.False(t, present)
	assert.Empty(t, rec.Header().Get("X-Request-ID"))

	rec = serveWith(h, httptest.NewRequest(http.MethodGet, "/app.css", nil))
	assert.True(t, present)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetRequestID(t *testing.T) {
	t.Parallel()

	_, ok := middleware.GetRequestID(context.Background())
	assert.False(t, ok)

	//nolint:staticcheck // nil context is handled explicitly
	_, ok = middleware.GetRequestID(nil)
	assert.False(t, ok)

	id, ok := middleware.GetRequestID(middleware.WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	_, ok := middleware.RequestIDExtractor(context.Background())
	assert.False(t, ok)

	_, ok = middleware.RequestIDExtractor(middleware.WithRequestID(context.Background(), ""))
	assert.False(t, ok)

	attr, ok := middleware.RequestIDExtractor(middleware.WithRequestID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}
