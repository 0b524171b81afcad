package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/dmitrymomot/staticfiles/core/logger"
	"github.com/dmitrymomot/staticfiles/core/server"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func getFreeAddr(t *testing.T) string {
	t.Helper()
	ln := listen(t)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url)
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 10*time.Millisecond)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServerServe(t *testing.T) {
	t.Parallel()

	ln := listen(t)
	srv := server.New(ln.Addr().String(),
		server.WithLogger(logger.Discard()),
		server.WithReadTimeout(time.Second),
		server.WithWriteTimeout(time.Second),
		server.WithIdleTimeout(time.Second),
		server.WithMaxHeaderBytes(4096),
		server.WithShutdownTimeout(time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ctx, ln, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
	}()

	status, body := get(t, "http://"+ln.Addr().String()+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	err := srv.Serve(ctx, listen(t), http.NotFoundHandler())
	require.ErrorIs(t, err, server.ErrServerAlreadyRunning)

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)
	require.NoError(t, srv.Stop())
	require.NoError(t, srv.Stop(), "stopping twice is a no-op")
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	addr := getFreeAddr(t)
	srv := server.New(addr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))()
	}()

	status, _ := get(t, "http://"+addr+"/")
	assert.Equal(t, http.StatusNoContent, status)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerStartInvalidAddress(t *testing.T) {
	t.Parallel()

	err := server.New("256.0.0.1:bad").Start(context.Background(), http.NotFoundHandler())
	require.Error(t, err)
}

func TestFastServerRun(t *testing.T) {
	t.Parallel()

	addr := getFreeAddr(t)
	srv := server.NewFast(addr, server.WithShutdownTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, func(ctx *fasthttp.RequestCtx) {
			ctx.SetStatusCode(fasthttp.StatusAccepted)
			ctx.SetBodyString("fast")
		})()
	}()

	status, body := get(t, "http://"+addr+"/")
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "fast", body)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestFastServerNoDefaultContentType(t *testing.T) {
	t.Parallel()

	ln := listen(t)
	srv := server.NewFast(ln.Addr().String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = srv.Serve(ctx, ln, func(ctx *fasthttp.RequestCtx) {
			ctx.SetStatusCode(fasthttp.StatusRequestedRangeNotSatisfiable)
		})
	}()
	t.Cleanup(func() { _ = srv.Stop() })

	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 2*time.Second, 10*time.Millisecond)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Type"))
}

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		srv, err := server.NewFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, srv)

		fast, err := server.NewFastFromConfig(server.DefaultConfig())
		require.NoError(t, err)
		assert.NotNil(t, fast)
	})

	t.Run("options override config", func(t *testing.T) {
		t.Parallel()

		cfg := server.Config{Addr: ":8080", ReadTimeout: 15 * time.Second}
		opts := cfg.Options(server.WithShutdownTimeout(10 * time.Second))
		assert.Len(t, opts, 2)
	})

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()

		_, err := server.NewFromConfig(server.Config{})
		require.ErrorIs(t, err, server.ErrMissingAddress)

		_, err = server.NewFastFromConfig(server.Config{})
		require.ErrorIs(t, err, server.ErrMissingAddress)
	})
}

func TestParseEngine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    server.Engine
		wantErr bool
	}{
		{in: "", want: server.EngineNetHTTP},
		{in: "nethttp", want: server.EngineNetHTTP},
		{in: "fasthttp", want: server.EngineFastHTTP},
		{in: "caddy", wantErr: true},
	}
	for _, tt := range tests {
		got, err := server.ParseEngine(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, server.ErrUnknownEngine)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
