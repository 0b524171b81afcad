package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/valyala/fasthttp"

	"github.com/dmitrymomot/staticfiles/core/logger"
)

const maxFastReadBuffer = 64 << 10

// FastServer runs a fasthttp.Server with the same lifecycle as Server.
// Safe for concurrent use.
type FastServer struct {
	mu       sync.Mutex
	addr     string
	server   *fasthttp.Server
	settings settings
	running  bool
}

// NewFast creates a FastServer with the given address and options.
func NewFast(addr string, opts ...Option) *FastServer {
	s := &FastServer{addr: addr, settings: defaultSettings()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Start listens on the configured address and serves until the context is
// canceled or an error occurs.
func (s *FastServer) Start(ctx context.Context, handler fasthttp.RequestHandler) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, handler)
}

// Serve is like Start but accepts connections on ln.
func (s *FastServer) Serve(ctx context.Context, ln net.Listener, handler fasthttp.RequestHandler) error {
	if err := ctx.Err(); err != nil {
		ln.Close()
		return err
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		ln.Close()
		return ErrServerAlreadyRunning
	}
	s.running = true
	s.server = &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  s.settings.readTimeout,
		WriteTimeout: s.settings.writeTimeout,
		IdleTimeout:  s.settings.idleTimeout,
		// fasthttp bounds request headers by its per-connection read buffer.
		ReadBufferSize:        min(s.settings.maxHeaderBytes, maxFastReadBuffer),
		NoDefaultContentType:  true,
		NoDefaultServerHeader: true,
		Logger:                fastLogger{s.settings.logger},
	}
	srv := s.server
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.settings.logger.InfoContext(ctx, "starting server",
			logger.Component("fasthttp"), "addr", ln.Addr().String())

		if err := srv.Serve(ln); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop gracefully shuts down the server using the configured timeout.
func (s *FastServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	l := s.settings.logger
	l.Info("shutting down server gracefully", "timeout", s.settings.shutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.shutdown)
	defer cancel()

	err := s.server.ShutdownWithContext(shutdownCtx)
	s.running = false

	if err != nil {
		l.Error("server shutdown error", logger.Error(err))
		return err
	}

	l.Info("server shutdown complete")
	return nil
}

// Run provides errgroup compatibility, see Server.Run.
func (s *FastServer) Run(ctx context.Context, handler fasthttp.RequestHandler) func() error {
	return runner(ctx, s.settings.logger, func() error { return s.Start(ctx, handler) }, s.Stop)
}

type fastLogger struct {
	log *slog.Logger
}

func (l fastLogger) Printf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...), logger.Component("fasthttp"))
}
