package server

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/dmitrymomot/staticfiles/core/logger"
)

// Server wraps http.Server with graceful shutdown and configuration options.
// Safe for concurrent use.
type Server struct {
	mu       sync.RWMutex
	addr     string
	server   *http.Server
	settings settings
	running  bool
}

// New creates a new Server with the given address and options.
// Defaults to 30-second graceful shutdown timeout and a no-op logger.
func New(addr string, opts ...Option) *Server {
	s := &Server{addr: addr, settings: defaultSettings()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// Start listens on the configured address and serves until the context is
// canceled or an error occurs. Returns context.Err() when the context is canceled.
// Use Stop() for graceful shutdown.
func (s *Server) Start(ctx context.Context, handler http.Handler) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, handler)
}

// Serve is like Start but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
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
	s.server = &http.Server{
		Addr:           ln.Addr().String(),
		Handler:        handler,
		ReadTimeout:    s.settings.readTimeout,
		WriteTimeout:   s.settings.writeTimeout,
		IdleTimeout:    s.settings.idleTimeout,
		MaxHeaderBytes: s.settings.maxHeaderBytes,
		ErrorLog:       slogToStdLog(s.settings.logger),
	}
	srv := s.server
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.settings.logger.InfoContext(ctx, "starting server",
			logger.Component("nethttp"), "addr", ln.Addr().String())

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
// Returns immediately if the server is not running.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.server == nil {
		return nil
	}

	l := s.settings.logger
	l.Info("shutting down server gracefully", "timeout", s.settings.shutdown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.settings.shutdown)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.running = false

	if err != nil {
		l.Error("server shutdown error", logger.Error(err))
		return err
	}

	l.Info("server shutdown complete")
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the server, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (s *Server) Run(ctx context.Context, handler http.Handler) func() error {
	return runner(ctx, s.settings.logger, func() error { return s.Start(ctx, handler) }, s.Stop)
}

// Run is a convenience function that creates and runs a server with default settings.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	return New(addr).Start(ctx, handler)
}

// runner waits for start to return before stopping, so a server that was
// still starting when ctx was cancelled is shut down as well. Start reports
// cancellation as an error, so that path shuts down gracefully too.
func runner(ctx context.Context, l *slog.Logger, start, stop func() error) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- start()
		}()

		select {
		case <-ctx.Done():
			<-errCh
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
		}

		if stopErr := stop(); stopErr != nil {
			l.Error("failed to stop server during context cancellation", logger.Error(stopErr))
		}
		return nil
	}
}

func slogToStdLog(l *slog.Logger) *log.Logger {
	return slog.NewLogLogger(l.Handler(), slog.LevelWarn)
}
