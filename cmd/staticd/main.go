// Command staticd serves a directory over HTTP using the static files handler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/staticfiles/core/config"
	"github.com/dmitrymomot/staticfiles/core/logger"
	"github.com/dmitrymomot/staticfiles/core/server"
	"github.com/dmitrymomot/staticfiles/core/static"
	"github.com/dmitrymomot/staticfiles/middleware"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	mode := logger.WithDevelopment(cfg.AppName)
	if cfg.LogJSON {
		mode = logger.WithProduction(cfg.AppName)
	}
	log := logger.New(
		mode,
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	)

	if cfg.Static.Root == "" {
		log.Warn("STATIC_ROOT is not set, every request will be answered with 404")
	}
	files, err := static.New(cfg.Static, static.WithLogger(log))
	if err != nil {
		log.Error("Failed to create static files handler", logger.Component("static"), logger.Error(err))
		os.Exit(1)
	}

	engine, err := server.ParseEngine(cfg.Server.Engine)
	if err != nil {
		log.Error("Invalid server engine", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	requestID := middleware.RequestIDConfig{UseExisting: cfg.TrustRequestID}
	eg, ctx := errgroup.WithContext(ctx)

	switch engine {
	case server.EngineFastHTTP:
		s, err := server.NewFastFromConfig(cfg.Server, server.WithLogger(log))
		if err != nil {
			log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
			os.Exit(1)
		}
		eg.Go(s.Run(ctx, newFastHandler(files, log, requestID)))
	default:
		s, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
		if err != nil {
			log.Error("Failed to create server", logger.Component("server"), logger.Error(err))
			os.Exit(1)
		}
		eg.Go(s.Run(ctx, newHTTPHandler(files, log, requestID)))
	}

	log.Info("Serving static files",
		logger.FilePath(files.Root()),
		logger.Component("server"),
		"addr", cfg.Server.Addr,
		"engine", string(engine),
	)

	if err := eg.Wait(); err != nil {
		log.Error("Failed to run server", logger.Component("server"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}
