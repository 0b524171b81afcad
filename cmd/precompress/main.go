// Command precompress writes compressed siblings next to static files so
// that the static files handler can serve them without compressing on the fly.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/staticfiles/core/config"
	"github.com/dmitrymomot/staticfiles/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error
	if len(os.Args) > 1 {
		cfg.Root = os.Args[1]
	}

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))

	if cfg.StateFile == "" {
		path, err := defaultStateFile(cfg.Root)
		if err != nil {
			log.Warn("No state file, discarded siblings will be retried", logger.Error(err))
		}
		cfg.StateFile = path
	}

	stats, err := compressTree(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to precompress files", logger.Component("precompress"), logger.Error(err))
		os.Exit(1)
	}

	log.Info("Precompression finished",
		logger.FilePath(cfg.Root),
		slog.Int64("written", stats.Written),
		slog.Int64("fresh", stats.Fresh),
		slog.Int64("discarded", stats.Discarded),
		slog.Int64("unchanged", stats.Unchanged),
	)
}
