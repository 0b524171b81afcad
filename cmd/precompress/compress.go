package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/staticfiles/core/logger"
	"github.com/dmitrymomot/staticfiles/core/static"
	"github.com/dmitrymomot/staticfiles/pkg/mimematch"
	"github.com/dmitrymomot/staticfiles/pkg/precompressed"
)

// Stats counts sibling files by outcome.
type Stats struct {
	Written   int64
	Fresh     int64
	Discarded int64
	// Unchanged counts siblings discarded by an earlier run whose source has not changed.
	Unchanged int64
}

// compressTree writes precompressed siblings for every eligible file under
// cfg.Root, skipping hidden directories. Siblings that are not smaller than
// their source are removed again so the server never prefers them, and are
// remembered in cfg.StateFile when it is set.
func compressTree(ctx context.Context, cfg Config, log *slog.Logger) (Stats, error) {
	var stats Stats

	patterns := cfg.Types
	if len(patterns) == 0 {
		patterns = mimematch.DefaultTextTypes
	}
	matcher, err := mimematch.New(patterns...)
	if err != nil {
		return stats, fmt.Errorf("invalid media type patterns: %w", err)
	}

	state, err := loadDiscards(cfg.StateFile, cfg.Root)
	if err != nil {
		return stats, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	walkErr := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != cfg.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !eligibleName(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() < cfg.MinSize {
			return nil
		}
		if mediaType := static.MediaTypeByExtension(path); !matcher.Matches(mediaType) {
			return nil
		}

		for _, alg := range cfg.Algorithms {
			if precompressed.Fresh(path, alg) {
				atomic.AddInt64(&stats.Fresh, 1)
				continue
			}
			if state.unchanged(path, alg, info) {
				atomic.AddInt64(&stats.Unchanged, 1)
				continue
			}
			eg.Go(func() error {
				return compressOne(ctx, log, path, info, alg, cfg.Level, state, &stats)
			})
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return stats, err
	}
	if walkErr != nil {
		return stats, fmt.Errorf("failed to walk %s: %w", cfg.Root, walkErr)
	}
	return stats, state.save()
}

func compressOne(ctx context.Context, log *slog.Logger, path string, src fs.FileInfo, alg precompressed.Algorithm, level precompressed.Level, state *discards, stats *Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := precompressed.CompressFile(path, alg, level)
	if err != nil {
		return fmt.Errorf("failed to compress %s with %s: %w", path, alg, err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dst, err)
	}
	if info.Size() >= src.Size() {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dst, err)
		}
		state.record(path, alg, src)
		atomic.AddInt64(&stats.Discarded, 1)
		log.DebugContext(ctx, "compressed file is not smaller, discarded",
			logger.FilePath(path), logger.Encoding(alg.Encoding()))
		return nil
	}

	atomic.AddInt64(&stats.Written, 1)
	log.DebugContext(ctx, "precompressed file written",
		logger.FilePath(dst), logger.Encoding(alg.Encoding()),
		slog.Int64("size", src.Size()), logger.BytesOut(info.Size()))
	return nil
}

// eligibleName rejects hidden files, temporary files of an interrupted run
// and existing siblings.
func eligibleName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	for _, alg := range precompressed.Algorithms {
		if strings.HasSuffix(name, alg.Extension()) {
			return false
		}
	}
	return true
}
