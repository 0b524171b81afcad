package main

import (
	"github.com/dmitrymomot/staticfiles/pkg/precompressed"
)

// Config is loaded from the environment and an optional .env file.
// The first command line argument, when present, overrides Root.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Root       string                    `env:"PRECOMPRESS_ROOT" envDefault:"."`
	Algorithms []precompressed.Algorithm `env:"PRECOMPRESS_ALGORITHMS" envSeparator:"," envDefault:"br,gzip"`
	Level      precompressed.Level       `env:"PRECOMPRESS_LEVEL" envDefault:"best"`

	// Types are media type patterns worth compressing (default: mimematch.DefaultTextTypes).
	Types []string `env:"PRECOMPRESS_TYPES" envSeparator:","`

	// MinSize skips files too small to benefit from compression.
	MinSize int64 `env:"PRECOMPRESS_MIN_SIZE" envDefault:"256"`

	// StateFile remembers discarded siblings between runs
	// (default: a file under the user cache directory).
	StateFile string `env:"PRECOMPRESS_STATE_FILE"`

	// Workers bounds concurrent compression jobs.
	Workers int `env:"PRECOMPRESS_WORKERS" envDefault:"4"`
}
