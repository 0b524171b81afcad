package main

import (
	"github.com/dmitrymomot/staticfiles/core/server"
	"github.com/dmitrymomot/staticfiles/core/static"
)

// Config is loaded from the environment and an optional .env file.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"staticd"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"true"`

	// TrustRequestID reuses well-formed X-Request-ID headers set by a proxy.
	TrustRequestID bool `env:"TRUST_REQUEST_ID" envDefault:"false"`

	Server server.Config
	Static static.Config
}
