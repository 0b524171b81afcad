package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticfiles/core/config"
)

type listConfig struct {
	Root    string        `env:"CONFIG_TEST_ROOT" envDefault:"/srv/www"`
	Index   []string      `env:"CONFIG_TEST_INDEX" envSeparator:","`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED"`
}

type requiredConfig struct {
	Value string `env:"CONFIG_TEST_REQUIRED_MISSING,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_INDEX", "index.html,index.htm")

	var cfg listConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "/srv/www", cfg.Root)
	assert.Equal(t, []string{"index.html", "index.htm"}, cfg.Index)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("CONFIG_TEST_CACHED", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)
}

func TestLoadRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)

	assert.Panics(t, func() {
		config.MustLoad(&requiredConfig{})
	})
}
