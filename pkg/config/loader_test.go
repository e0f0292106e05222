package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidehq/tide/pkg/config"
)

type testConfig struct {
	Name  string `env:"TEST_CFG_NAME" envDefault:"tide"`
	Port  int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	Debug bool   `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

type requiredConfig struct {
	Token string `env:"TEST_CFG_REQUIRED_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults when env vars are absent", func(t *testing.T) {
		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "tide", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
		assert.False(t, cfg.Debug)
	})

	t.Run("returns cached value on repeated calls", func(t *testing.T) {
		var first testConfig
		require.NoError(t, config.Load(&first))

		// Mutating the caller's copy must not affect the cache.
		first.Port = 9999

		var second testConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, 8080, second.Port)
	})

	t.Run("nil pointer is rejected", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		require.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable fails", func(t *testing.T) {
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on missing required variable", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("does not panic for valid config", func(t *testing.T) {
		assert.NotPanics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg)
		})
	})
}
