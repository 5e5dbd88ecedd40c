package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/pkg/config"
)

type sample struct {
	Name    string        `env:"CFG_TEST_NAME" envDefault:"trialkit"`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"15s"`
	Token   string        `env:"CFG_TEST_TOKEN,required"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults and environment", func(t *testing.T) {
		t.Setenv("CFG_TEST_TOKEN", "secret")
		t.Setenv("CFG_TEST_TIMEOUT", "2s")

		var cfg sample
		require.NoError(t, config.Load(&cfg, config.WithEnvFiles()))
		assert.Equal(t, "trialkit", cfg.Name)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
		assert.Equal(t, "secret", cfg.Token)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg sample
		err := config.Load(&cfg, config.WithEnvFiles(), config.WithPrefix("NOPE_"))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Setenv("APP_CFG_TEST_TOKEN", "prefixed")

		var cfg sample
		require.NoError(t, config.Load(&cfg, config.WithEnvFiles(), config.WithPrefix("APP_")))
		assert.Equal(t, "prefixed", cfg.Token)
	})

	t.Run("env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("CFG_FILE_ONLY_TOKEN=from-file\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("CFG_FILE_ONLY_TOKEN") })

		var cfg struct {
			Token string `env:"CFG_FILE_ONLY_TOKEN,required"`
		}
		require.NoError(t, config.Load(&cfg, config.WithEnvFiles(path, filepath.Join(t.TempDir(), "missing.env"))))
		assert.Equal(t, "from-file", cfg.Token)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[sample](nil), config.ErrNilPointer)
	})

	t.Run("must load panics", func(t *testing.T) {
		var cfg sample
		assert.Panics(t, func() { config.MustLoad(&cfg, config.WithEnvFiles(), config.WithPrefix("NOPE_")) })
	})
}
