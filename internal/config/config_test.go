package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should fall back to defaults without a file", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Address)
		assert.Equal(t, "GrindAI", cfg.Database.Name)
		assert.Equal(t, time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
		assert.Equal(t, 0, cfg.Gemini.MaxRetries)
		assert.True(t, cfg.Gemini.JSONMode)
		assert.False(t, cfg.Server.ExposeErrorCodes)
		assert.False(t, cfg.Planner.LegacyBraceScan)
		assert.Empty(t, cfg.S3.BucketName)
		assert.Empty(t, cfg.Redis.Addr)
	})

	t.Run("should read yaml file", func(t *testing.T) {
		dir := t.TempDir()
		yaml := []byte(`
server:
  address: ":9090"
  expose_error_codes: true
jwt:
  secret: "file-secret"
  expiration: "30m"
gemini:
  model: "gemini-2.0-flash"
  max_retries: 2
planner:
  legacy_brace_scan: true
`)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

		cfg, err := LoadConfig(dir)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Address)
		assert.True(t, cfg.Server.ExposeErrorCodes)
		assert.Equal(t, "file-secret", cfg.JWT.Secret)
		assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
		assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
		assert.Equal(t, 2, cfg.Gemini.MaxRetries)
		assert.True(t, cfg.Planner.LegacyBraceScan)
	})

	t.Run("should let env override file", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "env-key")
		t.Setenv("DATABASE_URI", "mongodb://db:27017")

		cfg, err := LoadConfig(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.Gemini.APIKey)
		assert.Equal(t, "mongodb://db:27017", cfg.Database.URI)
	})

	t.Run("should report malformed file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

		_, err := LoadConfig(dir)

		assert.Error(t, err)
	})
}
