package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirWithEnv 切到臨時目錄並寫入 .env，避免讀到倉庫根目錄的設定
func chdirWithEnv(t *testing.T, env string) {
	t.Helper()
	viper.Reset()

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Chdir(wd)
		viper.Reset()
	})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/.env", []byte(env), 0o644))
	require.NoError(t, os.Chdir(dir))
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirWithEnv(t, "OPENROUTER_API_KEY=test-key\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 1000, cfg.Cache.MaxSize)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)

	assert.Equal(t, 2*time.Second, cfg.Batch.FlushInterval)
	assert.Equal(t, 5, cfg.Batch.Size)
	assert.Equal(t, 100, cfg.Batch.MaxQueueSize)

	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	chdirWithEnv(t, "OPENROUTER_API_KEY=test-key\nCACHE_TTL=1h\nOPENROUTER_MODEL=another/model\n")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "another/model", cfg.OpenRouter.Model)
	assert.Equal(t, "test-key", cfg.OpenRouter.APIKey)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Cache:  CacheConfig{Enabled: true, MaxSize: 1000, TTL: 24 * time.Hour},
			Batch:  BatchConfig{FlushInterval: 2 * time.Second, Size: 5, MaxQueueSize: 100},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateConfig(base()))
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("cache max size", func(t *testing.T) {
		cfg := base()
		cfg.Cache.MaxSize = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("cache ttl", func(t *testing.T) {
		cfg := base()
		cfg.Cache.TTL = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("cache disabled skips cache checks", func(t *testing.T) {
		cfg := base()
		cfg.Cache = CacheConfig{Enabled: false}
		assert.NoError(t, validateConfig(cfg))
	})

	t.Run("batch flush interval", func(t *testing.T) {
		cfg := base()
		cfg.Batch.FlushInterval = 0
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("batch size", func(t *testing.T) {
		cfg := base()
		cfg.Batch.Size = 0
		assert.Error(t, validateConfig(cfg))
	})
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-o...wxyz", maskAPIKey("sk-or-v1-abcdefwxyz"))
}
