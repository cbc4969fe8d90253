package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "STORAGE_DRIVER", "DATABASE_URL", "REDIS_HOST", "OTEL_EXPORTER_OTLP_ENDPOINT", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "@every 1m", cfg.Snapshot.Schedule)
	assert.Equal(t, "postgres://postgres:@localhost:5432/investment_service?sslmode=disable", cfg.Database.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/investments")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/investments", cfg.Database.URL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{Driver: StorageDriverMemory},
			Redis:   RedisConfig{CacheTTL: 300},
			Tracing: TracingConfig{SampleRatio: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory driver", func(c *Config) {}, ""},
		{"postgres with url", func(c *Config) {
			c.Storage.Driver = StorageDriverPostgres
			c.Database.URL = "postgres://localhost/x"
		}, ""},
		{"postgres incomplete", func(c *Config) {
			c.Storage.Driver = StorageDriverPostgres
		}, "database configuration is incomplete"},
		{"unknown driver", func(c *Config) {
			c.Storage.Driver = "mongo"
		}, `unsupported storage driver "mongo"`},
		{"bad port", func(c *Config) {
			c.Server.Port = 0
		}, "invalid server port 0"},
		{"redis without ttl", func(c *Config) {
			c.Redis.Enabled = true
			c.Redis.CacheTTL = 0
		}, "redis cache TTL must be positive"},
		{"sample ratio", func(c *Config) {
			c.Tracing.SampleRatio = 1.5
		}, "tracing sample ratio must be between 0 and 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
