package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RESUME_EXPORTER_DATABASE_URL", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "typst", cfg.Render.TypstBin)
	assert.Equal(t, "rendercv", cfg.Render.RenderCVBin)
	assert.Equal(t, "resume", cfg.Render.ResumeCLIBin)
	assert.Equal(t, 4, cfg.Render.Concurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	content := `
log_level: debug
render:
  timeout: 45s
  typst_bin: /opt/typst/bin/typst
  concurrency: 2
server:
  port: 9090
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "/opt/typst/bin/typst", cfg.Render.TypstBin)
	assert.Equal(t, 2, cfg.Render.Concurrency)
	assert.Equal(t, 9090, cfg.Server.Port)
	// untouched keys keep their defaults
	assert.Equal(t, "rendercv", cfg.Render.RenderCVBin)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	content := `{"log_format": "json", "database_url": "postgres://localhost/resumes"}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "postgres://localhost/resumes", cfg.DatabaseURL)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("RESUME_EXPORTER_RENDER_TIMEOUT", "5s")
	t.Setenv("RESUME_EXPORTER_SERVER_PORT", "7070")
	t.Setenv("RESUME_EXPORTER_LOG_LEVEL", "warn")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Render.Timeout)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_DatabaseURLEnv(t *testing.T) {
	t.Setenv("RESUME_EXPORTER_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "postgres://db/plain")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/plain", cfg.DatabaseURL)

	t.Setenv("RESUME_EXPORTER_DATABASE_URL", "postgres://db/prefixed")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://db/prefixed", cfg.DatabaseURL, "prefixed variable wins")
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "'log_level' failed 'oneof'"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "'log_format' failed 'oneof'"},
		{"zero timeout", func(c *Config) { c.Render.Timeout = 0 }, "'render.timeout' failed 'gt'"},
		{"empty typst", func(c *Config) { c.Render.TypstBin = "" }, "'render.typst_bin' failed 'required'"},
		{"zero concurrency", func(c *Config) { c.Render.Concurrency = 0 }, "'render.concurrency' failed 'min'"},
		{"port range", func(c *Config) { c.Server.Port = 70000 }, "'server.port' failed 'max'"},
		{"negative rate", func(c *Config) { c.Server.RateLimitPerMinute = -1 }, "'server.rate_limit_per_minute' failed 'min'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error:")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
