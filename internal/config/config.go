// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RESUME_EXPORTER_RENDER_TIMEOUT.
const EnvPrefix = "RESUME_EXPORTER"

// Config represents the exporter configuration. Every field has a default, so an
// empty config file (or none at all) is valid.
type Config struct {
	LogLevel    string `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat   string `mapstructure:"log_format" validate:"oneof=text json"`
	DatabaseURL string `mapstructure:"database_url"` // PostgreSQL connection URL; empty disables profiles

	Render RenderConfig `mapstructure:"render"`
	Server ServerConfig `mapstructure:"server"`
}

// RenderConfig configures the external renderers
type RenderConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	TypstBin     string        `mapstructure:"typst_bin" validate:"required"`
	RenderCVBin  string        `mapstructure:"rendercv_bin" validate:"required"`
	ResumeCLIBin string        `mapstructure:"resume_cli_bin" validate:"required"`
	ChromePath   string        `mapstructure:"chrome_path"` // empty means search the usual install locations
	Concurrency  int           `mapstructure:"concurrency" validate:"min=1,max=32"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port               int `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute" validate:"min=0"` // 0 disables limiting
	RateLimitBurst     int `mapstructure:"rate_limit_burst" validate:"min=1"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("database_url", "")

	v.SetDefault("render.timeout", 30*time.Second)
	v.SetDefault("render.typst_bin", "typst")
	v.SetDefault("render.rendercv_bin", "rendercv")
	v.SetDefault("render.resume_cli_bin", "resume")
	v.SetDefault("render.chrome_path", "")
	v.SetDefault("render.concurrency", 4)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_per_minute", 30)
	v.SetDefault("server.rate_limit_burst", 5)
}

// Default returns the configuration used when no file or environment override is present.
func Default() *Config {
	cfg, err := LoadConfig("")
	if err != nil {
		// Only reachable when the environment itself carries bad values.
		panic(err)
	}
	return cfg
}

// LoadConfig loads configuration from an optional JSON or YAML file, then applies
// RESUME_EXPORTER_* environment overrides on top. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The conventional unprefixed variable also selects the database.
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")

	if path != "" {
		// Resolve path relative to current directory if not absolute
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("config error: '%s' failed '%s' check (value: %v)", fieldName(fe.Namespace()), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("config error: %w", err)
}

// fieldName maps a validator namespace like "Config.Render.Timeout" to the
// configuration key "render.timeout".
func fieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = keyNames[p]
		if parts[i] == "" {
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, ".")
}

var keyNames = map[string]string{
	"LogLevel":           "log_level",
	"LogFormat":          "log_format",
	"DatabaseURL":        "database_url",
	"Timeout":            "timeout",
	"TypstBin":           "typst_bin",
	"RenderCVBin":        "rendercv_bin",
	"ResumeCLIBin":       "resume_cli_bin",
	"ChromePath":         "chrome_path",
	"Concurrency":        "concurrency",
	"Port":               "port",
	"RateLimitPerMinute": "rate_limit_per_minute",
	"RateLimitBurst":     "rate_limit_burst",
}
