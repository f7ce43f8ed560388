// Package config provides configuration loading and validation for the
// report service.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the service configuration. Values come from environment
// variables (optionally via a .env file loaded in main); everything a
// pipeline stage needs is passed down explicitly from here rather than read
// from ambient process state.
type Config struct {
	Port int `mapstructure:"port"`

	// TemplatePath is the fixed DOCX report template. It must exist at
	// process start.
	TemplatePath string `mapstructure:"template_path"`

	// DatabaseURL is optional; without it the stored-questionnaire
	// endpoints are disabled and only inline report generation works.
	DatabaseURL string `mapstructure:"database_url"`

	// CloudConvertAPIKey is optional; absence is the supported
	// "conversion disabled" state, not an error.
	CloudConvertAPIKey string `mapstructure:"cloudconvert_api_key"`
	CloudConvertURL    string `mapstructure:"cloudconvert_url"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("template_path", "templates/tax_report_template.docx")
	v.SetDefault("cloudconvert_url", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// AutomaticEnv alone does not surface env-only keys through Unmarshal,
	// so bind each key explicitly.
	for _, key := range []string{
		"port", "template_path", "database_url",
		"cloudconvert_api_key", "cloudconvert_url",
		"log_level", "log_format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration can actually serve requests.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.TemplatePath == "" {
		return fmt.Errorf("config error: template path is required")
	}
	info, err := os.Stat(c.TemplatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.TemplatePath)
		}
		return fmt.Errorf("config error: cannot stat template file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("config error: template file is empty: %s", c.TemplatePath)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}
	return nil
}

// ConversionEnabled reports whether a conversion credential is configured.
func (c *Config) ConversionEnabled() bool {
	return c.CloudConvertAPIKey != ""
}
