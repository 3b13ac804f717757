// Package config loads application configuration with koanf, layering
// defaults, an optional config.yaml, and environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the service.
type Config struct {
	Server ServerConfig `koanf:"server"`
	SMTP   SMTPConfig   `koanf:"smtp"`
	App    AppConfig    `koanf:"app"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host              string `koanf:"host"`
	Port              int    `koanf:"port"`
	ReadHeaderTimeout int    `koanf:"read_header_timeout"` // seconds
}

// SMTPConfig holds the share-notification mail settings. Mail is disabled
// when the server is empty.
type SMTPConfig struct {
	Server   string `koanf:"server"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	LogLevel string `koanf:"log_level"` // "debug", "info", "warn", "error"
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MailEnabled reports whether share-notification mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Server != ""
}

// Load loads configuration with precedence: defaults, then config.yaml if
// present, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	setDefaults(k)

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config.yaml: %w", err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(k *koanf.Koanf) {
	defaults := map[string]interface{}{
		"server.host":                "",
		"server.port":                8080,
		"server.read_header_timeout": 10,

		"smtp.server": "",
		"smtp.port":   587,

		"app.log_level": "info",
	}

	for key, value := range defaults {
		_ = k.Set(key, value)
	}
}
