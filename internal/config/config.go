// Package config provides configuration management for stache commands
// using Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// Configuration is read from .stache.yml in the current directory, with
// environment variable overrides using the STACHE_ prefix (for example
// STACHE_SERVER_PORT=8080) and command-line flags taking highest priority.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the root configuration for all stache commands.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Server    ServerConfig    `yaml:"server"`
	Watch     WatchConfig     `yaml:"watch"`
	LogLevel  string          `yaml:"log_level"`
	LogFormat string          `yaml:"log_format"`
}

// TemplatesConfig locates and bounds template sources.
type TemplatesConfig struct {
	Dir        string `yaml:"dir"`
	Ext        string `yaml:"ext"`
	MaxBytes   int    `yaml:"max_bytes"`
	MaxNesting int    `yaml:"max_nesting"`
}

// ServerConfig holds preview server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchConfig holds serve-mode file watching settings.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// Load builds a Config from viper's merged sources and applies defaults.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Workarounds for viper's key matching on snake_case names set via
	// Set/env rather than the config file.
	if viper.IsSet("templates.dir") {
		config.Templates.Dir = viper.GetString("templates.dir")
	}
	if viper.IsSet("templates.ext") {
		config.Templates.Ext = viper.GetString("templates.ext")
	}
	if viper.IsSet("templates.max_bytes") {
		config.Templates.MaxBytes = viper.GetInt("templates.max_bytes")
	}
	if viper.IsSet("templates.max_nesting") {
		config.Templates.MaxNesting = viper.GetInt("templates.max_nesting")
	}
	if viper.IsSet("server.host") {
		config.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.port") {
		config.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("watch.debounce_ms") {
		config.Watch.DebounceMs = viper.GetInt("watch.debounce_ms")
	}
	if viper.IsSet("log_level") {
		config.LogLevel = viper.GetString("log_level")
	}
	if viper.IsSet("log_format") {
		config.LogFormat = viper.GetString("log_format")
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Templates.Dir == "" {
		config.Templates.Dir = "./templates"
	}
	if config.Templates.Ext == "" {
		config.Templates.Ext = ".stache"
	}
	if config.Templates.MaxBytes == 0 {
		config.Templates.MaxBytes = 1 << 20
	}
	if config.Templates.MaxNesting == 0 {
		config.Templates.MaxNesting = 128
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8787
	}
	if config.Watch.DebounceMs == 0 {
		config.Watch.DebounceMs = 300
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	if c.Templates.MaxBytes < 0 {
		return fmt.Errorf("templates.max_bytes must be positive, got %d", c.Templates.MaxBytes)
	}

	if c.Templates.MaxNesting < 0 {
		return fmt.Errorf("templates.max_nesting must be positive, got %d", c.Templates.MaxNesting)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}

	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must be positive, got %d", c.Watch.DebounceMs)
	}

	return nil
}
