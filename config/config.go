// Package config loads process configuration with viper: built-in defaults,
// then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BrewMyTech/grok-mcp/grok"

	"github.com/spf13/viper"
)

const (
	KeyAPIKey   = "api_key"
	KeyBaseURL  = "base_url"
	KeyTimeout  = "timeout"
	KeyAddr     = "addr"
	KeySecret   = "secret"
	KeyLogLevel = "log_level"
)

// env names that do not follow the GROK_MCP_ prefix.
var envBindings = map[string]string{
	KeyAPIKey:  "GROK_API_KEY",
	KeyBaseURL: "GROK_API_BASE_URL",
}

type Config struct {
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Addr     string        `mapstructure:"addr"`
	Secret   string        `mapstructure:"secret"`
	LogLevel string        `mapstructure:"log_level"`
}

// Grok returns the upstream client configuration.
func (c *Config) Grok() grok.Config {
	return grok.Config{APIKey: c.APIKey, BaseURL: c.BaseURL, Timeout: c.Timeout}
}

// New returns a viper instance with defaults and env bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBaseURL, grok.DefaultBaseURL)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyAddr, "localhost:9090")
	v.SetDefault(KeyLogLevel, "info")
	// Unmarshal only sees keys viper already knows about.
	v.SetDefault(KeySecret, "")

	v.SetEnvPrefix("GROK_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

// ReadFile merges a YAML config file into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// Load decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		c.BaseURL = grok.DefaultBaseURL
	}
	return &c, nil
}
