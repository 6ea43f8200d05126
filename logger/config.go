package logger

import (
	"errors"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/rs/zerolog"
)

// Conf is read from the environment once, on first use.
type Conf struct {
	LogDir string `env:"GROK_MCP_LOG_DIR"`
	Level  string `env:"GROK_MCP_LOG_LEVEL,default=info"`
}

// LogConfig decodes Conf. Leaving every variable unset is not an error.
func LogConfig() (*Conf, error) {
	conf := new(Conf)
	if err := envdecode.Decode(conf); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, err
	}
	return conf, nil
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
