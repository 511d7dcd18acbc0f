// Package logx configures the process-wide zerolog logger.
package logx

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "reservation-agent"

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Level        string `split_words:"true"`
	// Stderr sends log lines to stderr so they do not interleave with
	// command output, e.g. in the chat REPL.
	Stderr bool `split_words:"true" default:"false"`

	Output io.Writer `ignored:"true"`
}

var DefaultConfig = &Config{
	Debug:        false,
	PrettyFormat: false,
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func (c *Config) writer() io.Writer {
	var out io.Writer = os.Stdout
	switch {
	case c.Output != nil:
		out = c.Output
	case c.Stderr:
		out = os.Stderr
	}
	if c.PrettyFormat {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return out
}

// level resolves LOG_LEVEL first, then LOG_DEBUG. Unknown names fall back to info.
func (c *Config) level() zerolog.Level {
	if name := strings.TrimSpace(c.Level); name != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(name)); err == nil && lvl != zerolog.NoLevel {
			return lvl
		}
	}
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func Init(opts ...Config) {
	conf := safe(opts...)

	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.DurationFieldInteger = true

	log.Logger = zerolog.New(conf.writer()).
		Level(conf.level()).
		With().
		Timestamp().
		Str("service", serviceName).
		Caller().
		Stack().
		Logger()
}
