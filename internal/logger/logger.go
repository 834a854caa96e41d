// Package logger wraps zerolog with the defaults used by the odimod packages.
//
// The root logger is built once, lazily, from ODI_LOG_* environment variables
// unless Init is called first. Library code should take a logger through
// options and only fall back to Named.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/sghaida/odimod/internal/config/env"
)

// Options configures the root logger.
type Options struct {
	Level  string
	Format string // "console" or "json"
	// NoColor disables ANSI colours in console output.
	NoColor bool
	Writer  io.Writer
	// StaticFields are attached to every line.
	StaticFields map[string]string
}

// FromEnv reads ODI_LOG_LEVEL, ODI_LOG_FORMAT and ODI_LOG_NO_COLOR.
//
// The default level is warn: a wiring library should stay quiet unless
// something is off.
func FromEnv() Options {
	c := env.New().Prefix("ODI_LOG_")
	return Options{
		Level:   strings.ToLower(c.Get("LEVEL", "warn")),
		Format:  strings.ToLower(c.Get("FORMAT", "console")),
		NoColor: c.GetBool("NO_COLOR", false),
	}
}

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

var (
	once sync.Once
	root atomic.Pointer[zerolog.Logger]
)

// Init builds the root logger. Only the first call has an effect.
func Init(opt Options) {
	once.Do(func() {
		var w io.Writer = os.Stderr
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.NoColor}
		}

		ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		for k, v := range opt.StaticFields {
			ctx = ctx.Str(k, v)
		}
		l := ctx.Logger()
		root.Store(&l)
	})
}

// Get returns the root logger, initialising it from the environment if needed.
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Named returns a child of the root logger tagged with a component field.
func Named(component string) Logger {
	if component == "" {
		return *Get()
	}
	return Get().With().Str("component", component).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}
