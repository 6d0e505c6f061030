// Package logging builds the gateway logger.  The logger is echo's own
// gommon logger so the same instance serves e.Logger, c.Logger() and the
// components that are handed an echo.Logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// Headers passed to gommon.  A header ending in "}" makes gommon append the
// message as a JSON field, producing one structured record per line.
const (
	jsonHeader = `{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}","file":"${short_file}","line":"${line}"}`
	textHeader = `${time_rfc3339} ${level} [${prefix}] ${short_file}:${line}`
)

// Options controls logger construction.
type Options struct {
	Prefix string
	Level  string // debug | info | warn | error | off
	JSON   bool   // emit the JSON header; plain text otherwise
	Output io.Writer
}

// New returns a configured gommon logger.  Output defaults to stdout.
func New(opts Options) *log.Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "cinema-web"
	}
	l := log.New(prefix)
	l.SetLevel(ParseLevel(opts.Level))
	if opts.JSON {
		l.SetHeader(jsonHeader)
	} else {
		l.SetHeader(textHeader)
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	l.SetOutput(out)
	return l
}

// Discard returns a logger that drops everything.  Used by tests.
func Discard() *log.Logger {
	return New(Options{Prefix: "test", Level: "off", Output: io.Discard})
}

// ParseLevel converts a level name into a gommon level.  Unknown names map to INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	default:
		return log.INFO
	}
}
