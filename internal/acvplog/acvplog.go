// Package acvplog provides the client's logging injection point, in the
// style of cloudflare-roughtime's client.SetLogger: callers hand in a
// *log.Logger and every package in this module writes through it, instead
// of each package rolling its own default output.
package acvplog

import (
	"io"
	"log"

	"github.com/google/uuid"
)

var std = log.New(io.Discard, "", 0)

// SetLogger replaces the package-wide logger. Passing nil restores the
// default, which discards all output.
func SetLogger(l *log.Logger) {
	if l == nil {
		std = log.New(io.Discard, "", 0)
		return
	}
	std = l
}

// Logger returns the currently configured logger.
func Logger() *log.Logger {
	return std
}

// NewSessionID returns a fresh correlation ID to tag the log lines
// belonging to one authenticated session.
func NewSessionID() string {
	return uuid.NewString()
}

// Printf writes a formatted line through the configured logger.
func Printf(format string, args ...any) {
	std.Printf(format, args...)
}
