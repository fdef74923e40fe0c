// Package logging wires up the process-wide slog logger.
//
// Interactive terminals get colourised tinter output; everything else
// (services, pipes, log shippers) gets JSON. The choice can be forced with
// an explicit format.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto" // tinter on a TTY, JSON otherwise
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied string to a Format. Anything
// unrecognised means auto-detect.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	}
	return FormatAuto
}

// ParseLevel maps a user-supplied string to a slog.Level, falling back to
// Info when it doesn't parse.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsTTY reports whether w is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Setup installs the global slog logger on stderr. Call once, after flags
// and config have been resolved.
func Setup(format Format, level slog.Level) {
	w := os.Stderr

	if format == FormatJSON || (format == FormatAuto && !IsTTY(w)) {
		slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})))
		return
	}

	slog.SetDefault(slog.New(tinter.NewHandler(w, &tinter.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
	})))
}
