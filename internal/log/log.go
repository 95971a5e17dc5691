package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// BuildLogger returns a text logger writing to stderr at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func BuildLogger(level string) *slog.Logger {
	return New(os.Stderr, level)
}

func New(w io.Writer, level string) *slog.Logger {
	ops := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	return slog.New(slog.NewTextHandler(w, ops))
}

// Discard is used by the engine when no logger is supplied.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

func IntAttr(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func StringAttr(key string, value string) slog.Attr {
	return slog.String(key, value)
}

func PidAttr(pid uint16) slog.Attr {
	return slog.Int("pid", int(pid))
}

func CoreAttr(core int) slog.Attr {
	return slog.Int("core", core)
}
