package observability

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// NewLogger builds the process logger. Format "json" suits service
// deployments, "text" is the stdlib text handler, and "pretty" is a tint
// handler for terminal use. Unknown formats fall back to json, unknown
// levels to info. Timestamps are UTC in every format.
func NewLogger(level, format string) *slog.Logger {
	lvl := parseLevel(level)

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:       lvl,
			ReplaceAttr: utcTimestamps,
		}))
	case "pretty":
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:       lvl,
			ReplaceAttr: utcTimestamps,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       lvl,
			ReplaceAttr: utcTimestamps,
		}))
	}
}

func utcTimestamps(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.TimeValue(a.Value.Time().UTC())
	}
	return a
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
