package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/govctl/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a stderr logger. GOVCTL_LOG_LEVEL sets the level;
// --debug forces debug with source locations.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, os.Getenv("GOVCTL_LOG_LEVEL"), cfg.Debug)
}

func newLogger(w io.Writer, levelName string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(levelName),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop the timestamp for cleaner CLI output
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// shortPath trims a source path to its module-relative form
func shortPath(file string) string {
	if idx := strings.Index(file, "govctl/"); idx != -1 {
		return file[idx+len("govctl/"):]
	}
	if idx := strings.LastIndex(file, "/"); idx != -1 {
		return file[idx+1:]
	}
	return file
}
