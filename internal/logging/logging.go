package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvLevel selects the log level (debug, info, warn, error).
const EnvLevel = "TT_LOG_LEVEL"

// FileName is the log file created next to the database.
const FileName = "tt.log"

// Logger is the global slog instance for the application
var Logger = slog.Default()

// Init writes logs to dir/tt.log in text format and installs the logger as
// the slog default. The returned closer releases the file.
func Init(dir string) (io.Closer, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: ParseLevel(os.Getenv(EnvLevel)),
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
	return file, nil
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
