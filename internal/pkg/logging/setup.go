package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/keibalab/keibanote/internal/pkg/config"
)

// Setup configures the global slog logger for a service binary. The
// extraction core never logs (diagnostics carry its findings); this logger
// is for the collaborators around it.
func Setup(cfg config.LoggingConfig, serviceName string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	logger := slog.New(handler).With("service", serviceName)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
