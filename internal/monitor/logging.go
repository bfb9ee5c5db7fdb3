// Package monitor renders the dispatch log and follows dispatch events for operators.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const loggingLogPrefix = "monitor:logging"

// ParseLogLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// SetupLogging installs a text handler on w as the default slog logger.
func SetupLogging(level string, w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)})))
}

// WithShutdownSignal returns a context cancelled on SIGINT or SIGTERM.
func WithShutdownSignal(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			slog.Info(fmt.Sprintf("%s - Received signal %s, shutting down", loggingLogPrefix, sig))
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
