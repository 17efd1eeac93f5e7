// Command talond is the consuming side of the Talon file exchange. It
// polls ~/.codex-talon/request.json, applies pending command batches to
// the editor state it owns, and overwrites response.json with the outcome.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	slogmulti "github.com/samber/slog-multi"

	"github.com/codex-talon/talonbridge"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "log every processed request")
	interval := flag.Duration("interval", 0, "poll interval (overrides config)")
	flag.Parse()

	if *showVersion {
		fmt.Println("talond", Version)
		os.Exit(0)
	}

	paths, err := talonbridge.ResolvePaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := talonbridge.LoadConfig(paths.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	closeLog, err := setupLogging(cfg.LogFile, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	slog.Info("starting", "dir", paths.Dir)

	status := &talonbridge.StatusCell{}
	srv := NewServer(paths, cfg, status, &logFrontend{notifyCommand: cfg.NotifyCommand})
	if *interval > 0 {
		srv.interval = *interval
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("ready", "interval", srv.interval)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("shutting down")
}

// setupLogging installs the default slog logger: stderr always, plus the
// configured log file when one is set.
func setupLogging(logFile string, level slog.Level) (func(), error) {
	opts := &slog.HandlerOptions{Level: level}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stderr, opts)}
	closeFn := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		handlers = append(handlers, slog.NewTextHandler(f, opts))
		closeFn = func() { f.Close() }
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	return closeFn, nil
}
