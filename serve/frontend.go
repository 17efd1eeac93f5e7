package main

import (
	"log/slog"
	"os/exec"
)

// logFrontend routes command side effects into the daemon's log and, for
// notifications, into the optional notify command from config.toml.
// History intents are only surfaced here; talond keeps no composer
// history of its own.
type logFrontend struct {
	notifyCommand []string
}

func (f *logFrontend) Notify(message string) {
	slog.Info("notify", "message", message)
	if len(f.notifyCommand) == 0 {
		return
	}
	args := append(append([]string{}, f.notifyCommand[1:]...), message)
	if err := exec.Command(f.notifyCommand[0], args...).Run(); err != nil {
		slog.Warn("notify command failed", "error", err)
	}
}

func (f *logFrontend) EditPreviousMessage(stepsBack int) {
	slog.Info("edit previous message requested", "steps_back", stepsBack)
}

func (f *logFrontend) HistoryPrevious() {
	slog.Info("history previous requested")
}

func (f *logFrontend) HistoryNext() {
	slog.Info("history next requested")
}
