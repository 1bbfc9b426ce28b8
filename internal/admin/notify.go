package admin

import "github.com/rs/zerolog"

// Notifier receives transient, non-blocking user notifications. Errors
// surfaced here are never fatal; the screen stays interactive.
type Notifier interface {
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

// LogNotifier routes notifications to the structured log. The CLI uses it
// directly; a UI frontend would substitute its own toast implementation.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Success(msg string) { n.Logger.Info().Msg(msg) }

func (n LogNotifier) Warn(msg string) { n.Logger.Warn().Msg(msg) }

func (n LogNotifier) Error(msg string) { n.Logger.Error().Msg(msg) }
