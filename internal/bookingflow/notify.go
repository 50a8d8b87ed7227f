package bookingflow

import "github.com/caredock/caredock-bookings/pkg/logger"

// Notifier delivers transient, non-blocking user notifications. The picker
// stays interactive through every warning and error.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// LogNotifier writes notifications to the structured log. Useful as a default
// and in headless contexts.
type LogNotifier struct{}

func (LogNotifier) Info(msg string)  { logger.Info("booking flow notice", "message", msg) }
func (LogNotifier) Warn(msg string)  { logger.Warn("booking flow warning", "message", msg) }
func (LogNotifier) Error(msg string) { logger.Error("booking flow error", "message", msg) }
