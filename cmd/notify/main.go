// The notify worker consumes booking events and sends confirmation emails.
package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/caredock/caredock-bookings/internal/mailer"
	"github.com/caredock/caredock-bookings/pkg/config"
	"github.com/caredock/caredock-bookings/pkg/events"
	"github.com/caredock/caredock-bookings/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	var mail mailer.Service = mailer.DevMailer{}
	if !cfg.Email.DevMode {
		ms, err := mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
		if err != nil {
			logger.Error("Failed to configure MailerSend", "error", err)
			os.Exit(1)
		}
		mail = ms
	}

	err = eventBus.QueueSubscribe(events.BookingCreated, "notify", func(msg *events.Message) {
		var ev events.BookingCreatedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			logger.Error("Failed to decode booking created event", "error", err)
			return
		}

		if err := mail.SendBookingConfirmation(
			ev.PatientEmail, ev.PatientName, ev.DoctorName,
			ev.AppointmentDate, ev.AppointmentTime,
		); err != nil {
			logger.Error("Failed to send booking confirmation",
				"error", err, "booking_id", ev.BookingID)
			return
		}

		logger.Info("Sent booking confirmation", "booking_id", ev.BookingID, "to", ev.PatientEmail)
	})
	if err != nil {
		logger.Error("Failed to subscribe to booking events", "error", err)
		os.Exit(1)
	}

	logger.Info("Notify worker running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down notify worker...")
}
