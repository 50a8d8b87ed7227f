package mailer

import "github.com/caredock/caredock-bookings/pkg/logger"

type Service interface {
	SendBookingConfirmation(toEmail, toName, doctorName, date, timeDisplay string) error
}

// DevMailer prints what would be sent. The default outside production.
type DevMailer struct{}

func (DevMailer) SendBookingConfirmation(toEmail, toName, doctorName, date, timeDisplay string) error {
	logger.Info("DEV MAIL: booking confirmation",
		"to", toEmail,
		"name", toName,
		"doctor", doctorName,
		"date", date,
		"time", timeDisplay,
	)
	return nil
}
