// Package payments creates the payment intents the booking hand-off step
// charges against.
package payments

import (
	"context"
	"strconv"

	"github.com/caredock/caredock-bookings/pkg/config"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

type Charger interface {
	CreateIntent(ctx context.Context, bookingID, amount int64) (*Intent, error)
}

type StripeCharger struct {
	currency string
}

func NewStripeCharger(cfg config.StripeConfig) *StripeCharger {
	stripe.Key = cfg.SecretKey
	return &StripeCharger{currency: cfg.Currency}
}

func (c *StripeCharger) CreateIntent(ctx context.Context, bookingID, amount int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(c.currency),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", strconv.FormatInt(bookingID, 10))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
