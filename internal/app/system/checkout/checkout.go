// Package checkout creates hosted payment sessions for paid event registration.
package checkout

import (
	"context"
	"errors"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned when no secret key was supplied.
var ErrNotConfigured = errors.New("checkout: payment provider not configured")

// Request describes a one-item checkout.
type Request struct {
	EventName  string
	UnitAmount int64 // minor units (cents)
	Currency   string
	SuccessURL string
	CancelURL  string
}

// Creator creates a hosted checkout session and returns its redirect URL.
type Creator interface {
	CreateSession(ctx context.Context, req Request) (string, error)
}

// Stripe is a Creator backed by Stripe Checkout.
type Stripe struct {
	api *client.API
}

// NewStripe returns a Stripe creator. An empty key yields a creator whose
// calls fail with ErrNotConfigured.
func NewStripe(secretKey string) *Stripe {
	if secretKey == "" {
		return &Stripe{}
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

// CreateSession implements Creator.
func (s *Stripe) CreateSession(ctx context.Context, req Request) (string, error) {
	if s == nil || s.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.EventName),
					},
					UnitAmount: stripe.Int64(req.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// ToMinorUnits converts a price in dollars to cents, rounding to the nearest cent.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
