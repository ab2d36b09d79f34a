package payment

import (
	"context"
	"fmt"
	"strings"

	"havenly/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
)

// Intent statuses the booking flow cares about.
const (
	StatusSucceeded  = "succeeded"
	StatusCanceled   = "canceled"
	StatusProcessing = "processing"
)

// Intent is the subset of a payment intent returned to callers.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Gateway charges and refunds bookings.
type Gateway interface {
	// CreateIntent starts payment attempt number attempt of a booking. Retries
	// of the same attempt are idempotent; a new attempt gets a new intent.
	CreateIntent(ctx context.Context, bookingID string, attempt int, amountMinor int64, currency string) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	Refund(ctx context.Context, intentID string) error
}

// StripeGateway uses the global stripe.Key set at startup.
type StripeGateway struct{}

func NewStripeGateway() Gateway {
	if stripe.Key == "" {
		return DisabledGateway{}
	}
	return StripeGateway{}
}

// IdempotencyKey identifies one payment attempt of a booking.
func IdempotencyKey(bookingID string, attempt int, amountMinor int64) string {
	return fmt.Sprintf("booking-%s-%d-%d", bookingID, attempt, amountMinor)
}

func (StripeGateway) CreateIntent(ctx context.Context, bookingID string, attempt int, amountMinor int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(strings.ToLower(currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("bookingId", bookingID)
	params.SetIdempotencyKey(IdempotencyKey(bookingID, attempt, amountMinor))

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, utils.NewBadGateway("payment provider rejected the request", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

func (StripeGateway) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, utils.NewBadGateway("failed to fetch payment status", err)
	}
	return &Intent{ID: pi.ID, Status: string(pi.Status)}, nil
}

func (StripeGateway) Refund(ctx context.Context, intentID string) error {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + intentID)
	if _, err := refund.New(params); err != nil {
		return utils.NewBadGateway("refund failed", err)
	}
	return nil
}

// DisabledGateway answers 503 when no Stripe key is configured.
type DisabledGateway struct{}

func (DisabledGateway) CreateIntent(context.Context, string, int, int64, string) (*Intent, error) {
	return nil, utils.NewUnavailable("payments are not configured")
}

func (DisabledGateway) GetIntent(context.Context, string) (*Intent, error) {
	return nil, utils.NewUnavailable("payments are not configured")
}

func (DisabledGateway) Refund(context.Context, string) error {
	return utils.NewUnavailable("payments are not configured")
}
