package payment

import (
	"context"

	"go.uber.org/fx"
)

// ChargeRequest is the uniform charge capability the checkout flow needs:
// a tokenized source, an amount in minor units, and our order reference.
type ChargeRequest struct {
	SourceID    string
	Amount      int64
	Currency    string
	ReferenceID string
	Note        string
}

// ChargeResult is all the core cares about: paid or not, plus the
// provider-assigned payment id.
type ChargeResult struct {
	Paid      bool
	PaymentID string
	Status    string
	Message   string
}

// Charger is the direct card-charge capability (Square).
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

var Module = fx.Module("payment",
	fx.Provide(
		NewSquareClient,
		NewStripeClient,
		NewPayPalClient,
	),
)
