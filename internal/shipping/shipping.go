// Package shipping exposes the external shipping-cost service. The engine
// consumes it for display only: the authoritative charge shown alongside
// FREE_SHIPPING discounts always comes from here, never from the engine's
// own estimate.
package shipping

import (
	"context"
	"errors"
)

var (
	// ErrNoQuote is returned when the service produced no usable rate.
	ErrNoQuote = errors.New("no shipping quote available")
)

// RateProvider returns the shipping charge for a cart.
type RateProvider interface {
	GetRate(ctx context.Context, params RateParams) (*Rate, error)
}

// RateParams describes the cart the quote is for.
type RateParams struct {
	SubtotalCents int64
	ItemCount     int
}

// Rate is a single shipping quote.
type Rate struct {
	ServiceName string
	ServiceCode string
	CostCents   int64
}
