// Package coupon implements the coupon pipeline: a client for the remote
// validation authority and the debounced validator state machine. The
// pipeline is independent of the promotion engine; the two share only the
// combo-exclusion rule.
package coupon

import (
	"context"

	"github.com/dukerupert/gersemi/internal/domain"
)

// Authority validates a coupon code against the remote rule owner. The
// authority performs the minOrderAmount, minQuantity, targeting, exclusion,
// firstOrderOnly, and expiry checks; this service trusts its answer.
type Authority interface {
	Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error)
}

// ValidationRequest carries the code and the cart snapshot to the authority.
type ValidationRequest struct {
	Code           string           `json:"code"`
	UserID         string           `json:"userId,omitempty"`
	CartTotalCents int64            `json:"cartTotal"`
	Items          []ValidationItem `json:"cartItems"`
}

// ValidationItem is one cart line in the validation request.
type ValidationItem struct {
	ItemID        string `json:"itemId"`
	VariantID     string `json:"variantId,omitempty"`
	Quantity      int    `json:"quantity"`
	PriceCents    int64  `json:"price"`
	DiscountCents int64  `json:"discount"`
}

// ValidationResult is the authority's verdict.
type ValidationResult struct {
	Valid             bool           `json:"valid"`
	DiscountCents     int64          `json:"discount"`
	Message           string         `json:"message"`
	Coupon            *domain.Coupon `json:"coupon,omitempty"`
	ConditionFeedback string         `json:"conditionFeedback,omitempty"`
	Restricted        bool           `json:"restricted,omitempty"`
	RestrictionReason string         `json:"restrictionReason,omitempty"`
}

// RequestItems converts a cart snapshot into validation request lines.
func RequestItems(items []domain.CartItem) []ValidationItem {
	out := make([]ValidationItem, 0, len(items))
	for _, it := range items {
		out = append(out, ValidationItem{
			ItemID:        it.ProductID,
			VariantID:     it.VariantID,
			Quantity:      it.Quantity,
			PriceCents:    it.UnitPriceCents,
			DiscountCents: it.ItemDiscountCents,
		})
	}
	return out
}
