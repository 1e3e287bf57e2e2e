package promo

import (
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator converts an eligible promotion's action into a discount amount
// in cents against the correct item subset.
type Calculator struct {
	// freeShippingEstimateCents is the fixed display value returned for
	// FREE_SHIPPING actions. The authoritative shipping charge comes from
	// the external shipping service and is never overridden by this figure.
	freeShippingEstimateCents int64
}

// NewCalculator creates a discount calculator.
func NewCalculator(freeShippingEstimateCents int64) *Calculator {
	return &Calculator{freeShippingEstimateCents: freeShippingEstimateCents}
}

// EligibleSubset selects the cart items a promotion's discount is computed
// against. Precedence is strict: variant-level targets when present, then
// product-level targets (the union of applicableProducts and ids named by
// SPECIFIC_PRODUCT conditions), then the whole cart. Excluded products are
// subtracted from whichever subset was chosen.
func EligibleSubset(p domain.Promotion, items []domain.CartItem) []domain.CartItem {
	var subset []domain.CartItem

	switch {
	case len(p.ApplicableProductVariants) > 0:
		for _, it := range items {
			for _, t := range p.ApplicableProductVariants {
				if t.Matches(it) {
					subset = append(subset, it)
					break
				}
			}
		}
	default:
		ids := append([]string{}, p.ApplicableProducts...)
		ids = append(ids, specificProductIDs(p)...)
		if len(ids) > 0 {
			for _, it := range items {
				if containsString(ids, it.ProductID) {
					subset = append(subset, it)
				}
			}
		} else {
			subset = append(subset, items...)
		}
	}

	if len(p.ExcludedProducts) == 0 {
		return subset
	}

	kept := subset[:0]
	for _, it := range subset {
		if !containsString(p.ExcludedProducts, it.ProductID) {
			kept = append(kept, it)
		}
	}
	return kept
}

// Savings computes the discount in cents for an eligible promotion. The
// first action is authoritative; a promotion without actions saves nothing.
func (c *Calculator) Savings(p domain.Promotion, items []domain.CartItem) int64 {
	action, ok := p.PrimaryAction()
	if !ok {
		return 0
	}

	subset := EligibleSubset(p, items)
	var applicableSubtotal int64
	for _, it := range subset {
		applicableSubtotal += it.LineSubtotalCents()
	}

	switch action.Type {
	case domain.ActionPercentageOff:
		discount := decimal.NewFromInt(applicableSubtotal).
			Mul(decimal.NewFromInt(action.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
		if action.MaxDiscountCents > 0 && discount > action.MaxDiscountCents {
			discount = action.MaxDiscountCents
		}
		return discount

	case domain.ActionFixedOff:
		// Never negative, never more than the eligible subtotal.
		if action.Value <= 0 {
			return 0
		}
		if action.Value > applicableSubtotal {
			return applicableSubtotal
		}
		return action.Value

	case domain.ActionFreeShipping:
		return c.freeShippingEstimateCents

	case domain.ActionFreeItem:
		for _, it := range subset {
			if it.ProductID == action.FreeProductID {
				return it.UnitPriceCents
			}
		}
		return 0

	case domain.ActionBOGO:
		if len(subset) < 2 {
			return 0
		}
		cheapest := subset[0].UnitPriceCents
		for _, it := range subset[1:] {
			if it.UnitPriceCents < cheapest {
				cheapest = it.UnitPriceCents
			}
		}
		return cheapest
	}

	return 0
}
