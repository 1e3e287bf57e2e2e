package promo

import (
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/shopspring/decimal"
)

// ProgressReport describes how close the cart is to unlocking a promotion
// that failed a threshold condition.
type ProgressReport struct {
	// Percent is 0-100, rounded to the nearest whole percent.
	Percent int

	// RemainingCents is the amount still needed for a MIN_AMOUNT threshold.
	RemainingCents int64

	// RemainingQuantity is the unit count still needed for MIN_QUANTITY.
	RemainingQuantity int64
}

// Progress computes the completion report for a promotion that failed its
// conditions. Callers must not invoke this for promotions rejected by
// targeting or by the validity window; those have no path forward that a
// progress bar can show.
func Progress(p domain.Promotion, items []domain.CartItem, subtotalCents int64) ProgressReport {
	ids := specificProductIDs(p)
	if len(ids) > 0 {
		matched := int64(0)
		present := false
		for _, it := range items {
			if containsString(ids, it.ProductID) {
				matched += int64(it.Quantity)
				present = true
			}
		}
		// Without a qualifying item there is no meaningful path forward.
		if !present {
			return ProgressReport{}
		}
		if required, ok := minQuantity(p); ok && required > 0 {
			return ProgressReport{
				Percent:           ratioPercent(matched, required),
				RemainingQuantity: maxInt64(0, required-matched),
			}
		}
	} else if required, ok := minQuantity(p); ok && required > 0 {
		matched := int64(0)
		for _, it := range items {
			matched += int64(it.Quantity)
		}
		return ProgressReport{
			Percent:           ratioPercent(matched, required),
			RemainingQuantity: maxInt64(0, required-matched),
		}
	}

	if minAmount, ok := minAmountCents(p); ok && minAmount > 0 {
		return ProgressReport{
			Percent:        ratioPercent(subtotalCents, minAmount),
			RemainingCents: maxInt64(0, minAmount-subtotalCents),
		}
	}

	// No amount threshold gates it further; conditions alone decide. This
	// path is not normally reached because the evaluator would have marked
	// the promotion eligible.
	return ProgressReport{Percent: 100}
}

func minQuantity(p domain.Promotion) (int64, bool) {
	for _, c := range p.Conditions {
		if c.Type == domain.ConditionMinQuantity {
			return c.Amount, true
		}
	}
	return 0, false
}

func minAmountCents(p domain.Promotion) (int64, bool) {
	for _, c := range p.Conditions {
		if c.Type == domain.ConditionMinAmount {
			return c.Amount, true
		}
	}
	return 0, false
}

// ratioPercent returns min(100, round(have/need*100)).
func ratioPercent(have, need int64) int {
	if need <= 0 {
		return 100
	}
	pct := decimal.NewFromInt(have).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(need)).
		Round(0)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return int(pct.IntPart())
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
