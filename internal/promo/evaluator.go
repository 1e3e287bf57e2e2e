// Package promo implements the promotion decision logic: per-promotion
// eligibility, progress toward unmet thresholds, discount amounts, and
// stacking resolution. Everything here is pure computation over a cart
// snapshot; all I/O lives in the catalog and coupon packages.
package promo

import (
	"time"

	"github.com/dukerupert/gersemi/internal/domain"
)

// Non-eligibility reasons surfaced to the UI layer.
const (
	ReasonNotYetActive     = "not yet active"
	ReasonExpired          = "expired"
	ReasonVariantMismatch  = "requires a qualifying product variant"
	ReasonProductMismatch  = "requires a qualifying product"
	ReasonCategoryMismatch = "requires a qualifying category"
	ReasonBrandMismatch    = "requires a qualifying brand"
	ReasonAllItemsExcluded = "all items excluded"
	ReasonMinAmountUnmet   = "minimum order amount not met"
	ReasonMinQuantityUnmet = "minimum quantity not met"
	ReasonProductUnmet     = "required product not in cart"
	ReasonCategoryUnmet    = "required category not in cart"
)

// Evaluate runs the eligibility checks for a single promotion against the
// cart snapshot. Checks run in a fixed order and the first failure wins:
// validity window, variant targeting, product targeting, category targeting,
// brand targeting, exclusions, then conditions. Targeting failures are
// marked Restricted; condition failures are marked ConditionFailed so the
// progress calculator knows to run.
func Evaluate(p domain.Promotion, items []domain.CartItem, subtotalCents int64, now time.Time) domain.EvaluationResult {
	// 1. Validity window (inclusive on both ends).
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return domain.EvaluationResult{Reason: ReasonNotYetActive}
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return domain.EvaluationResult{Reason: ReasonExpired}
	}

	// 2. Variant-level targeting.
	if len(p.ApplicableProductVariants) > 0 && !matchesAnyVariant(p.ApplicableProductVariants, items) {
		return domain.EvaluationResult{Restricted: true, Reason: ReasonVariantMismatch}
	}

	// 3. Product-level targeting.
	if len(p.ApplicableProducts) > 0 && !anyProductIn(items, p.ApplicableProducts) {
		return domain.EvaluationResult{Restricted: true, Reason: ReasonProductMismatch}
	}

	// 4. Category targeting.
	if len(p.ApplicableCategories) > 0 && !anyCategoryIn(items, p.ApplicableCategories) {
		return domain.EvaluationResult{Restricted: true, Reason: ReasonCategoryMismatch}
	}

	// 5. Brand targeting.
	if len(p.ApplicableBrands) > 0 && !anyBrandIn(items, p.ApplicableBrands) {
		return domain.EvaluationResult{Restricted: true, Reason: ReasonBrandMismatch}
	}

	// 6. Exclusions: only a full wipe-out blocks the promotion here; partial
	// exclusion is handled by subtracting items from the applicable subset.
	if len(p.ExcludedProducts) > 0 && len(items) > 0 && allProductsIn(items, p.ExcludedProducts) {
		return domain.EvaluationResult{Restricted: true, Reason: ReasonAllItemsExcluded}
	}

	// 7. Conditions, AND over all.
	for _, c := range p.Conditions {
		if reason := checkCondition(c, p, items, subtotalCents); reason != "" {
			return domain.EvaluationResult{ConditionFailed: true, Reason: reason}
		}
	}

	return domain.EvaluationResult{Eligible: true}
}

func checkCondition(c domain.Condition, p domain.Promotion, items []domain.CartItem, subtotalCents int64) string {
	switch c.Type {
	case domain.ConditionMinAmount:
		if subtotalCents < c.Amount {
			return ReasonMinAmountUnmet
		}
	case domain.ConditionMinQuantity:
		if conditionedQuantity(p, items) < c.Amount {
			return ReasonMinQuantityUnmet
		}
	case domain.ConditionSpecificProduct:
		if !anySpecificProduct(c, items) {
			return ReasonProductUnmet
		}
	case domain.ConditionCategory:
		if !anyCategoryIn(items, []string{c.Label}) {
			return ReasonCategoryUnmet
		}
	case domain.ConditionCustomerTag:
		// Customer tags cannot be verified without trusted identity data, so
		// this tier always passes the check. The order-submission authority
		// re-validates the tag before any discount is honored.
	}
	return ""
}

// conditionedQuantity sums the quantities MIN_QUANTITY is measured over: the
// subset matching the promotion's SPECIFIC_PRODUCT condition ids, or the
// whole cart when no SPECIFIC_PRODUCT condition names any products.
func conditionedQuantity(p domain.Promotion, items []domain.CartItem) int64 {
	ids := specificProductIDs(p)
	var total int64
	for _, it := range items {
		if len(ids) == 0 || containsString(ids, it.ProductID) {
			total += int64(it.Quantity)
		}
	}
	return total
}

// specificProductIDs is the union of product ids named by SPECIFIC_PRODUCT
// conditions on the promotion.
func specificProductIDs(p domain.Promotion) []string {
	var ids []string
	for _, c := range p.Conditions {
		if c.Type == domain.ConditionSpecificProduct {
			ids = append(ids, c.ProductIDs...)
		}
	}
	return ids
}

func anySpecificProduct(c domain.Condition, items []domain.CartItem) bool {
	// An empty product list is vacuously satisfied.
	if len(c.ProductIDs) == 0 {
		return true
	}
	for _, it := range items {
		if !containsString(c.ProductIDs, it.ProductID) {
			continue
		}
		if len(c.VariantIDs) > 0 && !containsString(c.VariantIDs, it.VariantID) {
			continue
		}
		return true
	}
	return false
}

func matchesAnyVariant(targets []domain.VariantTarget, items []domain.CartItem) bool {
	for _, it := range items {
		for _, t := range targets {
			if t.Matches(it) {
				return true
			}
		}
	}
	return false
}

func anyProductIn(items []domain.CartItem, ids []string) bool {
	for _, it := range items {
		if containsString(ids, it.ProductID) {
			return true
		}
	}
	return false
}

func allProductsIn(items []domain.CartItem, ids []string) bool {
	for _, it := range items {
		if !containsString(ids, it.ProductID) {
			return false
		}
	}
	return true
}

func anyCategoryIn(items []domain.CartItem, categories []string) bool {
	for _, it := range items {
		if containsString(categories, it.Category) {
			return true
		}
	}
	return false
}

func anyBrandIn(items []domain.CartItem, brands []string) bool {
	for _, it := range items {
		if containsString(brands, it.Brand) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
