package promo

import (
	"sort"

	"github.com/dukerupert/gersemi/internal/domain"
)

// Candidate pairs a promotion with its evaluation outcome and computed
// savings for stacking resolution.
type Candidate struct {
	Promotion domain.Promotion
	Result    domain.EvaluationResult
}

// ResolveStack chooses the final combination of promotions to apply from all
// candidates of one cycle.
//
// The policy is priority-plus-flag driven, not savings-maximizing: after a
// stable sort by priority descending (ties keep catalog fetch order), the
// head eligible promotion decides everything. A non-stackable head wins
// exclusively, discarding every other eligible promotion even when one of
// them saves more. A stackable head combines with every other stackable
// eligible promotion in the list, contiguous with the head or not. Product
// has not confirmed whether the non-maximizing behavior is intentional, so
// it is preserved as-is rather than fixed silently.
func ResolveStack(candidates []Candidate) []domain.AppliedPromotion {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Promotion.Priority > sorted[j].Promotion.Priority
	})

	var eligible []Candidate
	for _, c := range sorted {
		if c.Result.Eligible && c.Result.SavingsCents > 0 {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	head := eligible[0]
	if !head.Promotion.Stackable {
		return []domain.AppliedPromotion{{
			ID:            head.Promotion.ID,
			Name:          head.Promotion.Name,
			DiscountCents: head.Result.SavingsCents,
		}}
	}

	var applied []domain.AppliedPromotion
	for _, c := range eligible {
		if !c.Promotion.Stackable {
			continue
		}
		applied = append(applied, domain.AppliedPromotion{
			ID:            c.Promotion.ID,
			Name:          c.Promotion.Name,
			DiscountCents: c.Result.SavingsCents,
		})
	}
	return applied
}

// StackTotal sums the savings of the resolved set.
func StackTotal(applied []domain.AppliedPromotion) int64 {
	var total int64
	for _, a := range applied {
		total += a.DiscountCents
	}
	return total
}
