// Package catalog fetches active promotion definitions. Definitions are
// fetched fresh on every qualifying cart change and held only for the
// current evaluation cycle; there is no local cache.
package catalog

import (
	"context"

	"github.com/dukerupert/gersemi/internal/domain"
)

// Provider returns the currently active promotion definitions.
// Implementations must preserve the order the catalog returns; stacking
// resolution uses it to break priority ties.
type Provider interface {
	ActivePromotions(ctx context.Context) ([]domain.Promotion, error)
}
