package catalog

import (
	"context"
	"sync/atomic"

	"github.com/dukerupert/gersemi/internal/domain"
)

// MockProvider is a test implementation of Provider.
type MockProvider struct {
	ActivePromotionsFunc func(ctx context.Context) ([]domain.Promotion, error)

	calls atomic.Int64
}

// ActivePromotions delegates to the configured function or returns an empty
// catalog.
func (m *MockProvider) ActivePromotions(ctx context.Context) ([]domain.Promotion, error) {
	m.calls.Add(1)
	if m.ActivePromotionsFunc != nil {
		return m.ActivePromotionsFunc(ctx)
	}
	return nil, nil
}

// Calls reports how many times ActivePromotions was invoked.
func (m *MockProvider) Calls() int64 {
	return m.calls.Load()
}
