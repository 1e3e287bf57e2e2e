package shipping

import (
	"context"
)

// MockProvider is a test implementation of RateProvider.
type MockProvider struct {
	GetRateFunc func(ctx context.Context, params RateParams) (*Rate, error)
}

// GetRate delegates to the configured function or returns a default quote.
func (m *MockProvider) GetRate(ctx context.Context, params RateParams) (*Rate, error) {
	if m.GetRateFunc != nil {
		return m.GetRateFunc(ctx, params)
	}
	return &Rate{ServiceName: "Standard Shipping", ServiceCode: "standard", CostCents: 795}, nil
}
