package shipping

import (
	"context"
)

// FlatRateProvider returns a predefined flat shipping rate. Used when the
// real shipping service is not configured, and as the source of the fixed
// FREE_SHIPPING display estimate.
type FlatRateProvider struct {
	rate Rate
}

// NewFlatRateProvider creates a flat-rate provider.
func NewFlatRateProvider(rate Rate) *FlatRateProvider {
	return &FlatRateProvider{rate: rate}
}

// GetRate returns the configured flat rate regardless of cart contents.
func (p *FlatRateProvider) GetRate(ctx context.Context, params RateParams) (*Rate, error) {
	r := p.rate
	return &r, nil
}
