package coupon

import (
	"context"
	"sync/atomic"
)

// MockAuthority is a test implementation of Authority.
type MockAuthority struct {
	ValidateFunc func(ctx context.Context, req ValidationRequest) (*ValidationResult, error)

	calls atomic.Int64
}

// Validate delegates to the configured function or accepts the code with no
// discount.
func (m *MockAuthority) Validate(ctx context.Context, req ValidationRequest) (*ValidationResult, error) {
	m.calls.Add(1)
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, req)
	}
	return &ValidationResult{Valid: true}, nil
}

// Calls reports how many times Validate was invoked.
func (m *MockAuthority) Calls() int64 {
	return m.calls.Load()
}
