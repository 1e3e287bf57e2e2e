package coupon_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/coupon"
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/dukerupert/gersemi/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDebounce = 25 * time.Millisecond
	waitFor      = 2 * time.Second
	tick         = 5 * time.Millisecond
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestValidator(authority coupon.Authority) (*coupon.Validator, *cart.Store, *sink.Sink) {
	store := cart.NewStore()
	snk := sink.New()
	v := coupon.NewValidator(authority, store, snk, testDebounce, testDebounce, testLogger())
	v.Start()
	return v, store, snk
}

func TestValidator_EntryDebouncesThenApplies(t *testing.T) {
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			return &coupon.ValidationResult{Valid: true, DiscountCents: 500}, nil
		},
	}
	v, store, snk := newTestValidator(authority)
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})

	v.Enter("  save10 ")

	status := v.Status()
	assert.Equal(t, "SAVE10", status.Code, "codes are trimmed and upper-cased")
	assert.True(t, status.Validating)

	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	status = v.Status()
	assert.Equal(t, domain.CouponApplied, status.Phase)
	assert.Equal(t, int64(500), status.DiscountCents)
	assert.Equal(t, "Coupon applied", status.Message)
	assert.Equal(t, "success", status.MessageType)

	snap := snk.Snapshot()
	assert.Equal(t, "SAVE10", snap.CouponCode)
	assert.Equal(t, int64(500), snap.CouponDiscountCents)
}

func TestValidator_RapidEntryValidatesOnce(t *testing.T) {
	authority := &coupon.MockAuthority{}
	v, _, _ := newTestValidator(authority)

	v.Enter("S")
	v.Enter("SA")
	v.Enter("SAVE10")

	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)
	assert.Equal(t, int64(1), authority.Calls(), "each keystroke re-arms the debounce instead of firing")
	assert.Equal(t, "SAVE10", v.Status().Code)
}

func TestValidator_RejectedSurfacesServerMessage(t *testing.T) {
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			return &coupon.ValidationResult{Valid: false, Message: "Coupon expired"}, nil
		},
	}
	v, _, snk := newTestValidator(authority)

	v.Enter("OLD")

	require.Eventually(t, func() bool { return v.Status().Phase == domain.CouponRejected }, waitFor, tick)

	status := v.Status()
	assert.Equal(t, "Coupon expired", status.Message)
	assert.Equal(t, "error", status.MessageType)
	assert.Zero(t, status.DiscountCents)
	assert.Empty(t, snk.Snapshot().CouponCode)
}

func TestValidator_RestrictedSurfacesReasonVerbatim(t *testing.T) {
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			return &coupon.ValidationResult{
				Restricted:        true,
				RestrictionReason: "not valid with subscription items",
			}, nil
		},
	}
	v, _, _ := newTestValidator(authority)

	v.Enter("NOSUB")

	require.Eventually(t, func() bool { return v.Status().Phase == domain.CouponRestricted }, waitFor, tick)

	status := v.Status()
	assert.True(t, status.Restricted)
	assert.Equal(t, "not valid with subscription items", status.RestrictionReason)
	assert.Equal(t, "not valid with subscription items", status.Message)
}

func TestValidator_ComboItemRestrictsImmediately(t *testing.T) {
	authority := &coupon.MockAuthority{}
	v, store, snk := newTestValidator(authority)
	store.Replace([]domain.CartItem{
		{ProductID: "bundle", Quantity: 1, UnitPriceCents: 2500, IsComboItem: true, ComboID: "c1"},
	})

	v.Enter("SAVE10")

	// No debounce wait: the rejection is synchronous with entry.
	status := v.Status()
	assert.Equal(t, domain.CouponRestricted, status.Phase)
	assert.True(t, status.Restricted)
	assert.Equal(t, "coupons cannot be combined with combo items", status.RestrictionReason)
	assert.Empty(t, snk.Snapshot().CouponCode)

	assert.Never(t, func() bool { return authority.Calls() > 0 }, 4*testDebounce, tick)
}

func TestValidator_ComboItemAddedWhileApplied(t *testing.T) {
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			return &coupon.ValidationResult{Valid: true, DiscountCents: 500}, nil
		},
	}
	v, store, snk := newTestValidator(authority)
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})

	v.Enter("SAVE10")
	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	store.Replace([]domain.CartItem{
		{ProductID: "x", Quantity: 1, UnitPriceCents: 2000},
		{ProductID: "bundle", Quantity: 1, UnitPriceCents: 2500, IsComboItem: true, ComboID: "c1"},
	})

	require.Eventually(t, func() bool { return v.Status().Phase == domain.CouponRestricted }, waitFor, tick)
	assert.Empty(t, snk.Snapshot().CouponCode)
	assert.Equal(t, int64(1), authority.Calls(), "the re-validation short-circuits before the network")
}

func TestValidator_NewEntrySupersedesInFlightValidation(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			if req.Code == "FIRST" {
				close(started)
				<-release
				return &coupon.ValidationResult{Valid: true, DiscountCents: 111, Message: "first applied"}, nil
			}
			return &coupon.ValidationResult{Valid: true, DiscountCents: 222, Message: "second applied"}, nil
		},
	}
	v, _, snk := newTestValidator(authority)

	v.Enter("FIRST")
	<-started

	// The second code arrives while the first validation is still in flight,
	// and the slow response is released before the second validation starts.
	// The stale result must be discarded, not applied against the new entry.
	v.Enter("SECOND")
	close(release)

	assert.Never(t, func() bool {
		return v.Status().DiscountCents == 111 || snk.Snapshot().CouponCode == "FIRST"
	}, 2*testDebounce, time.Millisecond)

	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	status := v.Status()
	assert.Equal(t, "SECOND", status.Code)
	assert.Equal(t, int64(222), status.DiscountCents)
	assert.Equal(t, "second applied", status.Message)
	assert.Equal(t, "SECOND", snk.Snapshot().CouponCode)
	assert.Equal(t, int64(222), snk.Snapshot().CouponDiscountCents)
}

func TestValidator_CartChangeRevalidatesAppliedCoupon(t *testing.T) {
	var mu sync.Mutex
	var totals []int64
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			mu.Lock()
			totals = append(totals, req.CartTotalCents)
			mu.Unlock()
			return &coupon.ValidationResult{Valid: true, DiscountCents: 500}, nil
		},
	}
	v, store, _ := newTestValidator(authority)
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})

	v.Enter("SAVE10")
	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)
	require.Equal(t, int64(1), authority.Calls())

	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 2, UnitPriceCents: 2000}})

	require.Eventually(t, func() bool { return authority.Calls() == 2 }, waitFor, tick)
	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, totals, 2)
	assert.Equal(t, int64(2000), totals[0])
	assert.Equal(t, int64(4000), totals[1], "re-validation sends the new cart totals")
}

func TestValidator_NetworkFailureClearsAppliedDiscount(t *testing.T) {
	var mu sync.Mutex
	fail := false
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			mu.Lock()
			defer mu.Unlock()
			if fail {
				return nil, assert.AnError
			}
			return &coupon.ValidationResult{Valid: true, DiscountCents: 500}, nil
		},
	}
	v, store, snk := newTestValidator(authority)
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})

	v.Enter("SAVE10")
	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	mu.Lock()
	fail = true
	mu.Unlock()
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 2, UnitPriceCents: 2000}})

	require.Eventually(t, func() bool { return v.Status().Phase == domain.CouponRejected }, waitFor, tick)

	status := v.Status()
	assert.Equal(t, "Could not validate coupon. Please try again.", status.Message)
	assert.Zero(t, status.DiscountCents)
	assert.Empty(t, snk.Snapshot().CouponCode, "a stale discount is never kept after a failed re-validation")
}

func TestValidator_ClearResetsToIdle(t *testing.T) {
	authority := &coupon.MockAuthority{
		ValidateFunc: func(ctx context.Context, req coupon.ValidationRequest) (*coupon.ValidationResult, error) {
			return &coupon.ValidationResult{Valid: true, DiscountCents: 500}, nil
		},
	}
	v, _, snk := newTestValidator(authority)

	v.Enter("SAVE10")
	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	v.Clear()

	status := v.Status()
	assert.Equal(t, domain.CouponIdle, status.Phase)
	assert.Empty(t, status.Code)
	assert.Zero(t, status.DiscountCents)
	assert.Empty(t, snk.Snapshot().CouponCode)
}

func TestValidator_EmptyEntryClears(t *testing.T) {
	authority := &coupon.MockAuthority{}
	v, _, _ := newTestValidator(authority)

	v.Enter("SAVE10")
	require.Eventually(t, func() bool { return v.Status().Applied }, waitFor, tick)

	v.Enter("   ")

	assert.Equal(t, domain.CouponIdle, v.Status().Phase)
	assert.Empty(t, v.Status().Code)
}
