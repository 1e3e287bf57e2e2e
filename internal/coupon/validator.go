package coupon

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/dukerupert/gersemi/internal/sink"
)

const comboRestrictionReason = "coupons cannot be combined with combo items"

// Validator owns the coupon state machine:
//
//	Idle -> Validating -> {Applied | Rejected | Restricted} -> Idle (on clear)
//	Applied -> Validating (re-entrant, on cart-content hash change)
//
// Code entry is debounced so validation fires after an idle period rather
// than per keystroke; cart-triggered re-validation of an applied coupon uses
// a shorter debounce. The validator is the sole writer of the sink's coupon
// layer.
type Validator struct {
	authority Authority
	store     *cart.Store
	sink      *sink.Sink
	logger    *slog.Logger

	entryDelay      time.Duration
	revalidateDelay time.Duration
	timeout         time.Duration

	// generation discards in-flight validations superseded by newer input.
	generation atomic.Uint64

	mu                sync.Mutex
	phase             domain.CouponPhase
	code              string
	userID            string
	discountCents     int64
	message           string
	messageType       string
	restricted        bool
	restrictionReason string
	timer             *time.Timer
}

// NewValidator creates a coupon validator.
func NewValidator(authority Authority, store *cart.Store, snk *sink.Sink, entryDelay, revalidateDelay time.Duration, logger *slog.Logger) *Validator {
	return &Validator{
		authority:       authority,
		store:           store,
		sink:            snk,
		logger:          logger,
		entryDelay:      entryDelay,
		revalidateDelay: revalidateDelay,
		timeout:         10 * time.Second,
		phase:           domain.CouponIdle,
	}
}

// Start subscribes the validator to cart changes so an applied coupon is
// automatically re-validated against the new cart content.
func (v *Validator) Start() {
	v.store.Subscribe(func(items []domain.CartItem, hash string) {
		v.mu.Lock()
		revalidate := v.phase == domain.CouponApplied || v.phase == domain.CouponValidating
		if revalidate {
			v.scheduleLocked(v.revalidateDelay)
		}
		v.mu.Unlock()
	})
}

// SetUser attaches an optional user id sent with validation requests.
func (v *Validator) SetUser(userID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.userID = userID
}

// Enter records a code from the input field and schedules debounced
// validation. Codes are case-insensitive and normalized to upper case. An
// empty code clears the state machine back to Idle.
func (v *Validator) Enter(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		v.Clear()
		return
	}

	v.mu.Lock()
	v.code = code

	// A combo cart rejects the code immediately; there is nothing to debounce
	// and no validation worth starting.
	if v.store.HasCombo() {
		if v.timer != nil {
			v.timer.Stop()
			v.timer = nil
		}
		v.generation.Add(1)
		v.comboRestrictLocked()
		v.mu.Unlock()
		v.sink.ClearCoupon()
		return
	}

	v.phase = domain.CouponValidating
	v.message = ""
	v.messageType = ""
	v.restricted = false
	v.restrictionReason = ""
	v.scheduleLocked(v.entryDelay)
	v.mu.Unlock()
}

// comboRestrictLocked moves the machine to Restricted for a combo cart.
// Callers hold v.mu and clear the sink's coupon layer after unlocking.
func (v *Validator) comboRestrictLocked() {
	v.phase = domain.CouponRestricted
	v.discountCents = 0
	v.restricted = true
	v.restrictionReason = comboRestrictionReason
	v.message = comboRestrictionReason
	v.messageType = "error"
}

// Clear resets the state machine to Idle and removes any applied discount.
func (v *Validator) Clear() {
	v.mu.Lock()
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	v.generation.Add(1) // invalidate any in-flight validation
	v.phase = domain.CouponIdle
	v.code = ""
	v.discountCents = 0
	v.message = ""
	v.messageType = ""
	v.restricted = false
	v.restrictionReason = ""
	v.mu.Unlock()

	v.sink.ClearCoupon()
}

// Status returns the state object for input-field binding.
func (v *Validator) Status() domain.CouponStatus {
	v.mu.Lock()
	defer v.mu.Unlock()
	return domain.CouponStatus{
		Code:              v.code,
		Phase:             v.phase,
		Validating:        v.phase == domain.CouponValidating,
		Applied:           v.phase == domain.CouponApplied,
		DiscountCents:     v.discountCents,
		Message:           v.message,
		MessageType:       v.messageType,
		Restricted:        v.restricted,
		RestrictionReason: v.restrictionReason,
	}
}

// scheduleLocked (re)arms the debounce timer. Newer input supersedes any
// validation already in flight, not just ones that have yet to start, so the
// generation is bumped here rather than when the timer fires. Callers hold
// v.mu.
func (v *Validator) scheduleLocked(delay time.Duration) {
	v.generation.Add(1)
	if v.timer != nil {
		v.timer.Stop()
	}
	v.timer = time.AfterFunc(delay, v.validate)
}

// validate runs one validation pass against the current cart snapshot.
func (v *Validator) validate() {
	v.mu.Lock()
	code := v.code
	userID := v.userID
	if code == "" {
		v.mu.Unlock()
		return
	}

	// Combo items block the coupon pipeline outright; no network call is
	// made and any previously applied coupon is removed.
	items := v.store.Items()
	if domain.HasComboItem(items) {
		v.comboRestrictLocked()
		v.mu.Unlock()
		v.sink.ClearCoupon()
		return
	}

	v.phase = domain.CouponValidating
	gen := v.generation.Add(1)
	v.mu.Unlock()

	req := ValidationRequest{
		Code:           code,
		UserID:         userID,
		CartTotalCents: domain.SubtotalCents(items),
		Items:          RequestItems(items),
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	result, err := v.authority.Validate(ctx, req)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation.Load() {
		v.logger.Debug("discarding stale coupon validation", "code", code)
		return
	}

	if err != nil {
		// Do not silently keep a previously applied discount stale.
		v.phase = domain.CouponRejected
		v.discountCents = 0
		v.message = "Could not validate coupon. Please try again."
		v.messageType = "error"
		v.logger.Error("coupon validation failed", "code", code, "error", err)
		v.sink.ClearCoupon()
		return
	}

	switch {
	case result.Restricted:
		v.phase = domain.CouponRestricted
		v.discountCents = 0
		v.restricted = true
		v.restrictionReason = result.RestrictionReason
		v.message = result.RestrictionReason
		v.messageType = "error"
		v.sink.ClearCoupon()

	case !result.Valid:
		v.phase = domain.CouponRejected
		v.discountCents = 0
		v.message = result.Message
		v.messageType = "error"
		v.sink.ClearCoupon()

	default:
		v.phase = domain.CouponApplied
		v.discountCents = result.DiscountCents
		v.message = result.Message
		if v.message == "" {
			v.message = "Coupon applied"
		}
		v.messageType = "success"
		v.restricted = false
		v.restrictionReason = ""
		v.sink.SetCoupon(code, result.DiscountCents)
	}
}
