package domain

import "time"

// CouponDiscountType is the closed set of coupon discount kinds.
type CouponDiscountType string

const (
	CouponPercentage   CouponDiscountType = "PERCENTAGE"
	CouponFixed        CouponDiscountType = "FIXED"
	CouponFreeShipping CouponDiscountType = "FREE_SHIPPING"
)

// Coupon is a single-code rule definition as returned by the remote
// authority. Codes are case-insensitive and stored upper-cased.
type Coupon struct {
	Code                 string             `json:"code"`
	DiscountType         CouponDiscountType `json:"discountType"`
	DiscountValue        int64              `json:"discountValue"`
	MinOrderAmountCents  int64              `json:"minOrderAmount,omitempty"`
	MinQuantity          int                `json:"minQuantity,omitempty"`
	ApplicableProducts   []string           `json:"applicableProducts,omitempty"`
	ApplicableCategories []string           `json:"applicableCategories,omitempty"`
	ExcludedProducts     []string           `json:"excludedProducts,omitempty"`
	FirstOrderOnly       bool               `json:"firstOrderOnly,omitempty"`
	ExpiresAt            *time.Time         `json:"expiresAt,omitempty"`
}

// CouponPhase is the coupon validator's state machine phase.
//
//	Idle -> Validating -> {Applied | Rejected | Restricted} -> Idle (on clear)
//	Applied -> Validating (re-entrant, on cart-content hash change)
type CouponPhase string

const (
	CouponIdle       CouponPhase = "idle"
	CouponValidating CouponPhase = "validating"
	CouponApplied    CouponPhase = "applied"
	CouponRejected   CouponPhase = "rejected"
	CouponRestricted CouponPhase = "restricted"
)

// CouponStatus is the coupon state object exposed for input-field binding.
type CouponStatus struct {
	Code              string      `json:"code"`
	Phase             CouponPhase `json:"phase"`
	Validating        bool        `json:"validating"`
	Applied           bool        `json:"applied"`
	DiscountCents     int64       `json:"discountCents"`
	Message           string      `json:"message,omitempty"`
	MessageType       string      `json:"messageType,omitempty"`
	Restricted        bool        `json:"restricted,omitempty"`
	RestrictionReason string      `json:"restrictionReason,omitempty"`
}
