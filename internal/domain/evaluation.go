package domain

// EvaluationResult is the per-promotion outcome of one evaluation cycle.
// Results are derived, recomputed on every cycle, and never persisted.
type EvaluationResult struct {
	// Eligible means the date window, targeting, and conditions are all
	// satisfied by the current cart.
	Eligible bool

	// Restricted means the promotion failed specifically on targeting or
	// exclusion rules, as opposed to unmet thresholds. The storefront
	// renders these differently ("add the right item").
	Restricted bool

	// ConditionFailed means the promotion passed targeting but failed a
	// threshold condition; only these promotions get progress tracking.
	ConditionFailed bool

	// Reason explains a non-eligible result.
	Reason string

	// SavingsCents is the computed discount for an eligible promotion.
	SavingsCents int64

	// Progress is the 0-100 completion percentage toward eligibility.
	Progress int

	// RemainingCents is the amount still needed for a MIN_AMOUNT threshold.
	RemainingCents int64

	// RemainingQuantity is the unit count still needed for MIN_QUANTITY.
	RemainingQuantity int64
}

// PromotionDisplay is the per-promotion record exposed to the UI layer.
type PromotionDisplay struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Type              PromotionType `json:"type"`
	Message           string        `json:"message,omitempty"`
	SavingsCents      int64         `json:"savingsCents"`
	IsEligible        bool          `json:"isEligible"`
	IsRestricted      bool          `json:"isRestricted"`
	RestrictionReason string        `json:"restrictionReason,omitempty"`
	Progress          int           `json:"progress"`
	RemainingCents    int64         `json:"remainingCents"`
	RemainingQuantity int64         `json:"remainingQuantity"`
	IsFreeShipping    bool          `json:"isFreeShipping"`
}

// AppliedPromotion is one contributing entry of the resolved discount.
type AppliedPromotion struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DiscountCents int64  `json:"discountCents"`
}

// AppliedDiscount is the resolved record written to the sink. The promotion
// and coupon layers are additive; they share only the combo-exclusion rule.
type AppliedDiscount struct {
	PromotionTotalCents int64              `json:"promotionTotalCents"`
	Promotions          []AppliedPromotion `json:"promotions,omitempty"`
	CouponCode          string             `json:"couponCode,omitempty"`
	CouponDiscountCents int64              `json:"couponDiscountCents,omitempty"`
	TotalCents          int64              `json:"totalCents"`
}
