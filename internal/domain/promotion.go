package domain

import (
	"encoding/json"
	"time"
)

// PromotionType labels a promotion for display. Behavior comes from the
// promotion's actions, never from this label.
type PromotionType string

const (
	PromotionCombo        PromotionType = "COMBO"
	PromotionBOGO         PromotionType = "BOGO"
	PromotionPercentage   PromotionType = "PERCENTAGE"
	PromotionFixed        PromotionType = "FIXED"
	PromotionFreeShipping PromotionType = "FREE_SHIPPING"
)

// ConditionType discriminates condition variants. The set is closed;
// decoding rejects unknown values rather than silently defaulting.
type ConditionType string

const (
	ConditionMinAmount       ConditionType = "MIN_AMOUNT"
	ConditionMinQuantity     ConditionType = "MIN_QUANTITY"
	ConditionSpecificProduct ConditionType = "SPECIFIC_PRODUCT"
	ConditionCategory        ConditionType = "CATEGORY"
	ConditionCustomerTag     ConditionType = "CUSTOMER_TAG"
)

// ActionType discriminates action variants. Closed set, same rule.
type ActionType string

const (
	ActionPercentageOff ActionType = "PERCENTAGE_OFF"
	ActionFixedOff      ActionType = "FIXED_OFF"
	ActionFreeShipping  ActionType = "FREE_SHIPPING"
	ActionFreeItem      ActionType = "FREE_ITEM"
	ActionBOGO          ActionType = "BOGO"
)

// VariantMode selects how a variant-level target matches cart items.
type VariantMode string

const (
	AllVariants      VariantMode = "ALL_VARIANTS"
	SpecificVariants VariantMode = "SPECIFIC_VARIANTS"
)

// Condition is one requirement of a promotion. All conditions of a
// promotion must hold (AND semantics). The wire format carries a single
// `value` field whose type depends on the discriminator, so decoding
// splits it into Amount (numeric) or Label (string).
type Condition struct {
	Type ConditionType

	// Amount holds the numeric value: cents for MIN_AMOUNT, a unit count
	// for MIN_QUANTITY.
	Amount int64

	// Label holds the string value: a category name for CATEGORY, a tag
	// name for CUSTOMER_TAG.
	Label string

	// ProductIDs optionally narrows SPECIFIC_PRODUCT to the listed products.
	ProductIDs []string

	// VariantIDs optionally narrows SPECIFIC_PRODUCT to the listed variants.
	VariantIDs []string
}

type conditionJSON struct {
	Type       ConditionType   `json:"type"`
	Value      json.RawMessage `json:"value"`
	ProductIDs []string        `json:"productIds,omitempty"`
	VariantIDs []string        `json:"variantIds,omitempty"`
}

// UnmarshalJSON decodes the tagged variant, rejecting unknown discriminators.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case ConditionMinAmount, ConditionMinQuantity:
		if len(raw.Value) > 0 {
			if err := json.Unmarshal(raw.Value, &c.Amount); err != nil {
				return Errorf(EINVALID, "condition.decode", "condition %s requires a numeric value", raw.Type)
			}
		}
	case ConditionCategory, ConditionCustomerTag:
		if len(raw.Value) > 0 {
			if err := json.Unmarshal(raw.Value, &c.Label); err != nil {
				return Errorf(EINVALID, "condition.decode", "condition %s requires a string value", raw.Type)
			}
		}
	case ConditionSpecificProduct:
		// Value is unused; targeting comes from productIds/variantIds.
	default:
		return Errorf(EINVALID, "condition.decode", "unknown condition type: %q", string(raw.Type))
	}

	c.Type = raw.Type
	c.ProductIDs = raw.ProductIDs
	c.VariantIDs = raw.VariantIDs
	return nil
}

// MarshalJSON writes the wire form back out with the type-appropriate value.
func (c Condition) MarshalJSON() ([]byte, error) {
	raw := conditionJSON{
		Type:       c.Type,
		ProductIDs: c.ProductIDs,
		VariantIDs: c.VariantIDs,
	}
	switch c.Type {
	case ConditionMinAmount, ConditionMinQuantity:
		v, err := json.Marshal(c.Amount)
		if err != nil {
			return nil, err
		}
		raw.Value = v
	case ConditionCategory, ConditionCustomerTag:
		v, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		raw.Value = v
	}
	return json.Marshal(raw)
}

// Action is the effect of an eligible promotion. The first action of a
// promotion is authoritative; later entries are ignored.
type Action struct {
	Type ActionType `json:"type"`

	// Value is a percentage (0-100) for PERCENTAGE_OFF and an amount in
	// cents for FIXED_OFF. Unused for the remaining variants.
	Value int64 `json:"value,omitempty"`

	// MaxDiscountCents caps the computed discount when positive.
	MaxDiscountCents int64 `json:"maxDiscount,omitempty"`

	// FreeProductID names the product given away by FREE_ITEM.
	FreeProductID string `json:"freeProductId,omitempty"`
}

// UnmarshalJSON rejects unknown action discriminators.
func (a *Action) UnmarshalJSON(data []byte) error {
	type alias Action
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Type {
	case ActionPercentageOff, ActionFixedOff, ActionFreeShipping, ActionFreeItem, ActionBOGO:
	default:
		return Errorf(EINVALID, "action.decode", "unknown action type: %q", string(raw.Type))
	}

	*a = Action(raw)
	return nil
}

// VariantTarget narrows a promotion to particular variants of a product.
type VariantTarget struct {
	ProductID   string      `json:"productId"`
	VariantMode VariantMode `json:"variantMode"`
	VariantIDs  []string    `json:"variantIds,omitempty"`
}

// Matches reports whether a cart item satisfies this target.
func (t VariantTarget) Matches(item CartItem) bool {
	if item.ProductID != t.ProductID {
		return false
	}
	if t.VariantMode == AllVariants {
		return true
	}
	for _, id := range t.VariantIDs {
		if id == item.VariantID {
			return true
		}
	}
	return false
}

// Promotion is one independently-authored discount rule from the catalog.
// Definitions are fetched fresh every qualifying cart change and held only
// for the current evaluation cycle.
type Promotion struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Type        PromotionType `json:"type"`

	// Priority orders stacking resolution; higher wins. Ties keep catalog
	// fetch order.
	Priority int `json:"priority"`

	// Stackable allows this promotion to combine with other stackable
	// promotions instead of winning exclusively.
	Stackable bool `json:"stackable"`

	Conditions []Condition `json:"conditions,omitempty"`
	Actions    []Action    `json:"actions,omitempty"`

	ApplicableProducts        []string        `json:"applicableProducts,omitempty"`
	ApplicableProductVariants []VariantTarget `json:"applicableProductVariants,omitempty"`
	ApplicableCategories      []string        `json:"applicableCategories,omitempty"`
	ApplicableBrands          []string        `json:"applicableBrands,omitempty"`
	ExcludedProducts          []string        `json:"excludedProducts,omitempty"`

	// Validity window, both ends optional and inclusive.
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// PrimaryAction returns the authoritative action, if any.
func (p Promotion) PrimaryAction() (Action, bool) {
	if len(p.Actions) == 0 {
		return Action{}, false
	}
	return p.Actions[0], true
}

// IsFreeShipping reports whether the authoritative action is FREE_SHIPPING.
func (p Promotion) IsFreeShipping() bool {
	a, ok := p.PrimaryAction()
	return ok && a.Type == ActionFreeShipping
}
