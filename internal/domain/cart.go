package domain

// CartItem is one line of the external cart snapshot. The engine never
// mutates items; it only reads them during an evaluation cycle.
type CartItem struct {
	ProductID         string `json:"productId"`
	VariantID         string `json:"variantId,omitempty"`
	Size              string `json:"size,omitempty"`
	Quantity          int    `json:"quantity"`
	UnitPriceCents    int64  `json:"unitPriceCents"`
	ItemDiscountCents int64  `json:"itemDiscountCents,omitempty"`
	Category          string `json:"category,omitempty"`
	Brand             string `json:"brand,omitempty"`
	IsComboItem       bool   `json:"isComboItem,omitempty"`
	ComboID           string `json:"comboId,omitempty"`
}

// LineSubtotalCents returns quantity times unit price, before any discount.
func (i CartItem) LineSubtotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// SubtotalCents sums line subtotals over the whole snapshot.
func SubtotalCents(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.LineSubtotalCents()
	}
	return total
}

// HasComboItem reports whether any line belongs to a combo bundle.
// A single combo item anywhere in the cart blocks the entire promotion
// and coupon pipeline for that cart.
func HasComboItem(items []CartItem) bool {
	for _, it := range items {
		if it.IsComboItem {
			return true
		}
	}
	return false
}
