package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/domain"
)

// CartHandler exposes the engine's cart snapshot. The external cart store
// pushes replacements in; every accepted replacement triggers the hash-gated
// evaluation cycle through the store's subscribers.
type CartHandler struct {
	store *cart.Store
}

// NewCartHandler creates a cart handler.
func NewCartHandler(store *cart.Store) *CartHandler {
	return &CartHandler{store: store}
}

type cartResponse struct {
	Items         []domain.CartItem `json:"items"`
	SubtotalCents int64             `json:"subtotalCents"`
	Hash          string            `json:"hash"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, cartResponse{
		Items:         h.store.Items(),
		SubtotalCents: h.store.SubtotalCents(),
		Hash:          h.store.Hash(),
	})
}

// Replace handles PUT /cart
func (h *CartHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var items []domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		ErrorResponse(w, r, domain.Invalid("cart.replace", "invalid cart payload"))
		return
	}

	for _, it := range items {
		if it.ProductID == "" {
			ErrorResponse(w, r, domain.Invalid("cart.replace", "cart item missing product id"))
			return
		}
		if it.Quantity < 1 {
			ErrorResponse(w, r, domain.Invalid("cart.replace", "quantity must be at least 1"))
			return
		}
		if it.UnitPriceCents < 0 {
			ErrorResponse(w, r, domain.Invalid("cart.replace", "unit price must not be negative"))
			return
		}
	}

	h.store.Replace(items)

	RespondJSON(w, http.StatusOK, cartResponse{
		Items:         h.store.Items(),
		SubtotalCents: h.store.SubtotalCents(),
		Hash:          h.store.Hash(),
	})
}
