package handler

import (
	"net/http"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/dukerupert/gersemi/internal/engine"
	"github.com/dukerupert/gersemi/internal/shipping"
)

// PromotionsHandler exposes per-promotion display records and the forced
// refresh operation.
type PromotionsHandler struct {
	engine   *engine.Engine
	store    *cart.Store
	shipping shipping.RateProvider
}

// NewPromotionsHandler creates a promotions handler.
func NewPromotionsHandler(eng *engine.Engine, store *cart.Store, rates shipping.RateProvider) *PromotionsHandler {
	return &PromotionsHandler{engine: eng, store: store, shipping: rates}
}

type promotionsResponse struct {
	Promotions []domain.PromotionDisplay `json:"promotions"`

	// ShippingCents is the authoritative shipping charge, shown alongside
	// FREE_SHIPPING promotions. Present only when such a promotion exists
	// and the shipping service answered.
	ShippingCents *int64 `json:"shippingCents,omitempty"`
}

// List handles GET /promotions
func (h *PromotionsHandler) List(w http.ResponseWriter, r *http.Request) {
	displays := h.engine.Displays()

	resp := promotionsResponse{Promotions: displays}

	for _, d := range displays {
		if !d.IsFreeShipping {
			continue
		}
		rate, err := h.shipping.GetRate(r.Context(), shipping.RateParams{
			SubtotalCents: h.store.SubtotalCents(),
			ItemCount:     len(h.store.Items()),
		})
		// Display-only figure; omit it rather than fail the listing.
		if err == nil {
			resp.ShippingCents = &rate.CostCents
		}
		break
	}

	RespondJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /evaluate/refresh, forcing re-evaluation outside the
// hash-gated cycle.
func (h *PromotionsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.engine.Refresh(r.Context())
	RespondJSON(w, http.StatusOK, promotionsResponse{Promotions: h.engine.Displays()})
}
