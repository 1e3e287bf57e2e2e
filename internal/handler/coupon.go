package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/gersemi/internal/coupon"
	"github.com/dukerupert/gersemi/internal/domain"
)

// CouponHandler binds the coupon validator state machine to the API.
type CouponHandler struct {
	validator *coupon.Validator
}

// NewCouponHandler creates a coupon handler.
func NewCouponHandler(v *coupon.Validator) *CouponHandler {
	return &CouponHandler{validator: v}
}

// Status handles GET /coupon
func (h *CouponHandler) Status(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.validator.Status())
}

// Apply handles POST /coupon. Validation is debounced; the response carries
// the immediate state (normally "validating") and the client polls or
// re-reads status.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ErrorResponse(w, r, domain.Invalid("coupon.apply", "invalid coupon payload"))
		return
	}

	h.validator.Enter(body.Code)
	RespondJSON(w, http.StatusAccepted, h.validator.Status())
}

// Remove handles DELETE /coupon
func (h *CouponHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.validator.Clear()
	RespondJSON(w, http.StatusOK, h.validator.Status())
}
