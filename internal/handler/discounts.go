package handler

import (
	"net/http"

	"github.com/dukerupert/gersemi/internal/sink"
)

// DiscountsHandler exposes the resolved applied-discount record.
type DiscountsHandler struct {
	sink *sink.Sink
}

// NewDiscountsHandler creates a discounts handler.
func NewDiscountsHandler(s *sink.Sink) *DiscountsHandler {
	return &DiscountsHandler{sink: s}
}

// View handles GET /discounts
func (h *DiscountsHandler) View(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.sink.Snapshot())
}
