package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_ReplaceThenView(t *testing.T) {
	store := cart.NewStore()
	h := handler.NewCartHandler(store)

	body := `[{"productId": "p1", "quantity": 2, "unitPriceCents": 1500}]`
	rec := httptest.NewRecorder()
	h.Replace(rec, httptest.NewRequest(http.MethodPut, "/cart", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SubtotalCents int64  `json:"subtotalCents"`
		Hash          string `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3000), resp.SubtotalCents)
	assert.Equal(t, store.Hash(), resp.Hash)

	rec = httptest.NewRecorder()
	h.View(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_ReplaceRejectsBadItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"not": "a list"`},
		{"missing product id", `[{"quantity": 1, "unitPriceCents": 100}]`},
		{"zero quantity", `[{"productId": "p1", "quantity": 0, "unitPriceCents": 100}]`},
		{"negative price", `[{"productId": "p1", "quantity": 1, "unitPriceCents": -5}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := cart.NewStore()
			h := handler.NewCartHandler(store)

			rec := httptest.NewRecorder()
			h.Replace(rec, httptest.NewRequest(http.MethodPut, "/cart", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, store.Items(), "a rejected payload must not touch the snapshot")
		})
	}
}
