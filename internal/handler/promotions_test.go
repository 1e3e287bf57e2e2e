package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/gersemi/internal/cart"
	"github.com/dukerupert/gersemi/internal/catalog"
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/dukerupert/gersemi/internal/engine"
	"github.com/dukerupert/gersemi/internal/handler"
	"github.com/dukerupert/gersemi/internal/promo"
	"github.com/dukerupert/gersemi/internal/shipping"
	"github.com/dukerupert/gersemi/internal/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPromotionsHandler(provider catalog.Provider, rates shipping.RateProvider) (*handler.PromotionsHandler, *cart.Store) {
	store := cart.NewStore()
	metrics := engine.NewMetrics("test", prometheus.NewRegistry())
	eng := engine.NewEngine(store, provider, promo.NewCalculator(795), sink.New(), metrics, testLogger())
	eng.Start()
	return handler.NewPromotionsHandler(eng, store, rates), store
}

type promotionsResponse struct {
	Promotions    []domain.PromotionDisplay `json:"promotions"`
	ShippingCents *int64                    `json:"shippingCents"`
}

func TestPromotionsHandler_ListIncludesShippingForFreeShipping(t *testing.T) {
	provider := &catalog.MockProvider{
		ActivePromotionsFunc: func(ctx context.Context) ([]domain.Promotion, error) {
			return []domain.Promotion{{
				ID:        "ship",
				Name:      "Free Shipping",
				Type:      domain.PromotionFreeShipping,
				Stackable: true,
				Actions:   []domain.Action{{Type: domain.ActionFreeShipping}},
			}}, nil
		},
	}
	rates := &shipping.MockProvider{
		GetRateFunc: func(ctx context.Context, params shipping.RateParams) (*shipping.Rate, error) {
			return &shipping.Rate{ServiceName: "Ground", CostCents: 650}, nil
		},
	}
	h, store := newPromotionsHandler(provider, rates)
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/promotions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp promotionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Promotions, 1)
	assert.True(t, resp.Promotions[0].IsFreeShipping)
	require.NotNil(t, resp.ShippingCents)
	assert.Equal(t, int64(650), *resp.ShippingCents)
}

func TestPromotionsHandler_ListOmitsShippingOnError(t *testing.T) {
	provider := &catalog.MockProvider{
		ActivePromotionsFunc: func(ctx context.Context) ([]domain.Promotion, error) {
			return []domain.Promotion{{
				ID:        "ship",
				Name:      "Free Shipping",
				Stackable: true,
				Actions:   []domain.Action{{Type: domain.ActionFreeShipping}},
			}}, nil
		},
	}
	rates := &shipping.MockProvider{
		GetRateFunc: func(ctx context.Context, params shipping.RateParams) (*shipping.Rate, error) {
			return nil, shipping.ErrNoQuote
		},
	}
	h, store := newPromotionsHandler(provider, rates)
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/promotions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp promotionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.ShippingCents, "quote failures never fail the listing")
}

func TestPromotionsHandler_RefreshReturnsDisplays(t *testing.T) {
	provider := &catalog.MockProvider{
		ActivePromotionsFunc: func(ctx context.Context) ([]domain.Promotion, error) {
			return []domain.Promotion{{
				ID:        "deal",
				Name:      "Deal",
				Stackable: true,
				Actions:   []domain.Action{{Type: domain.ActionFixedOff, Value: 100}},
			}}, nil
		},
	}
	h, store := newPromotionsHandler(provider, &shipping.MockProvider{})
	store.Replace([]domain.CartItem{{ProductID: "x", Quantity: 1, UnitPriceCents: 2000}})
	require.Equal(t, int64(1), provider.Calls())

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/evaluate/refresh", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), provider.Calls(), "refresh bypasses the hash gate")

	var resp promotionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Promotions, 1)
	assert.Equal(t, "deal", resp.Promotions[0].ID)
}
