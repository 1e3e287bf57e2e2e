package coupon_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukerupert/gersemi/internal/coupon"
	"github.com/dukerupert/gersemi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPAuthority_PostsCodeAndCart(t *testing.T) {
	var got coupon.ValidationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(coupon.ValidationResult{Valid: true, DiscountCents: 500})
	}))
	defer srv.Close()

	authority := coupon.NewHTTPAuthority(srv.URL, time.Second, 0, testLogger())
	result, err := authority.Validate(context.Background(), coupon.ValidationRequest{
		Code:           "SAVE10",
		CartTotalCents: 2000,
		Items: []coupon.ValidationItem{
			{ItemID: "x", Quantity: 1, PriceCents: 2000},
		},
	})

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, int64(500), result.DiscountCents)

	assert.Equal(t, "SAVE10", got.Code)
	assert.Equal(t, int64(2000), got.CartTotalCents)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "x", got.Items[0].ItemID)
}

func TestHTTPAuthority_RetriesThenUnavailable(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	authority := coupon.NewHTTPAuthority(srv.URL, time.Second, 1, testLogger())
	_, err := authority.Validate(context.Background(), coupon.ValidationRequest{Code: "SAVE10"})

	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
	assert.Equal(t, int64(2), requests.Load())
}

func TestHTTPAuthority_ClientErrorNotRetried(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	authority := coupon.NewHTTPAuthority(srv.URL, time.Second, 3, testLogger())
	_, err := authority.Validate(context.Background(), coupon.ValidationRequest{Code: "SAVE10"})

	require.Error(t, err)
	assert.Equal(t, int64(1), requests.Load())
}
