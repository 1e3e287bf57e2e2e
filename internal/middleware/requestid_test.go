package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/gersemi/internal/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var got string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/promotions", nil))

	require.NotEmpty(t, got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, got, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRequestID_HonorsValidInboundID(t *testing.T) {
	inbound := uuid.New().String()
	var got string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/promotions", nil)
	req.Header.Set(middleware.RequestIDHeader, inbound)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, inbound, got)
}

func TestRequestID_ReplacesNonUUIDInboundID(t *testing.T) {
	var got string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/promotions", nil)
	req.Header.Set(middleware.RequestIDHeader, "<script>alert(1)</script>")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, got)
	assert.NotEqual(t, "<script>alert(1)</script>", got)
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}
