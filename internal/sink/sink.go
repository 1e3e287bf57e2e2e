// Package sink holds the applied-discount record the rest of the UI reads.
// The engine writes the promotion layer, the coupon validator writes the
// coupon layer, and nothing else mutates it.
package sink

import (
	"sync"

	"github.com/dukerupert/gersemi/internal/domain"
)

// Sink is the shared applied-discount state. Single writer per layer,
// multiple readers.
type Sink struct {
	mu sync.RWMutex

	promotionTotal int64
	promotions     []domain.AppliedPromotion

	couponCode     string
	couponDiscount int64
}

// New creates an empty sink.
func New() *Sink {
	return &Sink{}
}

// SetPromotions overwrites the promotion layer with this cycle's result.
func (s *Sink) SetPromotions(applied []domain.AppliedPromotion, totalCents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions = applied
	s.promotionTotal = totalCents
}

// ClearPromotions removes any applied promotion.
func (s *Sink) ClearPromotions() {
	s.SetPromotions(nil, 0)
}

// SetCoupon overwrites the coupon layer.
func (s *Sink) SetCoupon(code string, discountCents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.couponCode = code
	s.couponDiscount = discountCents
}

// ClearCoupon removes any applied coupon discount.
func (s *Sink) ClearCoupon() {
	s.SetCoupon("", 0)
}

// Snapshot returns the combined resolved discount record.
func (s *Sink) Snapshot() domain.AppliedDiscount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	promos := make([]domain.AppliedPromotion, len(s.promotions))
	copy(promos, s.promotions)

	return domain.AppliedDiscount{
		PromotionTotalCents: s.promotionTotal,
		Promotions:          promos,
		CouponCode:          s.couponCode,
		CouponDiscountCents: s.couponDiscount,
		TotalCents:          s.promotionTotal + s.couponDiscount,
	}
}
