package routes

import (
	"github.com/dukerupert/gersemi/internal/router"
)

// RegisterAPIRoutes registers the engine's JSON API.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Cart snapshot
	r.Get("/cart", deps.CartHandler.View)
	r.Put("/cart", deps.CartHandler.Replace)

	// Promotion display records + forced re-evaluation
	r.Get("/promotions", deps.PromotionsHandler.List)
	r.Post("/evaluate/refresh", deps.PromotionsHandler.Refresh)

	// Resolved discount record
	r.Get("/discounts", deps.DiscountsHandler.View)

	// Coupon state machine
	r.Get("/coupon", deps.CouponHandler.Status)
	r.Post("/coupon", deps.CouponHandler.Apply)
	r.Delete("/coupon", deps.CouponHandler.Remove)
}
