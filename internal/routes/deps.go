package routes

import (
	"github.com/dukerupert/gersemi/internal/handler"
)

// APIDeps holds all handler dependencies for the engine API.
type APIDeps struct {
	CartHandler       *handler.CartHandler
	PromotionsHandler *handler.PromotionsHandler
	DiscountsHandler  *handler.DiscountsHandler
	CouponHandler     *handler.CouponHandler
}
