package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-booking/internal/booking"
)

// PublicHandler serves data that is the same for every visitor.
type PublicHandler struct {
	Rules booking.Rules
	Grid  *booking.Grid
}

func NewPublicHandler(rules booking.Rules, grid *booking.Grid) *PublicHandler {
	return &PublicHandler{Rules: rules, Grid: grid}
}

// GetLayout handles GET /v1/seats/layout: the seat rows plus fare and
// coupon terms.  The response is cacheable.
func (h *PublicHandler) GetLayout(c echo.Context) error {
	r := h.Rules
	return c.JSON(http.StatusOK, echo.Map{
		"rows":        h.Grid.Rows(),
		"total_seats": h.Grid.Len(),
		"fare": echo.Map{
			"class":         booking.FareClassEconomy,
			"price":         r.SeatPrice,
			"price_display": r.Money(r.SeatPrice),
			"currency":      r.Currency,
		},
		"coupon": echo.Map{
			"discount_per_seat":     r.CouponDiscount,
			"max_seats_with_coupon": r.MaxSeatsWithCoupon,
		},
		"max_seats": r.MaxSeatsNoCoupon,
	})
}
