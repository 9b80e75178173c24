package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-booking/internal/handler"
	"github.com/iliyamo/bus-seat-booking/internal/middleware"
	"github.com/iliyamo/bus-seat-booking/internal/utils"
)

// RegisterSelection registers the booking flow.  POST /v1/sessions is open
// and hands out the bearer token; every other route requires it and is
// rate limited per session.
func RegisterSelection(e *echo.Echo, h *handler.SelectionHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.POST("/v1/sessions", h.CreateSession, limiter)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleGuest),
		limiter,
	)
	g.GET("/selection", h.GetSelection)
	g.DELETE("/selection", h.Reset)
	g.GET("/selection/seats", h.GetSeatStatuses)
	g.POST("/selection/seats/:seat", h.ToggleSeat)
	g.POST("/selection/coupon", h.ApplyCoupon)
	g.POST("/selection/confirm", h.Confirm)
	g.POST("/selection/complete", h.Complete)
	g.GET("/bookings/:reference", h.GetBooking)
}
