package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-booking/internal/booking"
	"github.com/iliyamo/bus-seat-booking/internal/repository"
	"github.com/iliyamo/bus-seat-booking/internal/session"
)

// Error codes returned next to the human-readable message.  Messages of
// the booking errors are shown to the visitor as-is.
const (
	codeCapacityExceeded      = "capacity_exceeded"
	codeEmptyCouponCode       = "empty_coupon_code"
	codeTooManySeatsForCoupon = "too_many_seats_for_coupon"
	codeNoSeatsSelected       = "no_seats_selected"
	codeUnknownSeat           = "unknown_seat"
	codeSessionNotFound       = "session_not_found"
	codeBookingNotFound       = "booking_not_found"
	codeInvalidRequestBody    = "invalid_request_body"
	codeForbidden             = "forbidden"
	codeUnavailable           = "unavailable"
	codeInternalError         = "internal_error"
)

func writeError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, echo.Map{"error": msg, "code": code})
}

// writeDomainError maps engine, session and repository errors to HTTP
// responses.  Anything unrecognised is logged and reported as a 500.
func (h *SelectionHandler) writeDomainError(c echo.Context, err error) error {
	var capErr *booking.CapacityExceededError
	var couponErr *booking.TooManySeatsForCouponError
	switch {
	case errors.As(err, &capErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          capErr.Error(),
			"code":           codeCapacityExceeded,
			"limit":          capErr.Limit,
			"coupon_applied": capErr.CouponApplied,
		})
	case errors.As(err, &couponErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": couponErr.Error(),
			"code":  codeTooManySeatsForCoupon,
			"max":   couponErr.Max,
		})
	case errors.Is(err, booking.ErrEmptyCouponCode):
		return writeError(c, http.StatusBadRequest, codeEmptyCouponCode, "Enter coupon code")
	case errors.Is(err, booking.ErrNoSeatsSelected):
		return writeError(c, http.StatusBadRequest, codeNoSeatsSelected, "Please select at least one seat.")
	case errors.Is(err, booking.ErrUnknownSeat):
		return writeError(c, http.StatusNotFound, codeUnknownSeat, "seat not found")
	case errors.Is(err, session.ErrSessionNotFound):
		return writeError(c, http.StatusUnauthorized, codeSessionNotFound, "session expired, start a new booking")
	case errors.Is(err, repository.ErrBookingNotFound):
		return writeError(c, http.StatusNotFound, codeBookingNotFound, "booking not found")
	case errors.Is(err, repository.ErrForbidden):
		return writeError(c, http.StatusForbidden, codeForbidden, "forbidden")
	}
	h.Logger.Error("request failed", "path", c.Path(), "error", err)
	return writeError(c, http.StatusInternalServerError, codeInternalError, "internal error")
}
