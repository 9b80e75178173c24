package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-seat-booking/internal/booking"
	"github.com/iliyamo/bus-seat-booking/internal/checkout"
	"github.com/iliyamo/bus-seat-booking/internal/middleware"
	"github.com/iliyamo/bus-seat-booking/internal/repository"
	"github.com/iliyamo/bus-seat-booking/internal/session"
	"github.com/iliyamo/bus-seat-booking/internal/utils"
)

// BookingReader looks up completed bookings.  It is nil when no database
// is configured.
type BookingReader interface {
	GetByReference(ctx context.Context, reference, sessionID string) (*repository.BookingRecord, error)
}

// SelectionHandler serves the seat grid, the coupon form, the summary
// panel and the confirmation flow for one visitor at a time.  The visitor
// is identified by the session id in their bearer token.
type SelectionHandler struct {
	Sessions  *session.Store
	Checkout  *checkout.Service
	Bookings  BookingReader
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *slog.Logger
}

// NewSelectionHandler wires the handler.  Sessions and Checkout are
// required; bookings may be nil.
func NewSelectionHandler(sessions *session.Store, svc *checkout.Service, bookings BookingReader, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *SelectionHandler {
	if sessions == nil || svc == nil || logger == nil {
		panic("nil dependency passed to NewSelectionHandler")
	}
	return &SelectionHandler{
		Sessions:  sessions,
		Checkout:  svc,
		Bookings:  bookings,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
		Logger:    logger,
	}
}

// CreateSession handles POST /v1/sessions.  It starts an empty selection
// and returns a bearer token bound to it.
func (h *SelectionHandler) CreateSession(c echo.Context) error {
	sess, err := h.Sessions.Create()
	if err != nil {
		return h.writeDomainError(c, err)
	}
	tok, err := utils.NewSessionToken(h.JWTSecret, sess.ID, h.TokenTTL)
	if err != nil {
		h.Sessions.Delete(sess.ID)
		return h.writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"session_id": sess.ID,
		"token":      tok.Token,
		"expires":    tok.Exp,
		"selection":  newSelectionView(sess.Engine),
	})
}

// engine resolves the caller's engine from the session id in the token.
func (h *SelectionHandler) engine(c echo.Context) (*booking.Engine, error) {
	sess, err := h.Sessions.Get(middleware.SessionID(c))
	if err != nil {
		return nil, err
	}
	return sess.Engine, nil
}

// GetSelection handles GET /v1/selection and returns the summary panel.
func (h *SelectionHandler) GetSelection(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newSelectionView(eng))
}

// GetSeatStatuses handles GET /v1/selection/seats.  Seats come back in
// grid order with their available/selected status.
func (h *SelectionHandler) GetSeatStatuses(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	statuses := eng.Statuses()
	type seatStatus struct {
		Seat   string             `json:"seat"`
		Status booking.SeatStatus `json:"status"`
	}
	ids := eng.Grid().IDs()
	items := make([]seatStatus, len(ids))
	for i, id := range ids {
		items[i] = seatStatus{Seat: id, Status: statuses[id]}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ToggleSeat handles POST /v1/selection/seats/:seat.  The response carries
// the seat's new status so the grid can restyle one button, plus the
// refreshed summary.
func (h *SelectionHandler) ToggleSeat(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	seatID := strings.ToUpper(strings.TrimSpace(c.Param("seat")))
	status, err := eng.ToggleSeat(seatID)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seat":      seatID,
		"status":    status,
		"selection": newSelectionView(eng),
	})
}

type couponReq struct {
	Code string `json:"code"`
}

// ApplyCoupon handles POST /v1/selection/coupon with {"code": "..."}.
func (h *SelectionHandler) ApplyCoupon(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	var req couponReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
	}
	res, err := eng.ApplyCoupon(req.Code)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	r := eng.Rules()
	return c.JSON(http.StatusOK, echo.Map{
		"message":           "Coupon applied: " + r.Money(res.DiscountPerSeat) + " off per ticket",
		"code":              res.Code,
		"discount_per_seat": res.DiscountPerSeat,
		"selection":         newSelectionView(eng),
	})
}

// Confirm handles POST /v1/selection/confirm and returns the review
// screen.  The selection stays open.
func (h *SelectionHandler) Confirm(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	snap, err := h.Checkout.Review(eng)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newSnapshotView(eng.Rules(), snap))
}

// Complete handles POST /v1/selection/complete.  It finalizes the mock
// booking and resets the selection for the next one.
func (h *SelectionHandler) Complete(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	receipt, err := h.Checkout.Complete(ctx, middleware.SessionID(c), eng)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reference":    receipt.Reference,
		"confirmed_at": receipt.ConfirmedAt.Format(time.RFC3339),
		"summary":      newSnapshotView(eng.Rules(), receipt.Snapshot),
		"selection":    newSelectionView(eng),
	})
}

// Reset handles DELETE /v1/selection.
func (h *SelectionHandler) Reset(c echo.Context) error {
	eng, err := h.engine(c)
	if err != nil {
		return h.writeDomainError(c, err)
	}
	eng.Reset()
	return c.JSON(http.StatusOK, newSelectionView(eng))
}

// GetBooking handles GET /v1/bookings/:reference.  Only the session that
// completed a booking can read it back.
func (h *SelectionHandler) GetBooking(c echo.Context) error {
	if h.Bookings == nil {
		return writeError(c, http.StatusServiceUnavailable, codeUnavailable, "booking history is not enabled")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Bookings.GetByReference(ctx, c.Param("reference"), middleware.SessionID(c))
	if err != nil {
		return h.writeDomainError(c, err)
	}
	seats := make([]echo.Map, len(b.Seats))
	for i, s := range b.Seats {
		seats[i] = echo.Map{"seat": s.SeatLabel, "class": s.FareClass, "price": s.Price}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reference":      b.Reference,
		"coupon_applied": b.CouponApplied,
		"currency":       b.Currency,
		"subtotal":       b.Subtotal,
		"discount":       b.Discount,
		"total":          b.Total,
		"total_display":  booking.FormatMoney(b.Currency, b.Total),
		"created_at":     b.CreatedAt.UTC().Format(time.RFC3339),
		"seats":          seats,
	})
}
