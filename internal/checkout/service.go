// Package checkout runs the confirmation flow: review the selection, then
// finalize a mock booking and release the booked seats from the engine.
package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/bus-seat-booking/internal/booking"
	"github.com/iliyamo/bus-seat-booking/internal/logger"
	"github.com/iliyamo/bus-seat-booking/internal/queue"
	"github.com/iliyamo/bus-seat-booking/internal/repository"
)

// Recorder persists completed bookings.
type Recorder interface {
	Create(ctx context.Context, b *repository.BookingRecord) error
}

// Publisher announces completed bookings.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Receipt is returned to the visitor once a booking is complete.
type Receipt struct {
	Reference   string           `json:"reference"`
	Snapshot    booking.Snapshot `json:"summary"`
	ConfirmedAt time.Time        `json:"confirmed_at"`
}

// Service is safe for concurrent use.  Recorder and Publisher are optional.
type Service struct {
	recorder  Recorder
	publisher Publisher
	logger    *logger.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

func WithRecorder(r Recorder) Option   { return func(s *Service) { s.recorder = r } }
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Review returns the snapshot shown on the confirmation screen.
func (s *Service) Review(eng *booking.Engine) (booking.Snapshot, error) {
	return eng.Confirm()
}

// Complete finalizes the booking for the given session.  The snapshot is
// recorded first; a recording failure leaves the selection untouched so
// the visitor can retry.  Publishing is best effort.  On success the
// booked seats and the coupon are released from the engine; seats picked
// while the booking was being recorded stay selected.
func (s *Service) Complete(ctx context.Context, sessionID string, eng *booking.Engine) (Receipt, error) {
	log := s.logger.WithSession(sessionID)
	currency := eng.Rules().Currency
	var receipt Receipt

	snap, err := eng.Checkout(func(snap booking.Snapshot) error {
		ref, err := newReference()
		if err != nil {
			return fmt.Errorf("booking reference: %w", err)
		}
		now := s.now()

		if s.recorder != nil {
			rec := toRecord(ref, sessionID, currency, snap, now)
			if err := s.recorder.Create(ctx, rec); err != nil {
				log.WithError(err).Error("booking not recorded", slog.String("reference", ref))
				return fmt.Errorf("record booking: %w", err)
			}
		}
		if s.publisher != nil {
			ev := toEvent(ref, sessionID, currency, snap, now)
			if err := s.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
				log.WithError(err).Warn("booking event not published", slog.String("reference", ref))
			}
		}
		receipt = Receipt{Reference: ref, ConfirmedAt: now}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}
	receipt.Snapshot = snap

	log.Info("booking completed",
		slog.String("reference", receipt.Reference),
		slog.Int("seats", len(snap.Seats)),
		slog.Int("total", snap.Totals.Total))
	return receipt, nil
}

func toRecord(ref, sessionID, currency string, snap booking.Snapshot, at time.Time) *repository.BookingRecord {
	seats := make([]repository.BookingSeatRecord, len(snap.Seats))
	for i, st := range snap.Seats {
		seats[i] = repository.BookingSeatRecord{SeatLabel: st.ID, FareClass: st.FareClass, Price: st.Price, Position: i + 1}
	}
	return &repository.BookingRecord{
		Reference:     ref,
		SessionID:     sessionID,
		CouponApplied: snap.CouponApplied,
		Currency:      currency,
		Subtotal:      snap.Totals.Subtotal,
		Discount:      snap.Totals.Discount,
		Total:         snap.Totals.Total,
		CreatedAt:     at,
		Seats:         seats,
	}
}

func toEvent(ref, sessionID, currency string, snap booking.Snapshot, at time.Time) queue.BookingConfirmedEvent {
	lines := make([]queue.SeatLine, len(snap.Seats))
	for i, st := range snap.Seats {
		lines[i] = queue.SeatLine{Seat: st.ID, FareClass: st.FareClass, Price: st.Price}
	}
	return queue.BookingConfirmedEvent{
		Reference:     ref,
		SessionID:     sessionID,
		Seats:         lines,
		CouponApplied: snap.CouponApplied,
		Currency:      currency,
		Subtotal:      snap.Totals.Subtotal,
		Discount:      snap.Totals.Discount,
		Total:         snap.Totals.Total,
		ConfirmedAt:   at.Format(time.RFC3339),
	}
}

func newReference() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "BK-" + strings.ToUpper(hex.EncodeToString(b)), nil
}
