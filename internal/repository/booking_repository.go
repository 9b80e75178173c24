package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBookingNotFound is returned when no booking matches a reference.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRecord mirrors the bookings table.  A booking is the mock
// purchase written when a visitor completes the confirmation flow.
type BookingRecord struct {
	ID            uint64
	Reference     string
	SessionID     string
	CouponApplied bool
	Currency      string
	Subtotal      int
	Discount      int
	Total         int
	CreatedAt     time.Time
	Seats         []BookingSeatRecord
}

// BookingSeatRecord mirrors the booking_seats table.  Position keeps the
// order in which the seats were selected.
type BookingSeatRecord struct {
	SeatLabel string
	FareClass string
	Price     int
	Position  int
}

// BookingRepo stores completed bookings.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create writes the booking and its seats in one transaction and fills in
// the generated ID.  Nothing is written when any statement fails.
func (r *BookingRepo) Create(ctx context.Context, b *BookingRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := r.CreateTx(ctx, tx, b); err != nil {
		return err
	}
	if err := r.CreateSeatsBulkTx(ctx, tx, b.ID, b.Seats); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

// CreateTx inserts the bookings row inside an existing transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *BookingRecord) error {
	const q = `INSERT INTO bookings (reference, session_id, coupon_applied, currency, subtotal, discount, total, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx, q, b.Reference, b.SessionID, b.CouponApplied, b.Currency,
		b.Subtotal, b.Discount, b.Total, b.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = uint64(id)
	return nil
}

// CreateSeatsBulkTx inserts all seats of a booking in a single statement.
// An empty slice is a no-op.
func (r *BookingRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, bookingID uint64, seats []BookingSeatRecord) error {
	if len(seats) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO booking_seats (booking_id, seat_label, fare_class, price, position) VALUES `)
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, bookingID, s.SeatLabel, s.FareClass, s.Price, s.Position)
	}
	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert booking seats: %w", err)
	}
	return nil
}

// GetByReference loads a booking and its seats.  The session id must match
// the one that created the booking; otherwise ErrForbidden is returned.
func (r *BookingRepo) GetByReference(ctx context.Context, reference, sessionID string) (*BookingRecord, error) {
	const q = `SELECT id, reference, session_id, coupon_applied, currency, subtotal, discount, total, created_at
               FROM bookings WHERE reference = ? LIMIT 1`
	var b BookingRecord
	err := r.db.QueryRowContext(ctx, q, reference).Scan(
		&b.ID, &b.Reference, &b.SessionID, &b.CouponApplied, &b.Currency,
		&b.Subtotal, &b.Discount, &b.Total, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.SessionID != sessionID {
		return nil, ErrForbidden
	}

	const qs = `SELECT seat_label, fare_class, price, position FROM booking_seats
                WHERE booking_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, qs, b.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s BookingSeatRecord
		if err := rows.Scan(&s.SeatLabel, &s.FareClass, &s.Price, &s.Position); err != nil {
			return nil, err
		}
		b.Seats = append(b.Seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &b, nil
}
