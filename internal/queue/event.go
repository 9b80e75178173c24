// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingQueueName is the durable queue carrying completed bookings.
const BookingQueueName = "booking.confirmed"

// SeatLine is one seat of a completed booking.
type SeatLine struct {
	Seat      string `json:"seat"`
	FareClass string `json:"class"`
	Price     int    `json:"price"`
}

// BookingConfirmedEvent is published when a visitor completes the
// confirmation flow.  It carries the full summary so consumers never need
// to look anything up.
type BookingConfirmedEvent struct {
	Reference     string     `json:"reference"`
	SessionID     string     `json:"session_id"`
	Seats         []SeatLine `json:"seats"`
	CouponApplied bool       `json:"coupon_applied"`
	Currency      string     `json:"currency"`
	Subtotal      int        `json:"subtotal"`
	Discount      int        `json:"discount"`
	Total         int        `json:"total"`
	ConfirmedAt   string     `json:"confirmed_at"`
}
