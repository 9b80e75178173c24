package config

import (
	"fmt"
	"strings"

	"github.com/iliyamo/bus-seat-booking/internal/booking"
)

// BookingConfig holds the pricing rules and the seat layout of the bus.
type BookingConfig struct {
	Rules       booking.Rules
	SeatRows    string // one character per row, e.g. "ABCDEFGHIJ"
	SeatsPerRow int
}

// LoadBookingConfig reads SEAT_PRICE, COUPON_DISCOUNT, MAX_SEATS_NO_COUPON,
// MAX_SEATS_WITH_COUPON, CURRENCY, SEAT_ROWS and SEATS_PER_ROW.  Unset
// variables fall back to the booking page defaults.  The result is
// validated; an inconsistent rule set is reported as an error.
func LoadBookingConfig() (BookingConfig, error) {
	def := booking.DefaultRules()
	cfg := BookingConfig{
		Rules: booking.Rules{
			SeatPrice:          envInt("SEAT_PRICE", def.SeatPrice),
			CouponDiscount:     envInt("COUPON_DISCOUNT", def.CouponDiscount),
			MaxSeatsNoCoupon:   envInt("MAX_SEATS_NO_COUPON", def.MaxSeatsNoCoupon),
			MaxSeatsWithCoupon: envInt("MAX_SEATS_WITH_COUPON", def.MaxSeatsWithCoupon),
			Currency:           strings.ToUpper(envStr("CURRENCY", def.Currency)),
		},
		SeatRows:    envStr("SEAT_ROWS", "ABCDEFGHIJ"),
		SeatsPerRow: envInt("SEATS_PER_ROW", 4),
	}
	if err := cfg.Rules.Validate(); err != nil {
		return BookingConfig{}, fmt.Errorf("booking config: %w", err)
	}
	return cfg, nil
}

// Grid builds the seat grid described by the config.
func (c BookingConfig) Grid() (*booking.Grid, error) {
	return booking.NewGrid(c.SeatRows, c.SeatsPerRow)
}
