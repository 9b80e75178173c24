package booking

import (
	"fmt"
	"strconv"
)

// Rules holds the pricing and capacity constants for a deployment.
type Rules struct {
	SeatPrice          int    // base price per seat, whole currency units
	CouponDiscount     int    // amount taken off every seat once a coupon is applied
	MaxSeatsNoCoupon   int    // selection cap without a coupon
	MaxSeatsWithCoupon int    // selection cap once a coupon is applied
	Currency           string // three letter display prefix, e.g. BDT
}

// DefaultRules returns the values used by the booking page.
func DefaultRules() Rules {
	return Rules{
		SeatPrice:          550,
		CouponDiscount:     100,
		MaxSeatsNoCoupon:   4,
		MaxSeatsWithCoupon: 2,
		Currency:           "BDT",
	}
}

// Validate checks the rule set is internally consistent.
func (r Rules) Validate() error {
	switch {
	case r.SeatPrice <= 0:
		return fmt.Errorf("rules: seat price must be positive, got %d", r.SeatPrice)
	case r.CouponDiscount < 0:
		return fmt.Errorf("rules: coupon discount must not be negative, got %d", r.CouponDiscount)
	case r.MaxSeatsWithCoupon < 1:
		return fmt.Errorf("rules: max seats with coupon must be at least 1, got %d", r.MaxSeatsWithCoupon)
	case r.MaxSeatsWithCoupon > r.MaxSeatsNoCoupon:
		return fmt.Errorf("rules: max seats with coupon (%d) exceeds max seats without coupon (%d)",
			r.MaxSeatsWithCoupon, r.MaxSeatsNoCoupon)
	case !isCurrencyCode(r.Currency):
		return fmt.Errorf("rules: currency must be a three letter code, got %q", r.Currency)
	}
	return nil
}

// Limit is the selection cap for the given mode.
func (r Rules) Limit(m Mode) int {
	if m == CouponApplied {
		return r.MaxSeatsWithCoupon
	}
	return r.MaxSeatsNoCoupon
}

// Money renders amount with the rule set's currency prefix.
func (r Rules) Money(amount int) string { return FormatMoney(r.Currency, amount) }

// FormatMoney renders whole currency units as "BDT 900".
func FormatMoney(currency string, amount int) string {
	return currency + " " + strconv.Itoa(amount)
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
