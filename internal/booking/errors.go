package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors for the user-correctable failures of the engine. Each one
// leaves the selection exactly as it was.
var (
	ErrCapacityExceeded      = errors.New("capacity exceeded")
	ErrEmptyCouponCode       = errors.New("enter coupon code")
	ErrTooManySeatsForCoupon = errors.New("too many seats for coupon")
	ErrNoSeatsSelected       = errors.New("please select at least one seat")
	ErrUnknownSeat           = errors.New("unknown seat")
)

// CapacityExceededError is returned by ToggleSeat when the selection is
// already at the active limit.
type CapacityExceededError struct {
	Limit         int
	CouponApplied bool
}

func (e *CapacityExceededError) Error() string {
	if e.CouponApplied {
		return fmt.Sprintf("Maximum %d seats allowed with coupon", e.Limit)
	}
	return fmt.Sprintf("Maximum %d seats allowed", e.Limit)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrCapacityExceeded }

// TooManySeatsForCouponError is returned by ApplyCoupon when more seats are
// selected than a coupon allows.
type TooManySeatsForCouponError struct {
	Max int
}

func (e *TooManySeatsForCouponError) Error() string {
	return fmt.Sprintf("Coupon allows maximum %d seats", e.Max)
}

func (e *TooManySeatsForCouponError) Is(target error) bool { return target == ErrTooManySeatsForCoupon }
