package handler

import "github.com/iliyamo/bus-seat-booking/internal/booking"

// seatView is one row of the selection summary.
type seatView struct {
	Seat         string `json:"seat"`
	FareClass    string `json:"class"`
	Price        int    `json:"price"`
	PriceDisplay string `json:"price_display"`
}

// displayView carries the summary amounts already formatted as "BDT 900".
type displayView struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// selectionView is what the summary panel renders after every action.
type selectionView struct {
	Seats         []seatView     `json:"seats"`
	Mode          string         `json:"mode"`
	CouponApplied bool           `json:"coupon_applied"`
	Coupon        string         `json:"coupon,omitempty"`
	Limit         int            `json:"limit"`
	Totals        booking.Totals `json:"totals"`
	Display       displayView    `json:"display"`
}

// snapshotView is the confirmation screen.
type snapshotView struct {
	Seats         []seatView     `json:"seats"`
	CouponApplied bool           `json:"coupon_applied"`
	Totals        booking.Totals `json:"totals"`
	Display       displayView    `json:"display"`
}

func seatViews(r booking.Rules, seats []booking.Seat) []seatView {
	out := make([]seatView, len(seats))
	for i, s := range seats {
		out[i] = seatView{Seat: s.ID, FareClass: s.FareClass, Price: s.Price, PriceDisplay: r.Money(s.Price)}
	}
	return out
}

func displayOf(r booking.Rules, t booking.Totals) displayView {
	return displayView{Subtotal: r.Money(t.Subtotal), Discount: r.Money(t.Discount), Total: r.Money(t.Total)}
}

func newSelectionView(eng *booking.Engine) selectionView {
	r := eng.Rules()
	st := eng.State()
	return selectionView{
		Seats:         seatViews(r, st.Seats),
		Mode:          st.Mode.String(),
		CouponApplied: st.Mode == booking.CouponApplied,
		Coupon:        st.Coupon,
		Limit:         r.Limit(st.Mode),
		Totals:        st.Totals,
		Display:       displayOf(r, st.Totals),
	}
}

func newSnapshotView(r booking.Rules, s booking.Snapshot) snapshotView {
	return snapshotView{
		Seats:         seatViews(r, s.Seats),
		CouponApplied: s.CouponApplied,
		Totals:        s.Totals,
		Display:       displayOf(r, s.Totals),
	}
}
