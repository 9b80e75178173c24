package booking

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	grid, err := NewGrid("ABCDEFGHIJ", 4)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	e, err := NewEngine(DefaultRules(), grid)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func mustToggle(t *testing.T, e *Engine, id string, want SeatStatus) {
	t.Helper()
	got, err := e.ToggleSeat(id)
	if err != nil {
		t.Fatalf("ToggleSeat(%s): unexpected error %v", id, err)
	}
	if got != want {
		t.Fatalf("ToggleSeat(%s): expected %s, got %s", id, want, got)
	}
}

func seatIDs(seats []Seat) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.ID
	}
	return out
}

func TestEngine_ToggleSeat(t *testing.T) {
	t.Parallel()

	t.Run("fills up to the no coupon limit", func(t *testing.T) {
		e := newTestEngine(t)
		for _, id := range []string{"A1", "A2", "A3", "A4"} {
			mustToggle(t, e, id, SeatSelected)
		}
		if got := e.Totals().SelectedCount; got != 4 {
			t.Fatalf("expected 4 selected, got %d", got)
		}

		status, err := e.ToggleSeat("A5")
		var capErr *CapacityExceededError
		if !errors.As(err, &capErr) {
			t.Fatalf("expected CapacityExceededError, got %v", err)
		}
		if capErr.Limit != 4 || capErr.CouponApplied {
			t.Fatalf("expected limit 4 without coupon, got %+v", capErr)
		}
		if !errors.Is(err, ErrCapacityExceeded) {
			t.Fatalf("expected errors.Is ErrCapacityExceeded")
		}
		if status != SeatAvailable {
			t.Fatalf("expected rejected seat to stay available, got %s", status)
		}
		if got := fmt.Sprint(seatIDs(e.Selected())); got != "[A1 A2 A3 A4]" {
			t.Fatalf("selection changed after rejection: %s", got)
		}
	})

	t.Run("deselect keeps order of the rest", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "B2", SeatSelected)
		mustToggle(t, e, "A1", SeatSelected)
		mustToggle(t, e, "C3", SeatSelected)
		mustToggle(t, e, "A1", SeatAvailable)
		if got := fmt.Sprint(seatIDs(e.Selected())); got != "[B2 C3]" {
			t.Fatalf("expected [B2 C3], got %s", got)
		}
	})

	t.Run("deselect always succeeds at the limit", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "A1", SeatSelected)
		mustToggle(t, e, "A2", SeatSelected)
		if _, err := e.ApplyCoupon("SAVE100"); err != nil {
			t.Fatalf("ApplyCoupon: %v", err)
		}
		mustToggle(t, e, "A1", SeatAvailable)
	})

	t.Run("coupon limit applies to new selections", func(t *testing.T) {
		e := newTestEngine(t)
		if _, err := e.ApplyCoupon("SAVE100"); err != nil {
			t.Fatalf("ApplyCoupon: %v", err)
		}
		mustToggle(t, e, "A1", SeatSelected)
		mustToggle(t, e, "A2", SeatSelected)
		_, err := e.ToggleSeat("A3")
		var capErr *CapacityExceededError
		if !errors.As(err, &capErr) {
			t.Fatalf("expected CapacityExceededError, got %v", err)
		}
		if capErr.Limit != 2 || !capErr.CouponApplied {
			t.Fatalf("expected limit 2 with coupon, got %+v", capErr)
		}
		if capErr.Error() != "Maximum 2 seats allowed with coupon" {
			t.Fatalf("unexpected message %q", capErr.Error())
		}
	})

	t.Run("unknown seat is rejected", func(t *testing.T) {
		e := newTestEngine(t)
		if _, err := e.ToggleSeat("Z9"); !errors.Is(err, ErrUnknownSeat) {
			t.Fatalf("expected ErrUnknownSeat, got %v", err)
		}
		if got := e.Totals().SelectedCount; got != 0 {
			t.Fatalf("expected empty selection, got %d", got)
		}
	})

	t.Run("new seats take the configured price and fare class", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "D4", SeatSelected)
		got := e.Selected()[0]
		want := Seat{ID: "D4", FareClass: "Economy", Price: 550}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})
}

func TestEngine_DoubleToggleRestoresMembership(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	mustToggle(t, e, "A1", SeatSelected)
	for _, id := range []string{"A1", "B1"} {
		before, _ := e.Status(id)
		if _, err := e.ToggleSeat(id); err != nil {
			t.Fatalf("first toggle %s: %v", id, err)
		}
		if _, err := e.ToggleSeat(id); err != nil {
			t.Fatalf("second toggle %s: %v", id, err)
		}
		after, _ := e.Status(id)
		if before != after {
			t.Fatalf("%s: expected %s after double toggle, got %s", id, before, after)
		}
	}
}

func TestEngine_ApplyCoupon(t *testing.T) {
	t.Parallel()

	t.Run("accepted exactly at the coupon limit", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "A1", SeatSelected)
		mustToggle(t, e, "A2", SeatSelected)

		res, err := e.ApplyCoupon("SAVE100")
		if err != nil {
			t.Fatalf("expected coupon to apply, got %v", err)
		}
		if res.DiscountPerSeat != 100 || res.Code != "SAVE100" {
			t.Fatalf("unexpected result %+v", res)
		}
		want := Totals{SelectedCount: 2, Subtotal: 1100, Discount: 200, Total: 900, TotalSeats: 40, Remaining: 38}
		if got := e.Totals(); got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("rejected above the coupon limit", func(t *testing.T) {
		e := newTestEngine(t)
		for _, id := range []string{"A1", "A2", "A3"} {
			mustToggle(t, e, id, SeatSelected)
		}
		_, err := e.ApplyCoupon("X")
		var tooMany *TooManySeatsForCouponError
		if !errors.As(err, &tooMany) || tooMany.Max != 2 {
			t.Fatalf("expected TooManySeatsForCouponError{2}, got %v", err)
		}
		if !errors.Is(err, ErrTooManySeatsForCoupon) {
			t.Fatalf("expected errors.Is ErrTooManySeatsForCoupon")
		}
		if e.Mode() != NoCoupon {
			t.Fatalf("expected mode to stay %s", NoCoupon)
		}
		want := Totals{SelectedCount: 3, Subtotal: 1650, Discount: 0, Total: 1650, TotalSeats: 40, Remaining: 37}
		if got := e.Totals(); got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("blank code", func(t *testing.T) {
		e := newTestEngine(t)
		for _, raw := range []string{"", "   ", "\t\n"} {
			if _, err := e.ApplyCoupon(raw); !errors.Is(err, ErrEmptyCouponCode) {
				t.Fatalf("ApplyCoupon(%q): expected ErrEmptyCouponCode, got %v", raw, err)
			}
		}
		if e.Mode() != NoCoupon {
			t.Fatalf("expected no coupon")
		}
	})

	t.Run("code is trimmed and reapplying is a no-op", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "A1", SeatSelected)
		if _, err := e.ApplyCoupon("  SAVE  "); err != nil {
			t.Fatalf("ApplyCoupon: %v", err)
		}
		if e.Coupon() != "SAVE" {
			t.Fatalf("expected trimmed code, got %q", e.Coupon())
		}
		if _, err := e.ApplyCoupon("OTHER"); err != nil {
			t.Fatalf("second ApplyCoupon: %v", err)
		}
		if e.Mode() != CouponApplied || len(e.Selected()) != 1 {
			t.Fatalf("unexpected state after reapply: mode=%s seats=%d", e.Mode(), len(e.Selected()))
		}
	})
}

func TestEngine_Confirm(t *testing.T) {
	t.Parallel()

	t.Run("empty selection", func(t *testing.T) {
		e := newTestEngine(t)
		if _, err := e.Confirm(); !errors.Is(err, ErrNoSeatsSelected) {
			t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
		}
	})

	t.Run("snapshot is detached from the engine", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "A1", SeatSelected)
		mustToggle(t, e, "A2", SeatSelected)
		snap, err := e.Confirm()
		if err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		snap.Seats[0].ID = "mutated"
		mustToggle(t, e, "A3", SeatSelected)

		if len(snap.Seats) != 2 || snap.Totals.Total != 1100 {
			t.Fatalf("snapshot changed: %+v", snap)
		}
		if e.Selected()[0].ID != "A1" {
			t.Fatalf("engine changed through snapshot")
		}
	})
}

func TestEngine_Reset(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	mustToggle(t, e, "A1", SeatSelected)
	if _, err := e.ApplyCoupon("SAVE"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	e.Reset()
	if len(e.Selected()) != 0 || e.Mode() != NoCoupon || e.Coupon() != "" {
		t.Fatalf("reset left state behind: seats=%v mode=%s", e.Selected(), e.Mode())
	}
	for i, id := range []string{"A1", "A2", "A3", "A4"} {
		if _, err := e.ToggleSeat(id); err != nil {
			t.Fatalf("seat %d after reset: %v", i, err)
		}
	}
}

// TestEngine_RandomWalk drives random operations and checks the invariants
// after every step.
func TestEngine_RandomWalk(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	ids := e.Grid().IDs()
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 5000; step++ {
		switch n := rng.Intn(100); {
		case n < 80:
			before := len(e.Selected())
			_, err := e.ToggleSeat(ids[rng.Intn(len(ids))])
			if err != nil && len(e.Selected()) != before {
				t.Fatalf("step %d: failed toggle changed selection", step)
			}
		case n < 95:
			before := len(e.Selected())
			_, _ = e.ApplyCoupon("C")
			if len(e.Selected()) != before {
				t.Fatalf("step %d: coupon changed selection size", step)
			}
		default:
			e.Reset()
		}

		st := e.State()
		seats := st.Seats
		if st.Mode == NoCoupon && len(seats) > 4 {
			t.Fatalf("step %d: %d seats without coupon", step, len(seats))
		}
		if st.Mode == CouponApplied && len(seats) > 2 {
			t.Fatalf("step %d: %d seats with coupon", step, len(seats))
		}
		seen := map[string]bool{}
		sum := 0
		for _, s := range seats {
			if seen[s.ID] {
				t.Fatalf("step %d: duplicate seat %s", step, s.ID)
			}
			seen[s.ID] = true
			sum += s.Price
		}
		tot := st.Totals
		want := sum
		if st.Mode == CouponApplied {
			want -= len(seats) * 100
		}
		if tot.Total != want || tot.SelectedCount != len(seats) {
			t.Fatalf("step %d: totals %+v inconsistent with %d seats", step, tot, len(seats))
		}
	}
}

func TestEngine_Statuses(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	mustToggle(t, e, "C2", SeatSelected)
	st := e.Statuses()
	if len(st) != 40 {
		t.Fatalf("expected 40 statuses, got %d", len(st))
	}
	if st["C2"] != SeatSelected || st["C3"] != SeatAvailable {
		t.Fatalf("unexpected statuses C2=%s C3=%s", st["C2"], st["C3"])
	}
	if _, err := e.Status("nope"); !errors.Is(err, ErrUnknownSeat) {
		t.Fatalf("expected ErrUnknownSeat, got %v", err)
	}
}

func TestEngine_State(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	mustToggle(t, e, "A1", SeatSelected)
	if _, err := e.ApplyCoupon("SAVE"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	st := e.State()
	if len(st.Seats) != 1 || st.Mode != CouponApplied || st.Coupon != "SAVE" || st.Totals.Total != 450 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestEngine_Checkout(t *testing.T) {
	t.Parallel()

	t.Run("failed finalize keeps the selection", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "A1", SeatSelected)
		if _, err := e.ApplyCoupon("SAVE"); err != nil {
			t.Fatalf("ApplyCoupon: %v", err)
		}
		boom := errors.New("boom")
		if _, err := e.Checkout(func(Snapshot) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("expected finalize error, got %v", err)
		}
		if len(e.Selected()) != 1 || e.Mode() != CouponApplied {
			t.Fatalf("selection changed after failed checkout")
		}
	})

	t.Run("releases only the booked seats", func(t *testing.T) {
		e := newTestEngine(t)
		mustToggle(t, e, "A1", SeatSelected)
		mustToggle(t, e, "A2", SeatSelected)
		if _, err := e.ApplyCoupon("SAVE"); err != nil {
			t.Fatalf("ApplyCoupon: %v", err)
		}
		snap, err := e.Checkout(func(Snapshot) error {
			mustToggle(t, e, "A2", SeatAvailable)
			mustToggle(t, e, "B1", SeatSelected)
			return nil
		})
		if err != nil {
			t.Fatalf("Checkout: %v", err)
		}
		if len(snap.Seats) != 2 || !snap.CouponApplied || snap.Totals.Total != 900 {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
		left := e.Selected()
		if len(left) != 1 || left[0].ID != "B1" || e.Mode() != NoCoupon {
			t.Fatalf("expected only B1 left without coupon, got %+v mode %s", left, e.Mode())
		}
		if _, err := e.Checkout(func(Snapshot) error { return nil }); err != nil {
			t.Fatalf("Checkout B1: %v", err)
		}
		if _, err := e.Checkout(func(Snapshot) error { return nil }); !errors.Is(err, ErrNoSeatsSelected) {
			t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
		}
	})
}
