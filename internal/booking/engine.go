// Package booking implements the seat selection and pricing state machine
// behind the bus-ticket booking page. An Engine owns one visitor's selection:
// which seats are picked, in which order, and whether a coupon is active.
// Every mutation either completes or fails without touching the state.
package booking

import (
	"errors"
	"strings"
	"sync"
)

// Mode is the coupon state of an engine. The only transition is
// NoCoupon -> CouponApplied; Reset is the way back.
type Mode int

const (
	NoCoupon Mode = iota
	CouponApplied
)

func (m Mode) String() string {
	if m == CouponApplied {
		return "coupon_applied"
	}
	return "no_coupon"
}

// Totals are the derived summary values shown next to the seat grid.
type Totals struct {
	SelectedCount int `json:"selected_count"`
	Subtotal      int `json:"subtotal"`
	Discount      int `json:"discount"`
	Total         int `json:"total"`
	TotalSeats    int `json:"total_seats"`
	Remaining     int `json:"remaining"`
}

// Snapshot is an immutable copy of the selection handed to the
// confirmation flow.
type Snapshot struct {
	Seats         []Seat `json:"seats"`
	CouponApplied bool   `json:"coupon_applied"`
	Totals        Totals `json:"totals"`
}

// CouponResult describes an accepted coupon.
type CouponResult struct {
	Code            string `json:"code"`
	DiscountPerSeat int    `json:"discount_per_seat"`
}

// Engine is safe for concurrent use; a single mutex guards the selection.
type Engine struct {
	rules Rules
	grid  *Grid

	// checkout serialises Checkout calls; mu guards the selection.
	checkout sync.Mutex
	mu       sync.Mutex
	selected []Seat
	mode     Mode
	coupon   string
}

// NewEngine returns an engine with an empty selection and no coupon.
func NewEngine(rules Rules, grid *Grid) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, errors.New("booking: nil grid")
	}
	return &Engine{rules: rules, grid: grid}, nil
}

// Rules returns the engine's pricing and capacity rules.
func (e *Engine) Rules() Rules { return e.rules }

// Grid returns the seat grid the engine validates against.
func (e *Engine) Grid() *Grid { return e.grid }

// ToggleSeat deselects id when it is selected, otherwise selects it at the
// end of the selection. Selection fails with *CapacityExceededError once the
// active limit is reached. The returned status is the seat's new state.
func (e *Engine) ToggleSeat(id string) (SeatStatus, error) {
	if !e.grid.Has(id) {
		return "", ErrUnknownSeat
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if i := e.indexOf(id); i >= 0 {
		e.selected = append(e.selected[:i], e.selected[i+1:]...)
		return SeatAvailable, nil
	}
	limit := e.rules.Limit(e.mode)
	if len(e.selected) >= limit {
		return SeatAvailable, &CapacityExceededError{Limit: limit, CouponApplied: e.mode == CouponApplied}
	}
	e.selected = append(e.selected, Seat{ID: id, FareClass: FareClassEconomy, Price: e.rules.SeatPrice})
	return SeatSelected, nil
}

// ApplyCoupon activates the per-seat discount for any non-blank code. It is
// rejected when more than MaxSeatsWithCoupon seats are selected; exactly at
// the limit is accepted. Applying again is a no-op success.
func (e *Engine) ApplyCoupon(raw string) (CouponResult, error) {
	code := strings.TrimSpace(raw)
	if code == "" {
		return CouponResult{}, ErrEmptyCouponCode
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.selected) > e.rules.MaxSeatsWithCoupon {
		return CouponResult{}, &TooManySeatsForCouponError{Max: e.rules.MaxSeatsWithCoupon}
	}
	e.mode = CouponApplied
	e.coupon = code
	return CouponResult{Code: code, DiscountPerSeat: e.rules.CouponDiscount}, nil
}

// Totals computes the summary values for the current selection.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalsLocked()
}

// Confirm returns a snapshot for review. It does not change or close the
// selection.
func (e *Engine) Confirm() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.selected) == 0 {
		return Snapshot{}, ErrNoSeatsSelected
	}
	seats := make([]Seat, len(e.selected))
	copy(seats, e.selected)
	return Snapshot{
		Seats:         seats,
		CouponApplied: e.mode == CouponApplied,
		Totals:        e.totalsLocked(),
	}, nil
}

// Reset clears the selection and the coupon.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = nil
	e.mode = NoCoupon
	e.coupon = ""
}

// Checkout passes a snapshot of the selection to finalize and, once
// finalize returns nil, releases the snapshot's seats and its coupon from
// the engine. Checkouts on one engine run one at a time, so a second
// checkout of the same selection finds it gone and fails with
// ErrNoSeatsSelected. Seats selected while finalize runs stay selected.
// finalize runs without the state lock and may use the engine.
func (e *Engine) Checkout(finalize func(Snapshot) error) (Snapshot, error) {
	e.checkout.Lock()
	defer e.checkout.Unlock()

	snap, err := e.Confirm()
	if err != nil {
		return Snapshot{}, err
	}
	if err := finalize(snap); err != nil {
		return Snapshot{}, err
	}
	e.release(snap)
	return snap, nil
}

func (e *Engine) release(snap Snapshot) {
	booked := make(map[string]struct{}, len(snap.Seats))
	for _, s := range snap.Seats {
		booked[s.ID] = struct{}{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	var kept []Seat
	for _, s := range e.selected {
		if _, ok := booked[s.ID]; !ok {
			kept = append(kept, s)
		}
	}
	e.selected = kept
	if snap.CouponApplied {
		e.mode = NoCoupon
		e.coupon = ""
	}
}

// State is a consistent copy of the whole selection, taken under one lock.
type State struct {
	Seats  []Seat
	Mode   Mode
	Coupon string
	Totals Totals
}

// State returns the selection, mode, coupon and totals together.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	seats := make([]Seat, len(e.selected))
	copy(seats, e.selected)
	return State{Seats: seats, Mode: e.mode, Coupon: e.coupon, Totals: e.totalsLocked()}
}

// Mode reports whether a coupon is active.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Coupon returns the accepted coupon code, empty in NoCoupon mode.
func (e *Engine) Coupon() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.coupon
}

// Selected returns a copy of the selection in selection order.
func (e *Engine) Selected() []Seat {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Seat, len(e.selected))
	copy(out, e.selected)
	return out
}

// Status reports whether id is currently selected.
func (e *Engine) Status(id string) (SeatStatus, error) {
	if !e.grid.Has(id) {
		return "", ErrUnknownSeat
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOf(id) >= 0 {
		return SeatSelected, nil
	}
	return SeatAvailable, nil
}

// Statuses returns the status of every grid seat keyed by seat id.
func (e *Engine) Statuses() map[string]SeatStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]SeatStatus, e.grid.Len())
	for _, id := range e.grid.ids {
		out[id] = SeatAvailable
	}
	for _, s := range e.selected {
		out[s.ID] = SeatSelected
	}
	return out
}

func (e *Engine) indexOf(id string) int {
	for i, s := range e.selected {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) totalsLocked() Totals {
	t := Totals{SelectedCount: len(e.selected), TotalSeats: e.grid.Len()}
	for _, s := range e.selected {
		t.Subtotal += s.Price
	}
	if e.mode == CouponApplied {
		t.Discount = t.SelectedCount * e.rules.CouponDiscount
	}
	t.Total = t.Subtotal - t.Discount
	t.Remaining = t.TotalSeats - t.SelectedCount
	return t
}
