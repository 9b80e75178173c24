package booking

import "testing"

func TestRules_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(r *Rules)
		wantErr bool
	}{
		{name: "defaults", mutate: func(r *Rules) {}},
		{name: "zero discount", mutate: func(r *Rules) { r.CouponDiscount = 0 }},
		{name: "equal limits", mutate: func(r *Rules) { r.MaxSeatsWithCoupon = r.MaxSeatsNoCoupon }},
		{name: "zero price", mutate: func(r *Rules) { r.SeatPrice = 0 }, wantErr: true},
		{name: "negative discount", mutate: func(r *Rules) { r.CouponDiscount = -1 }, wantErr: true},
		{name: "coupon limit above base limit", mutate: func(r *Rules) { r.MaxSeatsWithCoupon = 5 }, wantErr: true},
		{name: "coupon limit zero", mutate: func(r *Rules) { r.MaxSeatsWithCoupon = 0 }, wantErr: true},
		{name: "lowercase currency", mutate: func(r *Rules) { r.Currency = "bdt" }, wantErr: true},
		{name: "long currency", mutate: func(r *Rules) { r.Currency = "BDTX" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %+v", r)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	if got := FormatMoney("BDT", 900); got != "BDT 900" {
		t.Fatalf("expected BDT 900, got %q", got)
	}
	if got := DefaultRules().Money(0); got != "BDT 0" {
		t.Fatalf("expected BDT 0, got %q", got)
	}
}

func TestGrid(t *testing.T) {
	t.Parallel()

	g, err := NewGrid("ab", 3)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Len() != 6 || !g.Has("B3") || g.Has("C1") || g.Has("b1") {
		t.Fatalf("unexpected grid %v", g.IDs())
	}
	rows := g.Rows()
	if len(rows) != 2 || rows[1].Label != "B" || len(rows[1].Seats) != 3 {
		t.Fatalf("unexpected rows %+v", rows)
	}

	if _, err := NewGrid("", 4); err == nil {
		t.Fatalf("expected error for empty rows")
	}
	if _, err := NewGrid("A", 0); err == nil {
		t.Fatalf("expected error for zero seats per row")
	}
	if _, err := NewGridFromIDs([]string{"A1", "A1"}); err == nil {
		t.Fatalf("expected error for duplicate ids")
	}
}
