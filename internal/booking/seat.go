package booking

import (
	"fmt"
	"strings"
)

// FareClassEconomy is the only fare class sold on the booking page.
const FareClassEconomy = "Economy"

// Seat is a selected seat together with the price it was taken at.
// Seats are values; the engine copies them in and out.
type Seat struct {
	ID        string `json:"seat"`
	FareClass string `json:"class"`
	Price     int    `json:"price"`
}

// SeatStatus is the per-seat state reported back to the seat grid.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
)

// Grid is the fixed, ordered set of seat identifiers presented to the user.
// Seat ids are formed from a row label and a 1-based column number (A1, A2, ...).
type Grid struct {
	ids   []string
	index map[string]int
}

// NewGrid builds a grid with one row per character of rows and perRow seats
// in each row.
func NewGrid(rows string, perRow int) (*Grid, error) {
	rows = strings.ToUpper(strings.TrimSpace(rows))
	if rows == "" {
		return nil, fmt.Errorf("grid: no rows")
	}
	if perRow < 1 {
		return nil, fmt.Errorf("grid: seats per row must be positive, got %d", perRow)
	}
	ids := make([]string, 0, len(rows)*perRow)
	for _, r := range rows {
		for n := 1; n <= perRow; n++ {
			ids = append(ids, fmt.Sprintf("%c%d", r, n))
		}
	}
	return NewGridFromIDs(ids)
}

// NewGridFromIDs builds a grid from an explicit list of seat ids. Ids must be
// non-empty and unique.
func NewGridFromIDs(ids []string) (*Grid, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("grid: no seats")
	}
	g := &Grid{ids: make([]string, 0, len(ids)), index: make(map[string]int, len(ids))}
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("grid: empty seat id")
		}
		if _, dup := g.index[id]; dup {
			return nil, fmt.Errorf("grid: duplicate seat id %q", id)
		}
		g.index[id] = len(g.ids)
		g.ids = append(g.ids, id)
	}
	return g, nil
}

// Has reports whether id is a seat of this grid.
func (g *Grid) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// IDs returns the seat ids in grid order.
func (g *Grid) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Len is the total seat inventory.
func (g *Grid) Len() int { return len(g.ids) }

// Rows groups the seat ids by their row label, preserving grid order.
func (g *Grid) Rows() []Row {
	var rows []Row
	for _, id := range g.ids {
		label := rowLabel(id)
		if n := len(rows); n > 0 && rows[n-1].Label == label {
			rows[n-1].Seats = append(rows[n-1].Seats, id)
			continue
		}
		rows = append(rows, Row{Label: label, Seats: []string{id}})
	}
	return rows
}

// Row is one line of seats in the layout.
type Row struct {
	Label string   `json:"row"`
	Seats []string `json:"seats"`
}

func rowLabel(id string) string {
	i := strings.IndexAny(id, "0123456789")
	if i <= 0 {
		return id
	}
	return id[:i]
}
