package database

import (
	"testing"

	"github.com/iliyamo/bus-seat-booking/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{DBUser: "app", DBHost: "db", DBPort: "3306", DBName: "bus_booking"}
	want := "app@tcp(db:3306)/bus_booking?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := DSN(cfg); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	cfg.DBPass = "secret"
	want = "app:secret@tcp(db:3306)/bus_booking?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := DSN(cfg); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
