// Package repository holds the MySQL persistence for completed bookings.
package repository

import "errors"

// ErrForbidden is returned when the caller asks for a booking that belongs
// to another session.  Handlers translate it into a 403 response.
var ErrForbidden = errors.New("forbidden")
