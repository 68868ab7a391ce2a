package shelter

import (
	"net/http"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "shelter not found")
	ErrUnavailable = apperror.New(http.StatusServiceUnavailable, "shelter directory unavailable")
)

// HoursClosed is the sentinel value for a weekday the shelter does not open.
const HoursClosed = "Closed"

// Shelter represents an adoption shelter with its visiting hours.
// Hours is keyed by weekday name ("Monday".."Sunday"); a value is either
// HoursClosed or a range like "09:00 AM - 06:00 PM". A missing entry means
// the shelter is treated as open for the full slot template (see booking
// package for the default policy).
type Shelter struct {
	ID        string
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Hours     map[string]string
	CreatedAt time.Time
}

// HoursFor returns the operating-hours entry for the weekday of date.
// Returns an empty string when no entry exists for that weekday.
func (s *Shelter) HoursFor(date time.Time) string {
	return s.Hours[date.Weekday().String()]
}

// Filter defines parameters for listing shelters.
type Filter struct {
	Search string // substring match on name or address

	// Origin, when set, sorts results by distance from this coordinate.
	Origin *Coordinate

	Page     int
	PageSize int
}

// Coordinate is a WGS84 point used for distance sorting.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}
