package booking

import (
	"strings"
	"time"
)

// Filter defines parameters for the staff booking query. DateFrom and DateTo
// are both required; unscoped queries are rejected. All provided dimensions
// are ANDed together; the status set uses OR semantics.
type Filter struct {
	UserID    string
	ShelterID string
	DateFrom  time.Time
	DateTo    time.Time // inclusive
	Statuses  []Status
	Search    string // matches pet name, user name, or booking id
	Page      int
	PageSize  int
}

// Validate enforces the required date scope.
func (f Filter) Validate() error {
	if f.DateFrom.IsZero() || f.DateTo.IsZero() {
		return ErrMissingDateRange
	}
	if f.DateFrom.After(f.DateTo) {
		return ErrInvalidDateRange
	}
	return nil
}

// Matches is the pure predicate the repository query mirrors. It exists so
// the filter semantics are testable without a database.
func (f Filter) Matches(b *Booking) bool {
	if f.UserID != "" && b.UserID != f.UserID {
		return false
	}
	if f.ShelterID != "" && b.ShelterID != f.ShelterID {
		return false
	}
	if b.VisitDate.Before(f.DateFrom) || b.VisitDate.After(f.DateTo) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if b.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(b.PetName), needle) &&
			!strings.Contains(strings.ToLower(b.UserName), needle) &&
			!strings.Contains(strings.ToLower(b.ID), needle) {
			return false
		}
	}
	return true
}
