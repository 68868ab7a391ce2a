package booking

import (
	"net/http"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrSlotConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "invalid visit state transition")
	ErrInvalidSlot       = apperror.New(http.StatusBadRequest, "time slot is not bookable on this date")
	ErrDateInPast        = apperror.New(http.StatusBadRequest, "cannot book a visit in the past")
	ErrMissingDateRange  = apperror.New(http.StatusBadRequest, "date_from and date_to are required")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "date_from must not be after date_to")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrPetNotFound       = apperror.New(http.StatusNotFound, "pet not found")
	ErrShelterNotFound   = apperror.New(http.StatusNotFound, "shelter not found")
)

// Status is the booking-level lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// VisitStatus is the staff-facing operational state of a confirmed booking
// on the day of the visit. RETURNED and NO_SHOW are terminal.
type VisitStatus string

const (
	VisitConfirmed  VisitStatus = "CONFIRMED"
	VisitCheckedOut VisitStatus = "CHECKED_OUT"
	VisitReturned   VisitStatus = "RETURNED"
	VisitNoShow     VisitStatus = "NO_SHOW"
)

// Valid reports whether v is one of the known visit states.
func (v VisitStatus) Valid() bool {
	switch v {
	case VisitConfirmed, VisitCheckedOut, VisitReturned, VisitNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transition is accepted from v.
func (v VisitStatus) Terminal() bool {
	return v == VisitReturned || v == VisitNoShow
}

// visitTransitions lists the allowed forward steps of the visit state machine.
// Anything not listed here (backward moves, skips, moves out of a terminal
// state) is rejected with ErrInvalidTransition.
var visitTransitions = map[VisitStatus][]VisitStatus{
	VisitConfirmed:  {VisitCheckedOut},
	VisitCheckedOut: {VisitReturned, VisitNoShow},
}

// CanAdvance reports whether the visit state machine allows cur -> next.
func CanAdvance(cur, next VisitStatus) bool {
	for _, allowed := range visitTransitions[cur] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Booking is a scheduled in-person visit to meet a pet at a shelter.
// Pet, user and shelter names are denormalized on read for display and
// free-text search.
type Booking struct {
	ID          string
	PetID       string
	PetName     string
	UserID      string
	UserName    string
	ShelterID   string
	ShelterName string
	VisitDate   time.Time // date-only, UTC midnight
	TimeSlot    string
	Status      Status
	VisitStatus *VisitStatus // nil until the booking is confirmed
	StaffNote   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
