package pet

import (
	"net/http"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "pet not found")
	ErrInvalidAvailability = apperror.New(http.StatusBadRequest, "invalid availability value")
	ErrEmptyName           = apperror.New(http.StatusBadRequest, "name cannot be empty")
)

type Availability string

const (
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilityHold      Availability = "HOLD"
	AvailabilityAdopted   Availability = "ADOPTED"
)

// Valid reports whether a is one of the known availability values.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityHold, AvailabilityAdopted:
		return true
	}
	return false
}

// Pet represents an adoptable animal listed by a shelter.
type Pet struct {
	ID            string
	ShelterID     string
	Name          string
	Species       string
	Breed         string
	AgeMonths     int
	Description   string
	Availability  Availability
	PhotoPath     *string
	ThumbnailPath *string
	CreatedAt     time.Time
}
