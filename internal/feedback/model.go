package feedback

import (
	"net/http"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "feedback not found")
	ErrAlreadySubmitted  = apperror.New(http.StatusConflict, "feedback already submitted for this booking")
	ErrVisitNotCompleted = apperror.New(http.StatusConflict, "feedback requires a returned visit")
	ErrInvalidRating     = apperror.New(http.StatusBadRequest, "rating must be between 1 and 5")
)

// RewardAction is the ledger action recorded when feedback earns points.
const RewardAction = "visit_feedback"

// Feedback is a visitor's review of a completed visit, at most one per
// booking. Submitting it is what credits the rewards ledger.
type Feedback struct {
	ID        string
	BookingID string
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
