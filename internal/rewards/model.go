package rewards

import (
	"net/http"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

var (
	ErrInvalidAmount = apperror.New(http.StatusBadRequest, "credit amount must be positive")
)

// Ledger is a user's running rewards balance. The level is derived from the
// point total and never stored.
type Ledger struct {
	UserID    string
	Points    int
	UpdatedAt time.Time
}

// Level returns the rewards level for the current point total.
func (l *Ledger) Level() int {
	return l.Points/100 + 1
}

// Entry is one point-earning action. Entries are append-only; history is
// never rewritten.
type Entry struct {
	ID        string
	UserID    string
	Action    string
	Points    int
	CreatedAt time.Time
}
