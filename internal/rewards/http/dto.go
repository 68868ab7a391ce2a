package http

import (
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/rewards"
)

type LedgerResponse struct {
	UserID    string          `json:"user_id"`
	Points    int             `json:"points"`
	Level     int             `json:"level"`
	History   []EntryResponse `json:"history"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type EntryResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLedgerResponse(l *rewards.Ledger, entries []*rewards.Entry) LedgerResponse {
	history := make([]EntryResponse, len(entries))
	for i, e := range entries {
		history[i] = EntryResponse{
			ID:        e.ID,
			Action:    e.Action,
			Points:    e.Points,
			CreatedAt: e.CreatedAt,
		}
	}

	resp := LedgerResponse{
		UserID:  l.UserID,
		Points:  l.Points,
		Level:   l.Level(),
		History: history,
	}
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}
