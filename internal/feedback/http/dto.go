package http

import (
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/feedback"
)

type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

type FeedbackResponse struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func NewFeedbackResponse(f *feedback.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:        f.ID,
		BookingID: f.BookingID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
}
