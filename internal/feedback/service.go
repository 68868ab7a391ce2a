package feedback

import (
	"context"
	"fmt"
	"log"

	"github.com/pawmates/shelter-visit-backend/internal/booking"
	"github.com/pawmates/shelter-visit-backend/internal/rewards"
)

// SubmitRequest carries a visitor's feedback for a completed visit.
type SubmitRequest struct {
	BookingID string
	UserID    string
	Rating    int
	Comment   string
}

// BookingGetter is the slice of the booking service this package needs.
type BookingGetter interface {
	GetByID(ctx context.Context, id string, requesterID string, isStaff bool) (*booking.Booking, error)
}

type Service interface {
	// Submit records feedback for a booking whose visit reached RETURNED and
	// credits the rewards ledger exactly once. Resubmission fails with
	// ErrAlreadySubmitted and credits nothing.
	Submit(ctx context.Context, req SubmitRequest) (*Feedback, error)

	// GetByBookingID returns the booking's feedback, visible to the booking
	// owner and staff only.
	GetByBookingID(ctx context.Context, bookingID string, requesterID string, isStaff bool) (*Feedback, error)
}

type service struct {
	repo           Repository
	bookings       BookingGetter
	rewardsService rewards.Service
	rewardPoints   int
}

func NewService(repo Repository, bookings BookingGetter, rewardsService rewards.Service, rewardPoints int) Service {
	return &service{
		repo:           repo,
		bookings:       bookings,
		rewardsService: rewardsService,
		rewardPoints:   rewardPoints,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	b, err := s.bookings.GetByID(ctx, req.BookingID, req.UserID, false)
	if err != nil {
		return nil, err
	}
	if b.VisitStatus == nil || *b.VisitStatus != booking.VisitReturned {
		return nil, ErrVisitNotCompleted
	}

	f := &Feedback{
		BookingID: req.BookingID,
		UserID:    req.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	// The insert is the idempotency barrier: only the first submission per
	// booking reaches the credit below.
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	action := fmt.Sprintf("%s:%s", RewardAction, req.BookingID)
	if _, err := s.rewardsService.CreditPoints(ctx, req.UserID, s.rewardPoints, action); err != nil {
		// The feedback record stands; the missed credit needs operator
		// attention rather than an automatic retry that could double-pay.
		log.Printf("reward credit failed for booking %s: %v", req.BookingID, err)
		return nil, err
	}

	return f, nil
}

func (s *service) GetByBookingID(ctx context.Context, bookingID string, requesterID string, isStaff bool) (*Feedback, error) {
	// The booking lookup enforces owner-or-staff access.
	if _, err := s.bookings.GetByID(ctx, bookingID, requesterID, isStaff); err != nil {
		return nil, err
	}
	return s.repo.GetByBookingID(ctx, bookingID)
}
