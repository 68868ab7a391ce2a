package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/shelter-visit-backend/internal/booking"
	"github.com/pawmates/shelter-visit-backend/internal/rewards"
)

type fakeBookings struct {
	bookings map[string]*booking.Booking
}

func (f *fakeBookings) GetByID(_ context.Context, id string, requesterID string, isStaff bool) (*booking.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	if !isStaff && b.UserID != requesterID {
		return nil, booking.ErrPermissionDenied
	}
	return b, nil
}

type memRepo struct {
	byBooking map[string]*Feedback
}

func newMemRepo() *memRepo {
	return &memRepo{byBooking: make(map[string]*Feedback)}
}

func (r *memRepo) Create(_ context.Context, f *Feedback) error {
	if _, ok := r.byBooking[f.BookingID]; ok {
		return ErrAlreadySubmitted
	}
	f.ID = "feedback-" + f.BookingID
	f.CreatedAt = time.Now().UTC()
	stored := *f
	r.byBooking[f.BookingID] = &stored
	return nil
}

func (r *memRepo) GetByBookingID(_ context.Context, bookingID string) (*Feedback, error) {
	f, ok := r.byBooking[bookingID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *f
	return &copied, nil
}

// fakeRewards records every credit so tests can assert at-most-once.
type fakeRewards struct {
	credits []creditCall
	err     error
}

type creditCall struct {
	userID string
	amount int
	action string
}

func (f *fakeRewards) CreditPoints(_ context.Context, userID string, amount int, action string) (*rewards.Ledger, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.credits = append(f.credits, creditCall{userID: userID, amount: amount, action: action})
	return &rewards.Ledger{UserID: userID, Points: amount}, nil
}

func (f *fakeRewards) GetLedger(_ context.Context, userID string) (*rewards.Ledger, error) {
	return &rewards.Ledger{UserID: userID}, nil
}

func (f *fakeRewards) History(_ context.Context, _ string) ([]*rewards.Entry, error) {
	return nil, nil
}

func visitStatus(s booking.VisitStatus) *booking.VisitStatus { return &s }

func newTestService(visit *booking.VisitStatus) (Service, *fakeRewards, *memRepo) {
	bookings := &fakeBookings{bookings: map[string]*booking.Booking{
		"booking-1": {
			ID:          "booking-1",
			UserID:      "user-1",
			Status:      booking.StatusConfirmed,
			VisitStatus: visit,
		},
	}}
	repo := newMemRepo()
	rw := &fakeRewards{}
	return NewService(repo, bookings, rw, 50), rw, repo
}

func TestSubmitCreditsOnce(t *testing.T) {
	svc, rw, _ := newTestService(visitStatus(booking.VisitReturned))
	ctx := context.Background()

	f, err := svc.Submit(ctx, SubmitRequest{
		BookingID: "booking-1",
		UserID:    "user-1",
		Rating:    5,
		Comment:   "Biscuit was a delight",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, f.Rating)

	require.Len(t, rw.credits, 1)
	assert.Equal(t, "user-1", rw.credits[0].userID)
	assert.Equal(t, 50, rw.credits[0].amount)
	assert.Equal(t, "visit_feedback:booking-1", rw.credits[0].action)
}

func TestSubmitTwiceDoesNotDoubleCredit(t *testing.T) {
	svc, rw, _ := newTestService(visitStatus(booking.VisitReturned))
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitRequest{BookingID: "booking-1", UserID: "user-1", Rating: 5})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, SubmitRequest{BookingID: "booking-1", UserID: "user-1", Rating: 4})
	assert.True(t, errors.Is(err, ErrAlreadySubmitted))

	// Exactly one credit despite the resubmission.
	assert.Len(t, rw.credits, 1)
}

func TestSubmitRequiresReturnedVisit(t *testing.T) {
	tests := []struct {
		name  string
		visit *booking.VisitStatus
	}{
		{"no visit yet", nil},
		{"confirmed", visitStatus(booking.VisitConfirmed)},
		{"checked out", visitStatus(booking.VisitCheckedOut)},
		{"no show", visitStatus(booking.VisitNoShow)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, rw, _ := newTestService(tt.visit)

			_, err := svc.Submit(context.Background(), SubmitRequest{
				BookingID: "booking-1",
				UserID:    "user-1",
				Rating:    5,
			})
			assert.True(t, errors.Is(err, ErrVisitNotCompleted))
			assert.Empty(t, rw.credits)
		})
	}
}

func TestSubmitValidatesRating(t *testing.T) {
	svc, rw, _ := newTestService(visitStatus(booking.VisitReturned))
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(ctx, SubmitRequest{BookingID: "booking-1", UserID: "user-1", Rating: rating})
		assert.True(t, errors.Is(err, ErrInvalidRating), "rating=%d", rating)
	}
	assert.Empty(t, rw.credits)
}

func TestSubmitRejectsForeignBooking(t *testing.T) {
	svc, rw, _ := newTestService(visitStatus(booking.VisitReturned))

	_, err := svc.Submit(context.Background(), SubmitRequest{
		BookingID: "booking-1",
		UserID:    "user-2",
		Rating:    5,
	})
	assert.True(t, errors.Is(err, booking.ErrPermissionDenied))
	assert.Empty(t, rw.credits)
}

func TestGetByBookingID(t *testing.T) {
	svc, _, _ := newTestService(visitStatus(booking.VisitReturned))
	ctx := context.Background()

	_, err := svc.GetByBookingID(ctx, "booking-1", "user-1", false)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Submit(ctx, SubmitRequest{BookingID: "booking-1", UserID: "user-1", Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	f, err := svc.GetByBookingID(ctx, "booking-1", "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Rating)
	assert.Equal(t, "ok", f.Comment)
}

func TestGetByBookingIDRequiresOwnerOrStaff(t *testing.T) {
	svc, _, _ := newTestService(visitStatus(booking.VisitReturned))
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitRequest{BookingID: "booking-1", UserID: "user-1", Rating: 4})
	require.NoError(t, err)

	// Another user's token must not read the booking's feedback.
	_, err = svc.GetByBookingID(ctx, "booking-1", "user-2", false)
	assert.True(t, errors.Is(err, booking.ErrPermissionDenied))

	// Staff may.
	f, err := svc.GetByBookingID(ctx, "booking-1", "staff-1", true)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Rating)
}
