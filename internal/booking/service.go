package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pet"
	"github.com/pawmates/shelter-visit-backend/internal/pkg/metrics"
	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

// CreateRequest carries data to book a visit. UserName is taken from the
// identity token and denormalized onto the booking for staff search.
type CreateRequest struct {
	UserID    string
	UserName  string
	PetID     string
	ShelterID string
	VisitDate time.Time
	TimeSlot  string
}

type Service interface {
	// AvailableSlots returns the bookable slots for a shelter-day, in
	// template order. A read-then-create race is possible; Create closes it.
	AvailableSlots(ctx context.Context, shelterID string, date time.Time) ([]string, error)

	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string, requesterID string, isStaff bool) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	ListForStaff(ctx context.Context, filter Filter) ([]*Booking, int, error)

	Confirm(ctx context.Context, id string, requesterID string, isStaff bool) (*Booking, error)
	Cancel(ctx context.Context, id string, requesterID string, isStaff bool) (*Booking, error)

	// AdvanceVisit drives the staff-facing visit state machine strictly
	// forward: CONFIRMED -> CHECKED_OUT -> {RETURNED | NO_SHOW}.
	AdvanceVisit(ctx context.Context, id string, next VisitStatus, staffID string) (*Booking, error)

	// AddNote attaches a staff note in any non-terminal state.
	// Notes are last-write-wins per booking.
	AddNote(ctx context.Context, id string, text string) (*Booking, error)
}

type service struct {
	repo           Repository
	shelterService shelter.Service
	petService     pet.Service
}

func NewService(repo Repository, shelterService shelter.Service, petService pet.Service) Service {
	return &service{
		repo:           repo,
		shelterService: shelterService,
		petService:     petService,
	}
}

// dateOnly truncates t to UTC midnight. Visit dates have no time-of-day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) AvailableSlots(ctx context.Context, shelterID string, date time.Time) ([]string, error) {
	sh, err := s.shelterService.GetByID(ctx, shelterID)
	if err != nil {
		if errors.Is(err, shelter.ErrNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, err
	}

	day := dateOnly(date)
	claimed, err := s.repo.ClaimedSlots(ctx, shelterID, day)
	if err != nil {
		return nil, err
	}

	return AvailableSlots(sh.HoursFor(day), claimed), nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	day := dateOnly(req.VisitDate)
	if day.Before(dateOnly(time.Now().UTC())) {
		return nil, ErrDateInPast
	}
	if !IsTemplateSlot(req.TimeSlot) {
		return nil, ErrInvalidSlot
	}

	if _, err := s.petService.GetByID(ctx, req.PetID); err != nil {
		if errors.Is(err, pet.ErrNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}

	sh, err := s.shelterService.GetByID(ctx, req.ShelterID)
	if err != nil {
		if errors.Is(err, shelter.ErrNotFound) {
			return nil, ErrShelterNotFound
		}
		return nil, err
	}

	// Slot must fall within the shelter's hours for that weekday. Claimed
	// slots are deliberately not re-checked here; the conditional insert in
	// the repository is the only guard against double booking.
	if !slotIn(AvailableSlots(sh.HoursFor(day), nil), req.TimeSlot) {
		return nil, ErrInvalidSlot
	}

	b := &Booking{
		PetID:     req.PetID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		ShelterID: req.ShelterID,
		VisitDate: day,
		TimeSlot:  req.TimeSlot,
		Status:    StatusPending,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			metrics.SlotConflicts.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	return s.repo.GetByID(ctx, b.ID)
}

func (s *service) GetByID(ctx context.Context, id string, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && b.UserID != requesterID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListForStaff(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	filter.DateFrom = dateOnly(filter.DateFrom)
	filter.DateTo = dateOnly(filter.DateTo)
	return s.repo.List(ctx, filter)
}

func (s *service) Confirm(ctx context.Context, id string, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && b.UserID != requesterID {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.Confirm(ctx, id); err != nil {
		return nil, err
	}
	metrics.VisitTransitions.WithLabelValues(string(VisitConfirmed)).Inc()
	return s.repo.GetByID(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id string, requesterID string, isStaff bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && b.UserID != requesterID {
		return nil, ErrPermissionDenied
	}

	// Cancelling an already-cancelled booking is a no-op that returns the
	// current record. Once the visit has advanced past CONFIRMED the
	// booking can no longer be cancelled.
	if b.Status == StatusCancelled {
		return b, nil
	}
	if b.VisitStatus != nil && *b.VisitStatus != VisitConfirmed {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.Cancel(ctx, id); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			// Lost the race to another cancel; keep the call idempotent.
			if cur, getErr := s.repo.GetByID(ctx, id); getErr == nil && cur.Status == StatusCancelled {
				return cur, nil
			}
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) AdvanceVisit(ctx context.Context, id string, next VisitStatus, staffID string) (*Booking, error) {
	if !next.Valid() {
		return nil, ErrInvalidTransition
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed || b.VisitStatus == nil {
		return nil, ErrInvalidTransition
	}
	if !CanAdvance(*b.VisitStatus, next) {
		return nil, ErrInvalidTransition
	}

	// The expected-current-state predicate serializes concurrent staff
	// actions on the same booking.
	if err := s.repo.SetVisitStatus(ctx, id, *b.VisitStatus, next); err != nil {
		return nil, err
	}

	metrics.VisitTransitions.WithLabelValues(string(next)).Inc()
	log.Printf("visit %s advanced %s -> %s by staff %s", id, *b.VisitStatus, next, staffID)

	return s.repo.GetByID(ctx, id)
}

func (s *service) AddNote(ctx context.Context, id string, text string) (*Booking, error) {
	if err := s.repo.SetNote(ctx, id, text); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func slotIn(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
