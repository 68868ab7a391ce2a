package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawmates/shelter-visit-backend/internal/pet"
	"github.com/pawmates/shelter-visit-backend/internal/shelter"
)

// memRepo is an in-memory Repository with the same conditional-write
// semantics as the pgx implementation, including the active-slot
// uniqueness check on insert.
type memRepo struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*Booking
}

func newMemRepo() *memRepo {
	return &memRepo{bookings: make(map[string]*Booking)}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if existing.ShelterID == b.ShelterID &&
			existing.VisitDate.Equal(b.VisitDate) &&
			existing.TimeSlot == b.TimeSlot &&
			existing.Status != StatusCancelled {
			return ErrSlotConflict
		}
	}

	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt

	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(id)
}

func (r *memRepo) getLocked(id string) (*Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID string) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, nil
}

func (r *memRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		if filter.Matches(b) {
			copied := *b
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out, len(out), nil
}

func (r *memRepo) ClaimedSlots(_ context.Context, shelterID string, date time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []string
	for _, b := range r.bookings {
		if b.ShelterID == shelterID && b.VisitDate.Equal(date) && b.Status != StatusCancelled {
			slots = append(slots, b.TimeSlot)
		}
	}
	return slots, nil
}

func (r *memRepo) Confirm(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	b.Status = StatusConfirmed
	vs := VisitConfirmed
	b.VisitStatus = &vs
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) Cancel(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status == StatusCancelled {
		return ErrInvalidTransition
	}
	if b.VisitStatus != nil && *b.VisitStatus != VisitConfirmed {
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) SetVisitStatus(_ context.Context, id string, expected, next VisitStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != StatusConfirmed || b.VisitStatus == nil || *b.VisitStatus != expected {
		return ErrInvalidTransition
	}
	b.VisitStatus = &next
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memRepo) SetNote(_ context.Context, id string, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.VisitStatus != nil && b.VisitStatus.Terminal() {
		return ErrInvalidTransition
	}
	b.StaffNote = note
	b.UpdatedAt = time.Now().UTC()
	return nil
}

type stubShelterService struct {
	shelters map[string]*shelter.Shelter
}

func (s *stubShelterService) GetByID(_ context.Context, id string) (*shelter.Shelter, error) {
	sh, ok := s.shelters[id]
	if !ok {
		return nil, shelter.ErrNotFound
	}
	return sh, nil
}

func (s *stubShelterService) List(_ context.Context, _ shelter.Filter) ([]*shelter.Shelter, int, error) {
	return nil, 0, nil
}

type stubPetService struct {
	pets map[string]*pet.Pet
}

func (s *stubPetService) GetByID(_ context.Context, id string) (*pet.Pet, error) {
	p, ok := s.pets[id]
	if !ok {
		return nil, pet.ErrNotFound
	}
	return p, nil
}

func (s *stubPetService) List(_ context.Context, _ pet.Filter) ([]*pet.Pet, int, error) {
	return nil, 0, nil
}

func (s *stubPetService) Create(_ context.Context, _ pet.CreateRequest) (*pet.Pet, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPetService) UpdateAvailability(_ context.Context, _ string, _ pet.Availability) (*pet.Pet, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPetService) AttachPhoto(_ context.Context, _ string, _ *multipart.FileHeader) (*pet.Pet, error) {
	return nil, errors.New("not implemented")
}

func (s *stubPetService) Photo(_ context.Context, _ string, _ bool) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

const (
	testShelterID = "11111111-1111-1111-1111-111111111111"
	testPetID     = "22222222-2222-2222-2222-222222222222"
	testUserID    = "33333333-3333-3333-3333-333333333333"
)

func newTestService(t *testing.T) (Service, *memRepo) {
	t.Helper()

	shelters := &stubShelterService{shelters: map[string]*shelter.Shelter{
		testShelterID: {
			ID:   testShelterID,
			Name: "Maple Street Shelter",
			Hours: map[string]string{
				"Monday": "09:00 AM - 06:00 PM",
				"Sunday": "Closed",
			},
		},
	}}
	pets := &stubPetService{pets: map[string]*pet.Pet{
		testPetID: {ID: testPetID, ShelterID: testShelterID, Name: "Biscuit", Availability: pet.AvailabilityAvailable},
	}}

	repo := newMemRepo()
	return NewService(repo, shelters, pets), repo
}

// nextWeekday returns the next future date falling on the given weekday.
func nextWeekday(day time.Weekday) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func createRequest(visitDate time.Time, slot string) CreateRequest {
	return CreateRequest{
		UserID:    testUserID,
		UserName:  "Dana Reyes",
		PetID:     testPetID,
		ShelterID: testShelterID,
		VisitDate: visitDate,
		TimeSlot:  slot,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Nil(t, b.VisitStatus)
	assert.Equal(t, "10:00 AM", b.TimeSlot)
	assert.True(t, b.VisitDate.Equal(monday))
}

func TestCreateBookingValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)
	sunday := nextWeekday(time.Sunday)

	_, err := svc.Create(ctx, createRequest(time.Now().UTC().AddDate(0, 0, -1), "10:00 AM"))
	assert.True(t, errors.Is(err, ErrDateInPast))

	_, err = svc.Create(ctx, createRequest(monday, "10:30 AM"))
	assert.True(t, errors.Is(err, ErrInvalidSlot))

	// Sunday is "Closed": no slot is bookable.
	_, err = svc.Create(ctx, createRequest(sunday, "10:00 AM"))
	assert.True(t, errors.Is(err, ErrInvalidSlot))

	req := createRequest(monday, "10:00 AM")
	req.PetID = "44444444-4444-4444-4444-444444444444"
	_, err = svc.Create(ctx, req)
	assert.True(t, errors.Is(err, ErrPetNotFound))

	req = createRequest(monday, "10:00 AM")
	req.ShelterID = "55555555-5555-5555-5555-555555555555"
	_, err = svc.Create(ctx, req)
	assert.True(t, errors.Is(err, ErrShelterNotFound))
}

func TestCreateBookingSlotConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	_, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createRequest(monday, "10:00 AM"))
	assert.True(t, errors.Is(err, ErrSlotConflict))

	// A different slot on the same day is still free.
	_, err = svc.Create(ctx, createRequest(monday, "11:00 AM"))
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	const racers = 2
	errs := make(chan error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, createRequest(monday, "03:00 PM"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestAvailableSlotsRoundTripThroughService(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	before, err := svc.AvailableSlots(ctx, testShelterID, monday)
	require.NoError(t, err)
	require.Len(t, before, 10)

	_, err = svc.Create(ctx, createRequest(monday, before[0]))
	require.NoError(t, err)

	after, err := svc.AvailableSlots(ctx, testShelterID, monday)
	require.NoError(t, err)
	assert.NotContains(t, after, before[0])
	assert.Equal(t, before[1:], after)
}

func TestAvailableSlotsIgnoresCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, testUserID, false)
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(ctx, testShelterID, monday)
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00 AM")
}

func TestConfirmBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, b.ID, testUserID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.VisitStatus)
	assert.Equal(t, VisitConfirmed, *confirmed.VisitStatus)

	// Confirming twice fails: the booking is no longer pending.
	_, err = svc.Confirm(ctx, b.ID, testUserID, false)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestConfirmPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	// A different user's token must not confirm someone else's booking.
	_, err = svc.Confirm(ctx, b.ID, "someone-else", false)
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	// The booking is untouched.
	cur, err := svc.GetByID(ctx, b.ID, testUserID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, cur.Status)

	// Staff may confirm on the user's behalf.
	confirmed, err := svc.Confirm(ctx, b.ID, "staff-1", true)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
}

func TestCancelIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	first, err := svc.Cancel(ctx, b.ID, testUserID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, first.Status)

	// A second cancel is a no-op returning the current record.
	second, err := svc.Cancel(ctx, b.ID, testUserID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, second.Status)
}

func TestCancelPermissions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, b.ID, "someone-else", false)
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	// Staff may cancel on the user's behalf.
	_, err = svc.Cancel(ctx, b.ID, "staff-1", true)
	assert.NoError(t, err)
}

func mustAdvanceTo(t *testing.T, svc Service, id string, states ...VisitStatus) {
	t.Helper()
	ctx := context.Background()
	for _, st := range states {
		_, err := svc.AdvanceVisit(ctx, id, st, "staff-1")
		require.NoError(t, err)
	}
}

func createConfirmed(t *testing.T, svc Service, slot string) *Booking {
	t.Helper()
	ctx := context.Background()

	b, err := svc.Create(ctx, createRequest(nextWeekday(time.Monday), slot))
	require.NoError(t, err)
	confirmed, err := svc.Confirm(ctx, b.ID, testUserID, false)
	require.NoError(t, err)
	return confirmed
}

func TestAdvanceVisitHappyPath(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := createConfirmed(t, svc, "10:00 AM")
	mustAdvanceTo(t, svc, b.ID, VisitCheckedOut)

	final, err := svc.AdvanceVisit(ctx, b.ID, VisitReturned, "staff-1")
	require.NoError(t, err)
	require.NotNil(t, final.VisitStatus)
	assert.Equal(t, VisitReturned, *final.VisitStatus)
}

func TestAdvanceVisitRejectsSkip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := createConfirmed(t, svc, "10:00 AM")

	// CONFIRMED -> RETURNED skips CHECKED_OUT.
	_, err := svc.AdvanceVisit(ctx, b.ID, VisitReturned, "staff-1")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestAdvanceVisitRejectsFromTerminal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := createConfirmed(t, svc, "10:00 AM")
	mustAdvanceTo(t, svc, b.ID, VisitCheckedOut, VisitReturned)

	for _, next := range []VisitStatus{VisitConfirmed, VisitCheckedOut, VisitReturned, VisitNoShow} {
		_, err := svc.AdvanceVisit(ctx, b.ID, next, "staff-1")
		assert.True(t, errors.Is(err, ErrInvalidTransition), "transition to %s must fail", next)
	}
}

func TestAdvanceVisitRejectsPendingBooking(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	monday := nextWeekday(time.Monday)

	b, err := svc.Create(ctx, createRequest(monday, "10:00 AM"))
	require.NoError(t, err)

	_, err = svc.AdvanceVisit(ctx, b.ID, VisitCheckedOut, "staff-1")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestCancelAfterCheckOutRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := createConfirmed(t, svc, "10:00 AM")
	mustAdvanceTo(t, svc, b.ID, VisitCheckedOut)

	_, err := svc.Cancel(ctx, b.ID, testUserID, false)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestAddNote(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	b := createConfirmed(t, svc, "10:00 AM")

	noted, err := svc.AddNote(ctx, b.ID, "brought own leash")
	require.NoError(t, err)
	assert.Equal(t, "brought own leash", noted.StaffNote)

	// Notes are last-write-wins.
	noted, err = svc.AddNote(ctx, b.ID, "adopter asked about vaccination records")
	require.NoError(t, err)
	assert.Equal(t, "adopter asked about vaccination records", noted.StaffNote)

	// A note does not change status.
	assert.Equal(t, StatusConfirmed, noted.Status)
	require.NotNil(t, noted.VisitStatus)
	assert.Equal(t, VisitConfirmed, *noted.VisitStatus)

	// No notes on terminal visits.
	mustAdvanceTo(t, svc, b.ID, VisitCheckedOut, VisitNoShow)
	_, err = svc.AddNote(ctx, b.ID, "too late")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestListForStaffRequiresDateRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.ListForStaff(ctx, Filter{})
	assert.True(t, errors.Is(err, ErrMissingDateRange))
}

func TestListForStaffFiltersAndOrders(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// Seed directly through the repository so dates in the past are allowed.
	seed := []struct {
		date   time.Time
		slot   string
		status Status
		pet    string
	}{
		{date(2025, 3, 3), "10:00 AM", StatusConfirmed, "Biscuit"},
		{date(2025, 3, 5), "11:00 AM", StatusPending, "Mochi"},
		{date(2025, 3, 10), "10:00 AM", StatusCancelled, "Biscuit"},
		{date(2025, 4, 1), "10:00 AM", StatusConfirmed, "Pepper"},
	}
	for _, sd := range seed {
		b := &Booking{
			PetID:     testPetID,
			PetName:   sd.pet,
			UserID:    testUserID,
			UserName:  "Dana Reyes",
			ShelterID: testShelterID,
			VisitDate: sd.date,
			TimeSlot:  sd.slot,
			Status:    sd.status,
		}
		require.NoError(t, repo.Create(ctx, b))
	}

	bookings, total, err := svc.ListForStaff(ctx, Filter{
		DateFrom: date(2025, 3, 1),
		DateTo:   date(2025, 3, 31),
		Statuses: []Status{StatusPending, StatusConfirmed},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, bookings, 2)

	// Date descending.
	assert.True(t, bookings[0].VisitDate.After(bookings[1].VisitDate))

	// Free-text narrows further.
	bookings, _, err = svc.ListForStaff(ctx, Filter{
		DateFrom: date(2025, 3, 1),
		DateTo:   date(2025, 3, 31),
		Search:   "mochi",
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "Mochi", bookings[0].PetName)
}
