package rewards

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	ledgers map[string]*Ledger
	entries []*Entry
}

func newMemRepo() *memRepo {
	return &memRepo{ledgers: make(map[string]*Ledger)}
}

func (r *memRepo) Credit(_ context.Context, userID string, amount int, action string) (*Ledger, error) {
	l, ok := r.ledgers[userID]
	if !ok {
		l = &Ledger{UserID: userID}
		r.ledgers[userID] = l
	}
	l.Points += amount
	l.UpdatedAt = time.Now().UTC()

	r.entries = append(r.entries, &Entry{
		UserID:    userID,
		Action:    action,
		Points:    amount,
		CreatedAt: time.Now().UTC(),
	})

	copied := *l
	return &copied, nil
}

func (r *memRepo) GetLedger(_ context.Context, userID string) (*Ledger, error) {
	l, ok := r.ledgers[userID]
	if !ok {
		return &Ledger{UserID: userID}, nil
	}
	copied := *l
	return &copied, nil
}

func (r *memRepo) History(_ context.Context, userID string) ([]*Entry, error) {
	var out []*Entry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func TestLedgerLevel(t *testing.T) {
	tests := []struct {
		points int
		level  int
	}{
		{0, 1},
		{50, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tt := range tests {
		l := &Ledger{Points: tt.points}
		assert.Equal(t, tt.level, l.Level(), "points=%d", tt.points)
	}
}

func TestCreditPoints(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	l, err := svc.CreditPoints(ctx, "user-1", 50, "visit_feedback:b1")
	require.NoError(t, err)
	assert.Equal(t, 50, l.Points)
	assert.Equal(t, 1, l.Level())

	l, err = svc.CreditPoints(ctx, "user-1", 50, "visit_feedback:b2")
	require.NoError(t, err)
	assert.Equal(t, 100, l.Points)
	assert.Equal(t, 2, l.Level())
}

func TestCreditPointsRejectsNonPositive(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreditPoints(ctx, "user-1", 0, "visit_feedback:b1")
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = svc.CreditPoints(ctx, "user-1", -10, "visit_feedback:b1")
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	// Nothing was written.
	assert.Empty(t, repo.entries)
}

func TestGetLedgerForNewUser(t *testing.T) {
	svc := NewService(newMemRepo())

	l, err := svc.GetLedger(context.Background(), "fresh-user")
	require.NoError(t, err)
	assert.Equal(t, 0, l.Points)
	assert.Equal(t, 1, l.Level())
}

func TestHistoryNewestFirst(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.CreditPoints(ctx, "user-1", 50, "visit_feedback:b1")
	require.NoError(t, err)
	_, err = svc.CreditPoints(ctx, "user-1", 50, "visit_feedback:b2")
	require.NoError(t, err)
	_, err = svc.CreditPoints(ctx, "user-2", 50, "visit_feedback:b3")
	require.NoError(t, err)

	history, err := svc.History(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "visit_feedback:b2", history[0].Action)
	assert.Equal(t, "visit_feedback:b1", history[1].Action)
}
