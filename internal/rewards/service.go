package rewards

import (
	"context"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/metrics"
)

type Service interface {
	// CreditPoints appends a point-earning action and returns the updated
	// ledger. The ledger does not deduplicate: callers must guarantee
	// at-most-once invocation per triggering event.
	CreditPoints(ctx context.Context, userID string, amount int, action string) (*Ledger, error)

	GetLedger(ctx context.Context, userID string) (*Ledger, error)
	History(ctx context.Context, userID string) ([]*Entry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreditPoints(ctx context.Context, userID string, amount int, action string) (*Ledger, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	l, err := s.repo.Credit(ctx, userID, amount, action)
	if err != nil {
		return nil, err
	}

	metrics.RewardCredits.Inc()
	return l, nil
}

func (s *service) GetLedger(ctx context.Context, userID string) (*Ledger, error) {
	return s.repo.GetLedger(ctx, userID)
}

func (s *service) History(ctx context.Context, userID string) ([]*Entry, error) {
	return s.repo.History(ctx, userID)
}
