package shelter

import (
	"context"
	"errors"
	"time"

	"github.com/pawmates/shelter-visit-backend/internal/pkg/apperror"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*Shelter, error)
	List(ctx context.Context, filter Filter) ([]*Shelter, int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Shelter, error) {
	var sh *Shelter
	err := readWithRetry(ctx, func(ctx context.Context) error {
		var err error
		sh, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sh, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Shelter, int, error) {
	// Distance sorting must order the full match set before a page is cut,
	// so the repository query runs unpaged and the page is sliced here.
	repoFilter := filter
	if filter.Origin != nil {
		repoFilter.Page = 0
		repoFilter.PageSize = 0
	}

	var (
		shelters []*Shelter
		total    int
	)
	err := readWithRetry(ctx, func(ctx context.Context) error {
		var err error
		shelters, total, err = s.repo.List(ctx, repoFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	if filter.Origin != nil {
		SortByDistance(shelters, *filter.Origin)
		shelters = pageSlice(shelters, filter.Page, filter.PageSize)
	}

	return shelters, total, nil
}

// pageSlice cuts one page out of the distance-ordered result set.
func pageSlice(shelters []*Shelter, page, pageSize int) []*Shelter {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	lo := (page - 1) * pageSize
	if lo >= len(shelters) {
		return nil
	}
	hi := lo + pageSize
	if hi > len(shelters) {
		hi = len(shelters)
	}
	return shelters[lo:hi]
}

// readWithRetry retries a read-only directory call once with a short backoff
// before surfacing ErrUnavailable. Domain errors (NotFound) pass through
// untouched. Writes are never retried to avoid double-application.
func readWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if err == nil || isDomainError(err) {
		return err
	}

	select {
	case <-ctx.Done():
		return apperror.Wrap(ctx.Err(), ErrUnavailable.Code, ErrUnavailable.Message)
	case <-time.After(200 * time.Millisecond):
	}

	if err = fn(ctx); err != nil {
		if isDomainError(err) {
			return err
		}
		return apperror.Wrap(err, ErrUnavailable.Code, ErrUnavailable.Message)
	}
	return nil
}

func isDomainError(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr)
}
