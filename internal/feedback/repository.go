package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts the feedback record. A unique constraint on booking_id
	// makes resubmission fail with ErrAlreadySubmitted; this is the guard
	// that keeps reward credits at-most-once per booking.
	Create(ctx context.Context, f *Feedback) error

	GetByBookingID(ctx context.Context, bookingID string) (*Feedback, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, f *Feedback) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.feedback").
		Columns("booking_id", "user_id", "rating", "comment").
		Values(f.BookingID, f.UserID, f.Rating, f.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create feedback query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("create feedback failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByBookingID(ctx context.Context, bookingID string) (*Feedback, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "booking_id", "user_id", "rating", "comment", "created_at").
		From("public.feedback").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get feedback query failed: %w", err)
	}

	var f Feedback
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&f.ID, &f.BookingID, &f.UserID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feedback failed: %w", err)
	}
	return &f, nil
}
