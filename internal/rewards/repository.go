package rewards

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Credit appends an entry and bumps the user's total in one transaction.
	// The ledger row is created lazily on the first credit.
	Credit(ctx context.Context, userID string, amount int, action string) (*Ledger, error)

	// GetLedger returns the user's ledger, or a zero-point ledger when the
	// user has never earned points.
	GetLedger(ctx context.Context, userID string) (*Ledger, error)

	// History returns the user's entries, newest first.
	History(ctx context.Context, userID string) ([]*Entry, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Credit(ctx context.Context, userID string, amount int, action string) (*Ledger, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin credit tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	entrySQL, entryArgs, err := psql.Insert("public.reward_entries").
		Columns("user_id", "action", "points").
		Values(userID, action, amount).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reward entry query failed: %w", err)
	}
	if _, err := tx.Exec(ctx, entrySQL, entryArgs...); err != nil {
		return nil, fmt.Errorf("insert reward entry failed: %w", err)
	}

	ledgerSQL, ledgerArgs, err := psql.Insert("public.reward_ledgers").
		Columns("user_id", "points").
		Values(userID, amount).
		Suffix(`ON CONFLICT (user_id) DO UPDATE
			SET points = public.reward_ledgers.points + EXCLUDED.points,
			    updated_at = now()
			RETURNING user_id, points, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reward ledger query failed: %w", err)
	}

	var l Ledger
	if err := tx.QueryRow(ctx, ledgerSQL, ledgerArgs...).
		Scan(&l.UserID, &l.Points, &l.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert reward ledger failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit credit tx failed: %w", err)
	}
	return &l, nil
}

func (r *pgxRepository) GetLedger(ctx context.Context, userID string) (*Ledger, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("user_id", "points", "updated_at").
		From("public.reward_ledgers").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get ledger query failed: %w", err)
	}

	var l Ledger
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&l.UserID, &l.Points, &l.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &Ledger{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get ledger failed: %w", err)
	}
	return &l, nil
}

func (r *pgxRepository) History(ctx context.Context, userID string) ([]*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "user_id", "action", "points", "created_at").
		From("public.reward_entries").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reward history query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reward history failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Points, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward entry failed: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}
