package shelter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Shelter, error)
	List(ctx context.Context, filter Filter) ([]*Shelter, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Shelter, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "address", "latitude", "longitude", "hours", "created_at",
	).
		From("public.shelters").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get shelter query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	sh, err := scanShelter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get shelter failed: %w", err)
	}
	return sh, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Shelter, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "address", "latitude", "longitude", "hours", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.shelters")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"address": pattern},
		})
	}

	query = query.OrderBy("name ASC")

	// Pagination. A PageSize of zero or less returns the full match set; the
	// service relies on that for distance-sorted listings, which must be
	// ordered across the whole set before a page is cut.
	if filter.PageSize > 0 {
		if filter.Page < 1 {
			filter.Page = 1
		}
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list shelters query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shelters failed: %w", err)
	}
	defer rows.Close()

	var shelters []*Shelter
	var total int

	for rows.Next() {
		var sh Shelter
		var hoursJSON []byte
		if err := rows.Scan(
			&sh.ID, &sh.Name, &sh.Address, &sh.Latitude, &sh.Longitude,
			&hoursJSON, &sh.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan shelter failed: %w", err)
		}
		if err := json.Unmarshal(hoursJSON, &sh.Hours); err != nil {
			return nil, 0, fmt.Errorf("decode shelter hours failed: %w", err)
		}
		shelters = append(shelters, &sh)
	}

	return shelters, total, nil
}

func scanShelter(row pgx.Row) (*Shelter, error) {
	var sh Shelter
	var hoursJSON []byte
	if err := row.Scan(
		&sh.ID, &sh.Name, &sh.Address, &sh.Latitude, &sh.Longitude,
		&hoursJSON, &sh.CreatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(hoursJSON, &sh.Hours); err != nil {
		return nil, fmt.Errorf("decode shelter hours failed: %w", err)
	}
	return &sh, nil
}
