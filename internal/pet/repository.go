package pet

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id string) (*Pet, error)
	List(ctx context.Context, filter Filter) ([]*Pet, int, error)
	UpdateAvailability(ctx context.Context, id string, availability Availability) error
	UpdatePhoto(ctx context.Context, id string, photoPath, thumbnailPath *string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Pet) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.pets").
		Columns("shelter_id", "name", "species", "breed", "age_months", "description", "availability").
		Values(p.ShelterID, p.Name, p.Species, p.Breed, p.AgeMonths, p.Description, p.Availability).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create pet query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Pet, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "shelter_id", "name", "species", "breed", "age_months",
		"description", "availability", "photo_path", "thumbnail_path", "created_at",
	).
		From("public.pets").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get pet query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var p Pet
	if err := row.Scan(
		&p.ID, &p.ShelterID, &p.Name, &p.Species, &p.Breed, &p.AgeMonths,
		&p.Description, &p.Availability, &p.PhotoPath, &p.ThumbnailPath, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get pet failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Pet, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "shelter_id", "name", "species", "breed", "age_months",
		"description", "availability", "photo_path", "thumbnail_path", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.pets")

	if filter.ShelterID != "" {
		query = query.Where(squirrel.Eq{"shelter_id": filter.ShelterID})
	}
	if filter.Species != "" {
		query = query.Where(squirrel.Expr("lower(species) = lower(?)", filter.Species))
	}
	if filter.Availability != "" {
		query = query.Where(squirrel.Eq{"availability": filter.Availability})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"breed": pattern},
		})
	}

	// Stable listing order; no ranking beyond insertion order.
	query = query.OrderBy("created_at ASC", "id ASC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list pets query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pets failed: %w", err)
	}
	defer rows.Close()

	var pets []*Pet
	var total int

	for rows.Next() {
		var p Pet
		if err := rows.Scan(
			&p.ID, &p.ShelterID, &p.Name, &p.Species, &p.Breed, &p.AgeMonths,
			&p.Description, &p.Availability, &p.PhotoPath, &p.ThumbnailPath, &p.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan pet failed: %w", err)
		}
		pets = append(pets, &p)
	}

	return pets, total, nil
}

func (r *pgxRepository) UpdateAvailability(ctx context.Context, id string, availability Availability) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pets").
		Set("availability", availability).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pet availability query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pet availability failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdatePhoto(ctx context.Context, id string, photoPath, thumbnailPath *string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.pets").
		Set("photo_path", photoPath).
		Set("thumbnail_path", thumbnailPath).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update pet photo query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update pet photo failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
