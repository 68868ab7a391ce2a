package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts a new booking. The (shelter_id, visit_date, time_slot)
	// uniqueness invariant for non-cancelled bookings is enforced here by a
	// partial unique index; a violation surfaces as ErrSlotConflict. Callers
	// must not rely on a prior availability read as a lock.
	Create(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)

	// ClaimedSlots returns the slot labels taken by non-cancelled bookings
	// for the shelter on the given date.
	ClaimedSlots(ctx context.Context, shelterID string, date time.Time) ([]string, error)

	// The transition writes below carry an expected-current-state predicate
	// in the WHERE clause. A write that matches no row on an existing
	// booking fails with ErrInvalidTransition, never last-write-wins.
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	SetVisitStatus(ctx context.Context, id string, expected, next VisitStatus) error
	SetNote(ctx context.Context, id string, note string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("pet_id", "user_id", "user_name", "shelter_id", "visit_date", "time_slot", "status").
		Values(b.PetID, b.UserID, b.UserName, b.ShelterID, b.VisitDate, b.TimeSlot, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

const bookingColumns = `b.id, b.pet_id, p.name, b.user_id, b.user_name,
	b.shelter_id, s.name, b.visit_date, b.time_slot, b.status,
	b.visit_status, b.staff_note, b.created_at, b.updated_at`

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.PetID, &b.PetName, &b.UserID, &b.UserName,
		&b.ShelterID, &b.ShelterName, &b.VisitDate, &b.TimeSlot, &b.Status,
		&b.VisitStatus, &b.StaffNote, &b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.pets p ON b.pet_id = p.id").
		Join("public.shelters s ON b.shelter_id = s.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.pets p ON b.pet_id = p.id").
		Join("public.shelters s ON b.shelter_id = s.id").
		Where(squirrel.Eq{"b.user_id": userID}).
		OrderBy("b.visit_date DESC", "b.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list user bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list user bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns + ", count(*) OVER() as total_count").
		From("public.bookings b").
		Join("public.pets p ON b.pet_id = p.id").
		Join("public.shelters s ON b.shelter_id = s.id").
		Where(squirrel.GtOrEq{"b.visit_date": filter.DateFrom}).
		Where(squirrel.LtOrEq{"b.visit_date": filter.DateTo})

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.ShelterID != "" {
		query = query.Where(squirrel.Eq{"b.shelter_id": filter.ShelterID})
	}
	if len(filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"b.status": filter.Statuses})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.name": pattern},
			squirrel.ILike{"b.user_name": pattern},
			squirrel.Expr("b.id::text ILIKE ?", pattern),
		})
	}

	query = query.OrderBy("b.visit_date DESC", "b.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ClaimedSlots(ctx context.Context, shelterID string, date time.Time) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("time_slot").
		From("public.bookings").
		Where(squirrel.Eq{"shelter_id": shelterID}).
		Where(squirrel.Eq{"visit_date": date}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build claimed slots query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("claimed slots failed: %w", err)
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scan claimed slot failed: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (r *pgxRepository) Confirm(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("status", StatusConfirmed).
		Set("visit_status", VisitConfirmed).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": StatusPending})

	return r.transition(ctx, id, update)
}

func (r *pgxRepository) Cancel(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("status", StatusCancelled).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []Status{StatusPending, StatusConfirmed}}).
		Where(squirrel.Or{
			squirrel.Eq{"visit_status": nil},
			squirrel.Eq{"visit_status": VisitConfirmed},
		})

	return r.transition(ctx, id, update)
}

func (r *pgxRepository) SetVisitStatus(ctx context.Context, id string, expected, next VisitStatus) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("visit_status", next).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": StatusConfirmed}).
		Where(squirrel.Eq{"visit_status": expected})

	return r.transition(ctx, id, update)
}

func (r *pgxRepository) SetNote(ctx context.Context, id string, note string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("staff_note", note).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{
			squirrel.Eq{"visit_status": nil},
			squirrel.NotEq{"visit_status": []VisitStatus{VisitReturned, VisitNoShow}},
		})

	return r.transition(ctx, id, update)
}

// transition executes a conditional update. When the precondition matches no
// row, the booking either does not exist (ErrNotFound) or is in a state the
// caller did not expect (ErrInvalidTransition).
func (r *pgxRepository) transition(ctx context.Context, id string, update squirrel.UpdateBuilder) error {
	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build transition query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("booking transition failed: %w", err)
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrInvalidTransition
}
