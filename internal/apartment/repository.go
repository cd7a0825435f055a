package apartment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for apartments.
type Repository interface {
	Create(ctx context.Context, a *Apartment) error
	GetByID(ctx context.Context, id string) (*Apartment, error)
	List(ctx context.Context, filter Filter) ([]*Apartment, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, a *Apartment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.apartments").
		Columns("title", "city", "state", "max_guests", "daily_rate").
		Values(a.Title, a.City, a.State, a.MaxGuests, a.DailyRate).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create apartment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("create apartment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Apartment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "title", "city", "state", "max_guests", "daily_rate", "created_at").
		From("public.apartments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get apartment query failed: %w", err)
	}

	var a Apartment
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Title, &a.City, &a.State, &a.MaxGuests, &a.DailyRate, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get apartment failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Apartment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "title", "city", "state", "max_guests", "daily_rate", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.apartments")

	if filter.City != "" {
		query = query.Where(squirrel.Eq{"city": filter.City})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("title ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list apartments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list apartments failed: %w", err)
	}
	defer rows.Close()

	var apartments []*Apartment
	var total int

	for rows.Next() {
		var a Apartment
		if err := rows.Scan(
			&a.ID, &a.Title, &a.City, &a.State, &a.MaxGuests, &a.DailyRate, &a.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan apartment failed: %w", err)
		}
		apartments = append(apartments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate apartments failed: %w", err)
	}

	return apartments, total, nil
}
