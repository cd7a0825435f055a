package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, ct *Contact) error
	GetByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, filter Filter) ([]*Contact, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var contactColumns = []string{"id", "name", "email", "phone", "type", "document", "created_at"}

func (r *pgxRepository) Create(ctx context.Context, ct *Contact) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.contacts").
		Columns("name", "email", "phone", "type", "document").
		Values(ct.Name, ct.Email, ct.Phone, ct.Type, ct.Document).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create contact query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&ct.ID, &ct.CreatedAt); err != nil {
		return fmt.Errorf("create contact failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Contact, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(contactColumns...).
		From("public.contacts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get contact query failed: %w", err)
	}

	var ct Contact
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&ct.ID, &ct.Name, &ct.Email, &ct.Phone, &ct.Type, &ct.Document, &ct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact failed: %w", err)
	}
	return &ct, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Contact, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(append(contactColumns, "count(*) OVER() as total_count")...).
		From("public.contacts")

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list contacts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts failed: %w", err)
	}
	defer rows.Close()

	var contacts []*Contact
	var total int

	for rows.Next() {
		var ct Contact
		if err := rows.Scan(
			&ct.ID, &ct.Name, &ct.Email, &ct.Phone, &ct.Type, &ct.Document, &ct.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan contact failed: %w", err)
		}
		contacts = append(contacts, &ct)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contacts failed: %w", err)
	}

	return contacts, total, nil
}
