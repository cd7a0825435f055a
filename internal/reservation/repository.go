package reservation

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

// Tx is the write side of a booking. It is only valid inside Repository.Book.
type Tx interface {
	// HasConflict reports whether any reservation of the apartment, other than
	// excludeReservationID, overlaps [checkIn, checkOut).
	HasConflict(ctx context.Context, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error)
	ContactExists(ctx context.Context, contactID string) (bool, error)
	Insert(ctx context.Context, r *Reservation) error
}

// Repository defines data access methods for reservations.
type Repository interface {
	List(ctx context.Context) ([]*Reservation, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Reservation, error)
	HasConflict(ctx context.Context, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error)

	// Book runs fn in one transaction holding the apartment's row lock, so
	// bookings of the same apartment are serialized. A non-nil error from fn
	// rolls everything back.
	Book(ctx context.Context, apartmentID string, fn func(ctx context.Context, tx Tx) error) error

	// Reporting
	ChannelSummary(ctx context.Context, since time.Time) ([]ChannelSummary, error)
	TopCities(ctx context.Context, limit int) ([]CityCount, error)
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectJoined() squirrel.SelectBuilder {
	return psql.Select(
		"r.id", "r.apartment_id", "r.contact_id", "r.checkin_date", "r.checkout_date",
		"r.guests", "r.total_price", "r.channel", "r.created_at",
		"a.title", "a.city", "a.state", "c.name", "c.email",
	).
		From("public.reservations r").
		Join("public.apartments a ON r.apartment_id = a.id").
		Join("public.contacts c ON r.contact_id = c.id")
}

func (r *pgxRepository) List(ctx context.Context) ([]*Reservation, error) {
	query, args, err := selectJoined().
		OrderBy("r.created_at DESC", "r.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reservations query failed: %w", err)
	}
	return r.queryJoined(ctx, query, args)
}

func (r *pgxRepository) Search(ctx context.Context, filter SearchFilter) ([]*Reservation, error) {
	query, args, err := selectJoined().
		Where(squirrel.Eq{"a.city": filter.City}).
		Where(squirrel.Lt{"r.checkin_date": filter.End}).
		Where(squirrel.Gt{"r.checkout_date": filter.Start}).
		OrderBy("r.checkin_date ASC", "r.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search reservations query failed: %w", err)
	}
	return r.queryJoined(ctx, query, args)
}

func (r *pgxRepository) queryJoined(ctx context.Context, query string, args []any) ([]*Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations failed: %w", err)
	}
	defer rows.Close()

	var out []*Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID, &res.ApartmentID, &res.ContactID, &res.CheckIn, &res.CheckOut,
			&res.Guests, &res.TotalPrice, &res.Channel, &res.CreatedAt,
			&res.ApartmentTitle, &res.ApartmentCity, &res.ApartmentState,
			&res.ContactName, &res.ContactEmail,
		); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		out = append(out, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return out, nil
}

func (r *pgxRepository) HasConflict(ctx context.Context, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error) {
	return hasConflict(ctx, r.pool, apartmentID, checkIn, checkOut, excludeReservationID)
}

func (r *pgxRepository) Book(ctx context.Context, apartmentID string, fn func(ctx context.Context, tx Tx) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		query, args, err := psql.Select("id").
			From("public.apartments").
			Where(squirrel.Eq{"id": apartmentID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build lock apartment query failed: %w", err)
		}

		var id string
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrApartmentNotFound
			}
			return fmt.Errorf("lock apartment failed: %w", err)
		}

		return fn(ctx, &pgxTx{tx: tx})
	})
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) HasConflict(ctx context.Context, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error) {
	return hasConflict(ctx, t.tx, apartmentID, checkIn, checkOut, excludeReservationID)
}

func (t *pgxTx) ContactExists(ctx context.Context, contactID string) (bool, error) {
	sql, args, err := psql.Select("1").
		From("public.contacts").
		Where(squirrel.Eq{"id": contactID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build contact exists query failed: %w", err)
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check contact failed: %w", err)
	}
	return exists, nil
}

func (t *pgxTx) Insert(ctx context.Context, res *Reservation) error {
	query, args, err := psql.Insert("public.reservations").
		Columns("apartment_id", "contact_id", "checkin_date", "checkout_date", "guests", "total_price", "channel").
		Values(res.ApartmentID, res.ContactID, res.CheckIn, res.CheckOut, res.Guests, res.TotalPrice, res.Channel).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := t.tx.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				return ErrInvalidReference
			case pgerrcode.ExclusionViolation:
				return ErrDateConflict
			}
		}
		return fmt.Errorf("create reservation failed: %w", err)
	}
	return nil
}

// hasConflict applies the overlap predicate checkin < checkOut AND checkout > checkIn.
func hasConflict(ctx context.Context, q dbtx, apartmentID string, checkIn, checkOut time.Time, excludeReservationID string) (bool, error) {
	subQuery := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"apartment_id": apartmentID}).
		Where(squirrel.Lt{"checkin_date": checkOut}).
		Where(squirrel.Gt{"checkout_date": checkIn})

	if excludeReservationID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeReservationID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check conflict query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check conflict failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ChannelSummary(ctx context.Context, since time.Time) ([]ChannelSummary, error) {
	query, args, err := psql.Select("channel", "count(*)", "COALESCE(SUM(total_price), 0)").
		From("public.reservations").
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("channel").
		OrderBy("channel ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build channel summary query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("channel summary failed: %w", err)
	}
	defer rows.Close()

	var out []ChannelSummary
	for rows.Next() {
		var s ChannelSummary
		if err := rows.Scan(&s.Channel, &s.Count, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan channel summary failed: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel summary failed: %w", err)
	}
	return out, nil
}

func (r *pgxRepository) TopCities(ctx context.Context, limit int) ([]CityCount, error) {
	query, args, err := psql.Select("a.city", "count(r.id) AS total_reservations").
		From("public.reservations r").
		Join("public.apartments a ON r.apartment_id = a.id").
		GroupBy("a.city").
		OrderBy("total_reservations DESC", "a.city ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top cities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top cities failed: %w", err)
	}
	defer rows.Close()

	var out []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.City, &c.Count); err != nil {
			return nil, fmt.Errorf("scan top city failed: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top cities failed: %w", err)
	}
	return out, nil
}
