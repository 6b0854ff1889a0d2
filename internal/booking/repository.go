package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// ListByBooker and ListByOwner return bookings in descending start order,
	// filtered by the state predicate evaluated against the supplied now.
	ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]*Booking, error)
	// UpdateStatusIfWaiting transitions the booking out of WAITING and reports
	// whether a row was changed. A false return means the booking was already
	// processed by a concurrent caller.
	UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) (bool, error)
	// LastApproved returns the most recent approved booking of the item with
	// start before now; nil if none.
	LastApproved(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// NextApproved returns the earliest approved booking of the item with
	// start after now; nil if none.
	NextApproved(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// HasCompletedBooking reports whether the user has an approved booking of
	// the item that ended before now.
	HasCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const bookingColumns = "b.id, b.item_id, i.name, i.owner_id, b.booker_id, b.start_time, b.end_time, b.status, b.created_at"

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
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

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID int64, state State, now time.Time) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"b.booker_id": bookerID}, state, now)
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, state State, now time.Time) ([]*Booking, error) {
	return r.list(ctx, squirrel.Eq{"i.owner_id": ownerID}, state, now)
}

func (r *pgxRepository) list(ctx context.Context, by squirrel.Sqlizer, state State, now time.Time) ([]*Booking, error) {
	query := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Where(by).
		OrderBy("b.start_time DESC", "b.id DESC")

	if cond := stateCondition(state, now); cond != nil {
		query = query.Where(cond)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
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

	return bookings, rows.Err()
}

// stateCondition maps a State to its SQL predicate. ALL returns nil (no
// filter). The switch is exhaustive over the enumeration; ParseState rejects
// everything else upstream.
func stateCondition(state State, now time.Time) squirrel.Sqlizer {
	switch state {
	case StateCurrent:
		return squirrel.And{
			squirrel.LtOrEq{"b.start_time": now},
			squirrel.GtOrEq{"b.end_time": now},
		}
	case StatePast:
		return squirrel.Lt{"b.end_time": now}
	case StateFuture:
		return squirrel.Gt{"b.start_time": now}
	case StateWaiting:
		return squirrel.Eq{"b.status": StatusWaiting}
	case StateRejected:
		return squirrel.Eq{"b.status": StatusRejected}
	default: // StateAll
		return nil
	}
}

func (r *pgxRepository) UpdateStatusIfWaiting(ctx context.Context, id int64, status Status) (bool, error) {
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id, "status": StatusWaiting}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) LastApproved(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.approvedNear(ctx, itemID,
		squirrel.Lt{"b.start_time": now},
		"b.start_time DESC, b.id DESC")
}

func (r *pgxRepository) NextApproved(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.approvedNear(ctx, itemID,
		squirrel.Gt{"b.start_time": now},
		"b.start_time ASC, b.id ASC")
}

func (r *pgxRepository) approvedNear(ctx context.Context, itemID int64, cond squirrel.Sqlizer, order string) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": StatusApproved}).
		Where(cond).
		OrderBy(order).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build approved booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approved booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) HasCompletedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	sub, args, err := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"item_id": itemID, "booker_id": userID, "status": StatusApproved}).
		Where(squirrel.Lt{"end_time": now}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build completed booking query failed: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check completed booking failed: %w", err)
	}
	return exists, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
