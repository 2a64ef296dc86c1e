package triprepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) (domain.TripID, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO trips (
			user_id, location, trip_date, start_time, duration,
			participants, emergency_contact, trip_name, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`,
		string(t.OwnerID),
		t.Location,
		dateValue(t.Date),
		t.StartTime,
		t.DurationHours,
		t.Participants,
		t.EmergencyContact,
		t.Name,
		t.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting trip: %w", err)
	}
	return domain.TripID(id), nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID, owner domain.UserID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, location, trip_date, start_time, duration,
		       participants, emergency_contact, trip_name, created_at
		FROM trips
		WHERE id = $1 AND user_id = $2
	`, int64(id), string(owner))

	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID, limit int) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, location, trip_date, start_time, duration,
		       participants, emergency_contact, trip_name, created_at
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, string(owner), limit)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID, owner domain.UserID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM trips WHERE id = $1 AND user_id = $2
	`, int64(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func dateValue(t time.Time) pgtype.Date {
	tt := t.UTC()
	return pgtype.Date{
		Time:  time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		id        int64
		owner     string
		date      pgtype.Date
		name      *string
		createdAt time.Time
		t         domain.Trip
	)
	if err := row.Scan(
		&id, &owner, &t.Location, &date, &t.StartTime, &t.DurationHours,
		&t.Participants, &t.EmergencyContact, &name, &createdAt,
	); err != nil {
		return domain.Trip{}, err
	}

	t.ID = domain.TripID(id)
	t.OwnerID = domain.UserID(owner)
	if name != nil {
		v := *name
		t.Name = &v
	}
	t.Date = time.Date(date.Time.Year(), date.Time.Month(), date.Time.Day(), 0, 0, 0, 0, time.UTC)
	t.CreatedAt = createdAt.UTC()
	return t, nil
}
