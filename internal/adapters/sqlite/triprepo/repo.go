package triprepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/triprepo"
)

const dateLayout = "2006-01-02"

// Repo is a sqlite implementation of triprepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) (domain.TripID, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO trips (
			user_id, location, trip_date, start_time, duration,
			participants, emergency_contact, trip_name, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)
	`,
		string(t.OwnerID),
		t.Location,
		t.Date.UTC().Format(dateLayout),
		t.StartTime,
		t.DurationHours,
		t.Participants,
		t.EmergencyContact,
		t.Name,
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting trip: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading trip id: %w", err)
	}
	return domain.TripID(id), nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID, owner domain.UserID) (domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, location, trip_date, start_time, duration,
		       participants, emergency_contact, trip_name, created_at
		FROM trips
		WHERE id = ? AND user_id = ?
	`, int64(id), string(owner))

	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID, limit int) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, location, trip_date, start_time, duration,
		       participants, emergency_contact, trip_name, created_at
		FROM trips
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
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
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM trips WHERE id = ? AND user_id = ?
	`, int64(id), string(owner))
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (domain.Trip, error) {
	var (
		id        int64
		owner     string
		date      string
		name      sql.NullString
		createdAt string
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
	if name.Valid {
		v := name.String
		t.Name = &v
	}

	d, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("parsing trip date %q: %w", date, err)
	}
	t.Date = d

	ca, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("parsing trip created_at %q: %w", createdAt, err)
	}
	t.CreatedAt = ca.UTC()
	return t, nil
}
