package contactrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// Repo is a Postgres implementation of contactrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Add inserts the contact, demoting the owner's existing primary inside
// the same transaction when the new contact is primary.
func (r *Repo) Add(ctx context.Context, c domain.EmergencyContact) (domain.ContactID, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}

	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if c.IsPrimary {
			if _, err := tx.Exec(ctx, `
				UPDATE ice_contacts SET is_primary = FALSE
				WHERE user_id = $1 AND is_primary = TRUE
			`, string(c.OwnerID)); err != nil {
				return fmt.Errorf("demoting previous primary: %w", err)
			}
		}
		return tx.QueryRow(ctx, `
			INSERT INTO ice_contacts (user_id, contact_name, contact_phone, relationship, is_primary)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, string(c.OwnerID), c.Name, c.Phone, c.Relationship, c.IsPrimary).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("inserting contact: %w", err)
	}
	return domain.ContactID(id), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, contact_name, contact_phone, relationship, is_primary
		FROM ice_contacts
		WHERE user_id = $1
		ORDER BY is_primary DESC, id ASC
	`, string(owner))
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.EmergencyContact, 0)
	for rows.Next() {
		var (
			id      int64
			ownerID string
			c       domain.EmergencyContact
		)
		if err := rows.Scan(&id, &ownerID, &c.Name, &c.Phone, &c.Relationship, &c.IsPrimary); err != nil {
			return nil, err
		}
		c.ID = domain.ContactID(id)
		c.OwnerID = domain.UserID(ownerID)
		out = append(out, c)
	}
	return out, rows.Err()
}
