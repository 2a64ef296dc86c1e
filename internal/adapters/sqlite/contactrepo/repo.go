package contactrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// Repo is a sqlite implementation of contactrepo.Repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Add inserts the contact. When it is primary, the owner's previous
// primary is demoted in the same transaction so the invariant holds
// even if the process dies between statements.
func (r *Repo) Add(ctx context.Context, c domain.EmergencyContact) (domain.ContactID, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if c.IsPrimary {
		if _, err := tx.ExecContext(ctx, `
			UPDATE ice_contacts SET is_primary = 0 WHERE user_id = ? AND is_primary = 1
		`, string(c.OwnerID)); err != nil {
			return 0, fmt.Errorf("demoting previous primary: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO ice_contacts (user_id, contact_name, contact_phone, relationship, is_primary)
		VALUES (?,?,?,?,?)
	`, string(c.OwnerID), c.Name, c.Phone, c.Relationship, c.IsPrimary)
	if err != nil {
		return 0, fmt.Errorf("inserting contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading contact id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing contact: %w", err)
	}
	return domain.ContactID(id), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, contact_name, contact_phone, relationship, is_primary
		FROM ice_contacts
		WHERE user_id = ?
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
