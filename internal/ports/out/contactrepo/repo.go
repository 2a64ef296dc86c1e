package contactrepo

import (
	"context"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// Repository provides access to persisted emergency contacts.
type Repository interface {
	// Add persists a contact and returns the store-assigned id.
	// When c.IsPrimary is true, every previously-primary contact of the
	// same owner is demoted in the same operation (last-write-wins), so
	// at most one contact per owner is primary at any point.
	Add(ctx context.Context, c domain.EmergencyContact) (domain.ContactID, error)

	// ListByOwner returns the owner's contacts primary-first, then by id.
	ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error)
}
