package triprepo

import (
	"context"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// Repository provides access to persisted trips.
//
// Result ordering expectations:
// - ListByOwner returns the owner's trips most-recent-first (by
//   creation time, then id) so "list" surfaces show the latest plans.
type Repository interface {
	// Create persists a new trip and returns the store-assigned id.
	Create(ctx context.Context, t domain.Trip) (domain.TripID, error)

	// GetByID returns the trip only when owner matches the record's
	// owner. A mismatch reports ErrNotFound, not a permission error:
	// callers must not learn whether another owner's trip id exists.
	GetByID(ctx context.Context, id domain.TripID, owner domain.UserID) (domain.Trip, error)

	ListByOwner(ctx context.Context, owner domain.UserID, limit int) ([]domain.Trip, error)

	Delete(ctx context.Context, id domain.TripID, owner domain.UserID) error
}
