package contactrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// Repo is an in-memory implementation of contactrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	nextID domain.ContactID
	byID   map[domain.ContactID]domain.EmergencyContact
}

func NewRepo() *Repo {
	return &Repo{
		nextID: 1,
		byID:   make(map[domain.ContactID]domain.EmergencyContact),
	}
}

func (r *Repo) Add(ctx context.Context, c domain.EmergencyContact) (domain.ContactID, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	// Demotion and insert happen under the same lock so the at-most-one
	// primary invariant holds at every observable point.
	if c.IsPrimary {
		for id, existing := range r.byID {
			if existing.OwnerID == c.OwnerID && existing.IsPrimary {
				existing.IsPrimary = false
				r.byID[id] = existing
			}
		}
	}

	c.ID = r.nextID
	r.nextID++
	r.byID[c.ID] = c
	return c.ID, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.EmergencyContact, 0)
	for _, c := range r.byID {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
