package triprepo

import (
	"context"
	"sort"
	"sync"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	nextID domain.TripID
	byID   map[domain.TripID]domain.Trip
}

func NewRepo() *Repo {
	return &Repo{
		nextID: 1,
		byID:   make(map[domain.TripID]domain.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) (domain.TripID, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	r.byID[t.ID] = cloneTrip(t)
	return t.ID, nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID, owner domain.UserID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != owner {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID, limit int) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0)
	for _, t := range r.byID {
		if t.OwnerID == owner {
			out = append(out, cloneTrip(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.TripID, owner domain.UserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok || t.OwnerID != owner {
		return triprepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	if t.Name != nil {
		v := *t.Name
		cp.Name = &v
	}
	return cp
}
