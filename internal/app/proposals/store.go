package proposals

import (
	"sync"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

// Proposal is a pending trip plan awaiting a save or quick-start
// reaction on the message that presented it.
type Proposal struct {
	OwnerID   domain.UserID
	ChannelID domain.ChannelID
	Plan      domain.TripPlan
	CreatedAt time.Time
}

// Store holds transient proposals keyed by the message that carries
// them. Entries expire after the configured TTL and are purged lazily
// on access.
type Store struct {
	clock clock.Clock
	ttl   time.Duration

	mu      sync.Mutex
	entries map[notify.MessageHandle]Proposal
}

func NewStore(clk clock.Clock, ttl time.Duration) *Store {
	return &Store{
		clock:   clk,
		ttl:     ttl,
		entries: make(map[notify.MessageHandle]Proposal),
	}
}

// Put registers a proposal under the message that presented it,
// replacing any prior entry for the same handle.
func (s *Store) Put(handle notify.MessageHandle, p Proposal) {
	p.CreatedAt = s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.entries[handle] = p
}

// Take removes and returns the proposal for the given message, if one
// is still live. Expired entries report absent.
func (s *Store) Take(handle notify.MessageHandle) (Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	p, ok := s.entries[handle]
	if !ok {
		return Proposal{}, false
	}
	delete(s.entries, handle)
	return p, true
}

// Peek returns the proposal without consuming it.
func (s *Store) Peek(handle notify.MessageHandle) (Proposal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	p, ok := s.entries[handle]
	return p, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	return len(s.entries)
}

func (s *Store) purgeLocked() {
	cutoff := s.clock.Now().Add(-s.ttl)
	for h, p := range s.entries {
		if p.CreatedAt.Before(cutoff) {
			delete(s.entries, h)
		}
	}
}
