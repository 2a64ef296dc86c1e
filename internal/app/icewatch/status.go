package icewatch

import (
	"sort"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// WatchStatus is a read-only snapshot of one watch.
type WatchStatus struct {
	TripID    domain.TripID
	OwnerID   domain.UserID
	State     State
	StartedAt time.Time
	Deadline  time.Time
	Elapsed   time.Duration
	// Overdue is derived from the clock and the deadline at query time;
	// it is never stored, so it cannot desynchronize from the deadline.
	Overdue bool
}

// Status reports the watch for a trip, if one is tracked.
func (m *Monitor) Status(tripID domain.TripID) (WatchStatus, bool) {
	w := m.lookup(tripID)
	if w == nil {
		return WatchStatus{}, false
	}
	return m.snapshot(w), true
}

// ActiveFor lists the tracked watches owned by a user, newest first.
func (m *Monitor) ActiveFor(owner domain.UserID) []WatchStatus {
	m.mu.Lock()
	watches := make([]*watch, 0, len(m.watches))
	for _, w := range m.watches {
		if w.ownerID == owner {
			watches = append(watches, w)
		}
	}
	m.mu.Unlock()

	out := make([]WatchStatus, 0, len(watches))
	for _, w := range watches {
		out = append(out, m.snapshot(w))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// All lists every tracked watch (active and escalated), for the admin
// surface.
func (m *Monitor) All() []WatchStatus {
	m.mu.Lock()
	watches := make([]*watch, 0, len(m.watches))
	for _, w := range m.watches {
		watches = append(watches, w)
	}
	m.mu.Unlock()

	out := make([]WatchStatus, 0, len(watches))
	for _, w := range watches {
		out = append(out, m.snapshot(w))
	}
	return out
}

// Count reports how many watches are tracked.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watches)
}

func (m *Monitor) snapshot(w *watch) WatchStatus {
	now := m.clock.Now()
	w.mu.Lock()
	st := w.status
	w.mu.Unlock()
	return WatchStatus{
		TripID:    w.tripID,
		OwnerID:   w.ownerID,
		State:     st,
		StartedAt: w.startedAt,
		Deadline:  w.deadline,
		Elapsed:   now.Sub(w.startedAt),
		Overdue:   now.After(w.deadline) && st != StateConfirmedSafe,
	}
}
