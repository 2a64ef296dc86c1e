package icewatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/contactrepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

// State is the lifecycle state of a single watch.
type State string

const (
	StateRunning       State = "RUNNING"
	StateAwaiting      State = "AWAITING_CONFIRMATION"
	StateConfirmedSafe State = "CONFIRMED_SAFE"
	StateEscalated     State = "ESCALATED"
)

// Config carries the monitor's tunables.
type Config struct {
	// ICEChannelID is the channel escalation alerts broadcast to.
	ICEChannelID domain.ChannelID
	// ResponseWindow bounds the wait for an answer to the check-in
	// request before escalating.
	ResponseWindow time.Duration
}

// watch is the in-memory monitoring record for one active trip.
// status is guarded by mu; resolved is closed exactly once, when the
// watch reaches a terminal state, so suspended sequences wake and exit
// without acting on a stale timer.
type watch struct {
	tripID  domain.TripID
	ownerID domain.UserID
	channel domain.ChannelID

	startedAt time.Time
	duration  time.Duration
	deadline  time.Time

	mu       sync.Mutex
	status   State
	resolved chan struct{}
}

// Monitor owns the set of active trip watches and runs the check-in
// state machine for each. The watch map is guarded by mu with short
// critical sections only; each watch serializes its own transitions, so
// unrelated trips never block each other's timers.
type Monitor struct {
	clock    clock.Clock
	notifier notify.Notifier
	contacts contactrepo.Repository
	cfg      Config
	log      *slog.Logger

	mu      sync.Mutex
	watches map[domain.TripID]*watch

	quit     chan struct{}
	quitOnce sync.Once
}

func NewMonitor(clk clock.Clock, notifier notify.Notifier, contacts contactrepo.Repository, cfg Config, log *slog.Logger) *Monitor {
	if cfg.ResponseWindow <= 0 {
		cfg.ResponseWindow = time.Hour
	}
	return &Monitor{
		clock:    clk,
		notifier: notifier,
		contacts: contacts,
		cfg:      cfg,
		log:      log,
		watches:  make(map[domain.TripID]*watch),
		quit:     make(chan struct{}),
	}
}

// StartWatch begins monitoring a trip. It returns immediately; the
// check-in sequence completes asynchronously. A trip that already has a
// watch keeps its existing one: a second call must never schedule a
// second timer.
func (m *Monitor) StartWatch(ctx context.Context, tripID domain.TripID, owner domain.UserID, durationHours int, channel domain.ChannelID) error {
	_ = ctx
	if durationHours <= 0 {
		return ErrInvalidDuration
	}

	now := m.clock.Now()
	w := &watch{
		tripID:    tripID,
		ownerID:   owner,
		channel:   channel,
		startedAt: now,
		duration:  time.Duration(durationHours) * time.Hour,
		deadline:  now.Add(time.Duration(durationHours) * time.Hour),
		status:    StateRunning,
		resolved:  make(chan struct{}),
	}

	m.mu.Lock()
	if _, exists := m.watches[tripID]; exists {
		m.mu.Unlock()
		return ErrAlreadyMonitored
	}
	m.watches[tripID] = w
	m.mu.Unlock()

	m.log.Info("watch started",
		"trip_id", tripID, "owner", owner, "duration_hours", durationHours)

	go m.run(w)
	return nil
}

// run is the check-in sequence: one per watch, started by StartWatch.
func (m *Monitor) run(w *watch) {
	select {
	case <-m.clock.After(w.deadline.Sub(m.clock.Now())):
	case <-w.resolved:
		return
	case <-m.quit:
		return
	}

	// Deadline reached. If a manual check-in won the race while we were
	// suspended, there is nothing to remind about.
	w.mu.Lock()
	if w.status != StateRunning {
		w.mu.Unlock()
		return
	}
	w.status = StateAwaiting
	w.mu.Unlock()

	m.sendCheckInRequest(w)

	select {
	case <-m.clock.After(m.cfg.ResponseWindow):
		m.escalateFrom(w, "no response to check-in request")
	case <-w.resolved:
		// ConfirmSafe or RequestHelp already ran the terminal action.
	case <-m.quit:
	}
}

// ConfirmSafe resolves a watch on the owner's behalf. Safe to call
// concurrently from any interaction surface: only the first caller
// effects the transition, later callers observe "already resolved" and
// get false. Watches that already escalated also report false.
func (m *Monitor) ConfirmSafe(ctx context.Context, tripID domain.TripID) bool {
	w := m.lookup(tripID)
	if w == nil {
		return false
	}

	w.mu.Lock()
	if w.status == StateConfirmedSafe || w.status == StateEscalated {
		w.mu.Unlock()
		return false
	}
	w.status = StateConfirmedSafe
	close(w.resolved)
	w.mu.Unlock()

	m.remove(tripID)

	if _, err := m.notifier.SendDirect(ctx, w.ownerID, notify.Message{
		Title:       "Safe Return Confirmed",
		Description: "Glad to hear you're back safely!",
		Color:       colorGreen,
	}); err != nil {
		m.log.Warn("safe-return ack delivery failed", "trip_id", tripID, "err", err)
	}
	m.log.Info("watch confirmed safe", "trip_id", tripID, "owner", w.ownerID)
	return true
}

// RequestHelp escalates a watch on the owner's explicit request.
// It shares the terminal-transition guard with the timeout path, so a
// watch escalates at most once no matter how the surfaces race.
func (m *Monitor) RequestHelp(ctx context.Context, tripID domain.TripID) bool {
	_ = ctx
	w := m.lookup(tripID)
	if w == nil {
		return false
	}
	return m.escalateFrom(w, "owner requested help")
}

// StopWatch is administrative cancellation, distinct from a safe
// check-in: the watch is resolved and removed silently, with no
// "safe return confirmed" acknowledgment. Used by shutdown and admin
// surfaces.
func (m *Monitor) StopWatch(ctx context.Context, tripID domain.TripID) bool {
	_ = ctx
	w := m.lookup(tripID)
	if w == nil {
		return false
	}

	w.mu.Lock()
	if w.status == StateConfirmedSafe || w.status == StateEscalated {
		w.mu.Unlock()
		return false
	}
	w.status = StateConfirmedSafe
	close(w.resolved)
	w.mu.Unlock()

	m.remove(tripID)
	m.log.Info("watch stopped", "trip_id", tripID, "owner", w.ownerID)
	return true
}

// escalateFrom moves w to ESCALATED and performs the escalation
// procedure exactly once. Returns false when the watch was already
// terminal.
func (m *Monitor) escalateFrom(w *watch, reason string) bool {
	w.mu.Lock()
	if w.status == StateConfirmedSafe || w.status == StateEscalated {
		w.mu.Unlock()
		return false
	}
	w.status = StateEscalated
	close(w.resolved)
	w.mu.Unlock()

	// Escalated watches stay in the active set for status queries; the
	// terminal status above is what prevents a second escalation.
	m.log.Warn("watch escalated", "trip_id", w.tripID, "owner", w.ownerID, "reason", reason)
	m.performEscalation(w)
	return true
}

func (m *Monitor) sendCheckInRequest(w *watch) {
	msg := notify.Message{
		Title:       "Trip Check-In Required",
		Description: "Please confirm you've returned safely from your kayak trip.",
		Color:       colorOrange,
		Fields: []notify.Field{{
			Name:  "Actions",
			Value: "Reply \"safe\" (or react with the check mark) to confirm safe return.\nReply \"help\" (or react with the SOS mark) if you need help.",
		}},
	}
	if _, err := m.notifier.SendDirect(context.Background(), w.ownerID, msg,
		notify.OptionConfirmSafe, notify.OptionRequestHelp); err != nil {
		// Delivery failure must not stall the state machine: the
		// response window still runs and escalates on timeout.
		m.log.Warn("check-in request delivery failed", "trip_id", w.tripID, "err", err)
	}
}

func (m *Monitor) performEscalation(w *watch) {
	ctx := context.Background()

	contacts, err := m.contacts.ListByOwner(ctx, w.ownerID)
	if err != nil {
		m.log.Error("loading emergency contacts failed", "trip_id", w.tripID, "err", err)
		contacts = nil
	}

	msg := notify.Message{
		Title:       "EMERGENCY - OVERDUE KAYAKER",
		Description: fmt.Sprintf("User %s has not checked in from their kayak trip.", w.ownerID),
		Color:       colorRed,
		Fields: []notify.Field{
			{Name: "Trip Start Time", Value: w.startedAt.Format("2006-01-02 15:04"), Inline: true},
			{Name: "Expected Duration", Value: fmt.Sprintf("%d hours", int(w.duration.Hours())), Inline: true},
			{Name: "Overdue Since", Value: w.deadline.Format("2006-01-02 15:04"), Inline: true},
		},
	}
	if len(contacts) > 0 {
		msg.Fields = append(msg.Fields, notify.Field{
			Name:  "Emergency Contacts",
			Value: formatContactList(contacts),
		})
	}

	if _, err := m.notifier.SendChannel(ctx, m.cfg.ICEChannelID, msg); err != nil {
		m.log.Error("escalation broadcast delivery failed", "trip_id", w.tripID, "err", err)
	}

	// Real SMS/call dispatch is out of scope; this log line is the hook
	// point for that integration.
	for _, c := range contacts {
		if !c.IsPrimary {
			continue
		}
		m.log.Warn("EMERGENCY contact notification intent",
			"trip_id", w.tripID, "contact", c.Name, "phone", c.Phone)
	}
}

func formatContactList(contacts []domain.EmergencyContact) string {
	out := ""
	for i, c := range contacts {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("**%s** (%s): %s", c.Name, c.Relationship, c.Phone)
	}
	return out
}

func (m *Monitor) lookup(tripID domain.TripID) *watch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watches[tripID]
}

func (m *Monitor) remove(tripID domain.TripID) {
	m.mu.Lock()
	delete(m.watches, tripID)
	m.mu.Unlock()
}

// Shutdown notifies owners of still-active watches that monitoring is
// pausing and stops all check-in sequences. Watch state is in-memory
// only and does not survive the process.
func (m *Monitor) Shutdown(ctx context.Context) {
	m.quitOnce.Do(func() { close(m.quit) })

	m.mu.Lock()
	active := make([]*watch, 0, len(m.watches))
	for _, w := range m.watches {
		active = append(active, w)
	}
	m.mu.Unlock()

	for _, w := range active {
		w.mu.Lock()
		terminal := w.status == StateConfirmedSafe || w.status == StateEscalated
		w.mu.Unlock()
		if terminal {
			continue
		}
		if _, err := m.notifier.SendDirect(ctx, w.ownerID, notify.Message{
			Title:       "Monitoring Paused",
			Description: "The bot is restarting. Your trip monitoring will resume shortly.",
			Color:       colorBlue,
		}); err != nil {
			m.log.Warn("shutdown notice delivery failed", "trip_id", w.tripID, "err", err)
		}
	}
}

const (
	colorGreen  = 0x00FF00
	colorOrange = 0xFF6B35
	colorRed    = 0xFF0000
	colorBlue   = 0x3498DB
)
