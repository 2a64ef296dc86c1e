package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/advisory"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/contacts"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/icewatch"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/planner"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/proposals"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/trips"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

// Reaction emojis the dispatcher understands.
const (
	emojiSave       = "📅"
	emojiQuickStart = "🚨"
	emojiStart      = "▶️"
	emojiStop       = "⏹️"
	emojiCheckIn    = "✅"
	emojiHelp       = "🆘"
)

// Config wires the dispatcher's identity and channels.
type Config struct {
	// SelfID is the bot's own user id. Reactions originating from it are
	// ignored so the bot's prompt emojis never trigger handlers.
	SelfID       domain.UserID
	ICEChannelID domain.ChannelID
	// RefTTL bounds how long a trip-view message stays actionable.
	// Defaults to 1h.
	RefTTL time.Duration
}

// Reaction is one emoji added to a message the bot previously sent.
type Reaction struct {
	UserID  domain.UserID
	Message notify.MessageHandle
	Emoji   string
}

type viewRef struct {
	tripID  domain.TripID
	ownerID domain.UserID
	channel domain.ChannelID
	at      time.Time
}

// Dispatcher routes chat commands and reactions to the application
// services and renders their replies. All user input errors come back as
// messages, never as dispatcher errors.
type Dispatcher struct {
	cfg       Config
	trips     *trips.Service
	contacts  *contacts.Service
	planner   *planner.Service
	monitor   *icewatch.Monitor
	advisory  *advisory.Service
	proposals *proposals.Store
	notifier  notify.Notifier
	clock     clock.Clock
	log       *slog.Logger

	mu    sync.Mutex
	views map[notify.MessageHandle]viewRef
}

func NewDispatcher(
	cfg Config,
	tripSvc *trips.Service,
	contactSvc *contacts.Service,
	plannerSvc *planner.Service,
	monitor *icewatch.Monitor,
	advisorySvc *advisory.Service,
	proposalStore *proposals.Store,
	notifier notify.Notifier,
	clk clock.Clock,
	log *slog.Logger,
) *Dispatcher {
	if cfg.RefTTL <= 0 {
		cfg.RefTTL = time.Hour
	}
	return &Dispatcher{
		cfg:       cfg,
		trips:     tripSvc,
		contacts:  contactSvc,
		planner:   plannerSvc,
		monitor:   monitor,
		advisory:  advisorySvc,
		proposals: proposalStore,
		notifier:  notifier,
		clock:     clk,
		log:       log,
		views:     make(map[notify.MessageHandle]viewRef),
	}
}

// HandleCommand processes one command line (prefix already stripped)
// from a user in a channel.
func (d *Dispatcher) HandleCommand(ctx context.Context, user domain.UserID, channel domain.ChannelID, line string) {
	args, err := splitArgs(strings.TrimSpace(line))
	if err != nil {
		d.reply(ctx, channel, errorMessage(err.Error()))
		return
	}
	if len(args) == 0 {
		d.reply(ctx, channel, renderHelp())
		return
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "plan":
		d.handlePlan(ctx, user, channel, rest)
	case "list":
		d.handleList(ctx, user, channel)
	case "view":
		d.handleView(ctx, user, channel, rest)
	case "start":
		d.handleStart(ctx, user, channel, rest)
	case "checkin":
		d.handleCheckIn(ctx, user, channel)
	case "ice":
		d.handleICE(ctx, user, channel, rest)
	case "status":
		d.handleStatus(ctx, user, channel)
	case "hudson":
		d.handleHudson(ctx, channel)
	case "help":
		d.reply(ctx, channel, renderHelp())
	default:
		d.reply(ctx, channel, errorMessage(
			fmt.Sprintf("Unknown command %q. Try help.", cmd)))
	}
}

func (d *Dispatcher) handlePlan(ctx context.Context, user domain.UserID, channel domain.ChannelID, args []string) {
	if len(args) < 4 {
		d.reply(ctx, channel, errorMessage(
			"Usage: plan \"<location>\" <YYYY-MM-DD> <HH:MM> <hours> [\"name\"]"))
		return
	}
	date, err := parseDate(args[1])
	if err != nil {
		d.reply(ctx, channel, errorMessage(err.Error()))
		return
	}
	startTime, err := parseStartTime(args[2])
	if err != nil {
		d.reply(ctx, channel, errorMessage(err.Error()))
		return
	}
	hours, err := parseHours(args[3])
	if err != nil {
		d.reply(ctx, channel, errorMessage(err.Error()))
		return
	}
	in := planner.PlanInput{
		Location:      args[0],
		Date:          date,
		StartTime:     startTime,
		DurationHours: hours,
	}
	if len(args) >= 5 {
		name := domain.NormalizeHumanName(args[4])
		if name != "" {
			in.Name = &name
		}
	}

	plan, err := d.planner.Plan(ctx, in)
	if err != nil {
		if errors.Is(err, planner.ErrLocationNotFound) {
			d.reply(ctx, channel, errorMessage("Location not found"))
			return
		}
		d.log.Error("plan command failed", "error", err, "user_id", user)
		d.reply(ctx, channel, errorMessage("Error planning trip. Please try again later."))
		return
	}

	handle, err := d.notifier.SendChannel(ctx, channel, renderPlan(plan))
	if err != nil {
		d.log.Error("plan reply send failed", "error", err)
		return
	}
	d.proposals.Put(handle, proposals.Proposal{
		OwnerID:   user,
		ChannelID: channel,
		Plan:      plan,
	})
}

func (d *Dispatcher) handleList(ctx context.Context, user domain.UserID, channel domain.ChannelID) {
	list, err := d.trips.List(ctx, user, trips.DefaultListLimit)
	if err != nil {
		d.log.Error("list command failed", "error", err, "user_id", user)
		d.reply(ctx, channel, errorMessage("Could not load your trips."))
		return
	}
	d.reply(ctx, channel, renderTripList(list))
}

func (d *Dispatcher) handleView(ctx context.Context, user domain.UserID, channel domain.ChannelID, args []string) {
	if len(args) < 1 {
		d.reply(ctx, channel, errorMessage("Usage: view <trip_id>"))
		return
	}
	id, err := parseTripID(args[0])
	if err != nil {
		d.reply(ctx, channel, errorMessage(err.Error()))
		return
	}
	trip, err := d.trips.Get(ctx, domain.TripID(id), user)
	if err != nil {
		if errors.Is(err, trips.ErrNotFound) {
			d.reply(ctx, channel, errorMessage(fmt.Sprintf("Trip #%d not found.", id)))
			return
		}
		d.log.Error("view command failed", "error", err, "user_id", user)
		d.reply(ctx, channel, errorMessage("Could not load the trip."))
		return
	}

	var watch *icewatch.WatchStatus
	if w, ok := d.monitor.Status(trip.ID); ok {
		watch = &w
	}
	handle, err := d.notifier.SendChannel(ctx, channel, renderTripView(trip, watch))
	if err != nil {
		d.log.Error("view reply send failed", "error", err)
		return
	}
	d.rememberView(handle, trip.ID, user, channel)
}

func (d *Dispatcher) handleStart(ctx context.Context, user domain.UserID, channel domain.ChannelID, args []string) {
	if len(args) < 1 {
		d.reply(ctx, channel, errorMessage("Usage: start <trip_id>"))
		return
	}
	id, err := parseTripID(args[0])
	if err != nil {
		d.reply(ctx, channel, errorMessage(err.Error()))
		return
	}
	d.startMonitoring(ctx, domain.TripID(id), user, channel)
}

func (d *Dispatcher) startMonitoring(ctx context.Context, id domain.TripID, user domain.UserID, channel domain.ChannelID) {
	trip, err := d.trips.Get(ctx, id, user)
	if err != nil {
		if errors.Is(err, trips.ErrNotFound) {
			d.reply(ctx, channel, errorMessage(fmt.Sprintf("Trip #%d not found.", id)))
			return
		}
		d.log.Error("start failed loading trip", "error", err, "trip_id", id)
		d.reply(ctx, channel, errorMessage("Could not load the trip."))
		return
	}

	err = d.monitor.StartWatch(ctx, trip.ID, user, trip.DurationHours, d.cfg.ICEChannelID)
	switch {
	case errors.Is(err, icewatch.ErrAlreadyMonitored):
		d.reply(ctx, channel, errorMessage(
			fmt.Sprintf("Trip #%d is already being monitored.", id)))
	case err != nil:
		d.log.Error("start watch failed", "error", err, "trip_id", id)
		d.reply(ctx, channel, errorMessage("Could not start monitoring."))
	default:
		d.reply(ctx, channel, notify.Message{
			Title: "Monitoring Started",
			Description: fmt.Sprintf(
				"Trip #%d is monitored for %d hours. Check in with the checkin command when you are back.",
				id, trip.DurationHours),
			Color: colorGreen,
		})
	}
}

func (d *Dispatcher) handleCheckIn(ctx context.Context, user domain.UserID, channel domain.ChannelID) {
	watches := d.monitor.ActiveFor(user)
	confirmed := 0
	for _, w := range watches {
		if d.monitor.ConfirmSafe(ctx, w.TripID) {
			confirmed++
		}
	}
	if confirmed == 0 {
		d.reply(ctx, channel, infoMessage("Check-In",
			"You have no monitored trips awaiting a check-in."))
		return
	}
	d.reply(ctx, channel, notify.Message{
		Title:       "Checked In",
		Description: fmt.Sprintf("Confirmed safe return for %d trip(s). Welcome back!", confirmed),
		Color:       colorGreen,
	})
}

func (d *Dispatcher) handleICE(ctx context.Context, user domain.UserID, channel domain.ChannelID, args []string) {
	if len(args) == 0 {
		d.reply(ctx, channel, errorMessage("Usage: ice add|list"))
		return
	}
	switch strings.ToLower(args[0]) {
	case "add":
		d.handleICEAdd(ctx, user, channel, args[1:])
	case "list":
		list, err := d.contacts.List(ctx, user)
		if err != nil {
			d.log.Error("ice list failed", "error", err, "user_id", user)
			d.reply(ctx, channel, errorMessage("Could not load your contacts."))
			return
		}
		d.reply(ctx, channel, renderContactList(list))
	default:
		d.reply(ctx, channel, errorMessage("Usage: ice add|list"))
	}
}

func (d *Dispatcher) handleICEAdd(ctx context.Context, user domain.UserID, channel domain.ChannelID, args []string) {
	if len(args) < 2 {
		d.reply(ctx, channel, errorMessage(
			"Usage: ice add \"<name>\" <phone> [relationship] [primary]"))
		return
	}
	relationship := ""
	primary := false
	for _, extra := range args[2:] {
		if strings.EqualFold(extra, "primary") {
			primary = true
			continue
		}
		relationship = extra
	}

	c, err := d.contacts.Add(ctx, user, args[0], args[1], relationship, primary)
	if err != nil {
		if errors.Is(err, contacts.ErrInvalidName) || errors.Is(err, contacts.ErrInvalidPhone) {
			d.reply(ctx, channel, errorMessage(err.Error()))
			return
		}
		d.log.Error("ice add failed", "error", err, "user_id", user)
		d.reply(ctx, channel, errorMessage("Could not save the contact."))
		return
	}

	desc := fmt.Sprintf("%s (%s) added", c.Name, c.Phone)
	if c.IsPrimary {
		desc += " as primary contact"
	}
	d.reply(ctx, channel, notify.Message{
		Title: "Emergency Contact Added", Description: desc + ".", Color: colorGreen,
	})
}

func (d *Dispatcher) handleStatus(ctx context.Context, user domain.UserID, channel domain.ChannelID) {
	d.reply(ctx, channel, renderStatus(d.monitor.Count(), d.monitor.ActiveFor(user), d.clock.Now()))
}

func (d *Dispatcher) handleHudson(ctx context.Context, channel domain.ChannelID) {
	analysis, found, err := d.advisory.Check(ctx)
	if err != nil {
		d.log.Error("hudson command failed", "error", err)
		d.reply(ctx, channel, errorMessage("Could not analyze Hudson conditions right now."))
		return
	}
	d.reply(ctx, channel, renderDownwind(analysis, found))
}

// HandleReaction routes an emoji reaction. Reactions from the bot
// itself are dropped so seeding a message with prompt emojis cannot
// feed back into the handlers.
func (d *Dispatcher) HandleReaction(ctx context.Context, r Reaction) {
	if r.UserID == d.cfg.SelfID {
		return
	}

	if p, ok := d.proposals.Peek(r.Message); ok {
		if p.OwnerID != r.UserID {
			return
		}
		switch r.Emoji {
		case emojiSave:
			d.saveProposal(ctx, r.Message, false)
		case emojiQuickStart:
			d.saveProposal(ctx, r.Message, true)
		}
		return
	}

	if ref, ok := d.lookupView(r.Message); ok {
		if ref.ownerID != r.UserID {
			return
		}
		switch r.Emoji {
		case emojiStart:
			d.startMonitoring(ctx, ref.tripID, ref.ownerID, ref.channel)
		case emojiStop:
			if d.monitor.StopWatch(ctx, ref.tripID) {
				d.log.Info("watch stopped by reaction", "trip_id", ref.tripID)
			}
		case emojiCheckIn:
			d.monitor.ConfirmSafe(ctx, ref.tripID)
		}
		return
	}

	// Not one of our tracked messages: treat ✅/🆘 as a reply to a
	// pending check-in request for this user.
	switch r.Emoji {
	case emojiCheckIn:
		for _, w := range d.monitor.ActiveFor(r.UserID) {
			if w.State == icewatch.StateAwaiting || w.State == icewatch.StateRunning {
				d.monitor.ConfirmSafe(ctx, w.TripID)
				return
			}
		}
	case emojiHelp:
		for _, w := range d.monitor.ActiveFor(r.UserID) {
			if w.State == icewatch.StateAwaiting || w.State == icewatch.StateRunning {
				d.monitor.RequestHelp(ctx, w.TripID)
				return
			}
		}
	}
}

func (d *Dispatcher) saveProposal(ctx context.Context, handle notify.MessageHandle, quickStart bool) {
	p, ok := d.proposals.Take(handle)
	if !ok {
		return
	}
	trip, err := d.trips.Save(ctx, p.OwnerID, p.Plan, "", "")
	if err != nil {
		d.log.Error("saving proposal failed", "error", err, "owner_id", p.OwnerID)
		d.reply(ctx, p.ChannelID, errorMessage("Could not save the trip."))
		return
	}

	if !quickStart {
		d.reply(ctx, p.ChannelID, notify.Message{
			Title: "Trip Saved",
			Description: fmt.Sprintf("Saved as trip #%d. Start monitoring with: start %d",
				trip.ID, trip.ID),
			Color: colorGreen,
		})
		return
	}
	d.startMonitoring(ctx, trip.ID, p.OwnerID, p.ChannelID)
}

func (d *Dispatcher) rememberView(handle notify.MessageHandle, tripID domain.TripID, owner domain.UserID, channel domain.ChannelID) {
	now := d.clock.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for h, ref := range d.views {
		if now.Sub(ref.at) > d.cfg.RefTTL {
			delete(d.views, h)
		}
	}
	d.views[handle] = viewRef{tripID: tripID, ownerID: owner, channel: channel, at: now}
}

func (d *Dispatcher) lookupView(handle notify.MessageHandle) (viewRef, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ref, ok := d.views[handle]
	if !ok {
		return viewRef{}, false
	}
	if d.clock.Now().Sub(ref.at) > d.cfg.RefTTL {
		delete(d.views, handle)
		return viewRef{}, false
	}
	return ref, true
}

func (d *Dispatcher) reply(ctx context.Context, channel domain.ChannelID, msg notify.Message) {
	if _, err := d.notifier.SendChannel(ctx, channel, msg); err != nil {
		d.log.Error("reply send failed", "error", err, "channel_id", channel)
	}
}
