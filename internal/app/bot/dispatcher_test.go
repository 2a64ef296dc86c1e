package bot_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	memcontacts "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/contactrepo"
	memtrips "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/triprepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/advisory"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/bot"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/contacts"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/icewatch"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/planner"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/proposals"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/trips"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	platformclock "github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/geocode"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

type sent struct {
	channel domain.ChannelID
	handle  notify.MessageHandle
	msg     notify.Message
}

type recordingNotifier struct {
	mu   sync.Mutex
	n    int
	sent []sent
}

func (r *recordingNotifier) SendDirect(ctx context.Context, user domain.UserID, msg notify.Message, options ...notify.ResponseOption) (notify.MessageHandle, error) {
	return r.record("", msg), nil
}

func (r *recordingNotifier) SendChannel(ctx context.Context, channel domain.ChannelID, msg notify.Message) (notify.MessageHandle, error) {
	return r.record(channel, msg), nil
}

func (r *recordingNotifier) record(channel domain.ChannelID, msg notify.Message) notify.MessageHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.n++
	h := notify.MessageHandle(fmt.Sprintf("msg-%d", r.n))
	r.sent = append(r.sent, sent{channel: channel, handle: h, msg: msg})
	return h
}

func (r *recordingNotifier) lastWithTitlePrefix(prefix string) (sent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if strings.HasPrefix(r.sent[i].msg.Title, prefix) {
			return r.sent[i], true
		}
	}
	return sent{}, false
}

func (r *recordingNotifier) countTitled(title string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.msg.Title == title {
			n++
		}
	}
	return n
}

type stubGeocoder struct{}

func (stubGeocoder) Geocode(ctx context.Context, location string) (geocode.Point, error) {
	return geocode.Point{Latitude: 41.42, Longitude: -73.955}, nil
}

type calmProviders struct{}

func (calmProviders) Forecast(ctx context.Context, lat, lon float64, date time.Time) (domain.Forecast, error) {
	return domain.Forecast{
		Current: domain.ConditionsSnapshot{TempC: 18, WindSpeedMS: 4, Description: "clear sky"},
		Intervals: []domain.ForecastInterval{
			{Time: date.Add(9 * time.Hour), TempC: 18, WindSpeedMS: 4},
		},
	}, nil
}

func (calmProviders) Tides(ctx context.Context, stationID string, date time.Time) ([]domain.TidePrediction, error) {
	return nil, nil
}

func (calmProviders) Currents(ctx context.Context, stationID string, date time.Time) ([]domain.CurrentPrediction, error) {
	return nil, nil
}

type fixedStations struct{}

func (fixedStations) NearestTideStation(lat, lon float64) string    { return "8518750" }
func (fixedStations) NearestCurrentStation(lat, lon float64) string { return "HUR0514" }

type fixture struct {
	d        *bot.Dispatcher
	notifier *recordingNotifier
	clk      *platformclock.FakeClock
	monitor  *icewatch.Monitor
	trips    *trips.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := platformclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &recordingNotifier{}

	tripRepo := memtrips.NewRepo()
	contactRepo := memcontacts.NewRepo()
	tripSvc := trips.NewService(tripRepo, clk, log)
	contactSvc := contacts.NewService(contactRepo, log)

	providers := calmProviders{}
	plannerSvc := planner.NewService(stubGeocoder{}, providers, providers, providers, fixedStations{}, log)

	monitor := icewatch.NewMonitor(clk, notifier, contactRepo,
		icewatch.Config{ICEChannelID: "ice-channel", ResponseWindow: time.Hour}, log)
	advisorySvc := advisory.NewService(providers, providers, notifier, clk,
		advisory.Config{}, log)
	store := proposals.NewStore(clk, time.Hour)

	d := bot.NewDispatcher(
		bot.Config{SelfID: "bot-user", ICEChannelID: "ice-channel"},
		tripSvc, contactSvc, plannerSvc, monitor, advisorySvc, store,
		notifier, clk, log)

	return &fixture{d: d, notifier: notifier, clk: clk, monitor: monitor, trips: tripSvc}
}

const planLine = `plan "Cold Spring NY" 2026-06-06 09:00 3`

func TestPlanThenSaveReaction_PersistsTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.d.HandleCommand(ctx, "u1", "general", planLine)
	proposal, ok := f.notifier.lastWithTitlePrefix("Trip Plan:")
	if !ok {
		t.Fatal("plan command produced no proposal message")
	}

	f.d.HandleReaction(ctx, bot.Reaction{UserID: "u1", Message: proposal.handle, Emoji: "📅"})

	if f.notifier.countTitled("Trip Saved") != 1 {
		t.Fatal("save reaction produced no confirmation")
	}
	list, err := f.trips.List(ctx, "u1", 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = (%v, %v), want one saved trip", list, err)
	}
	if list[0].Location != "Cold Spring NY" || list[0].DurationHours != 3 {
		t.Fatalf("saved trip = %+v", list[0])
	}

	// The proposal is consumed: reacting again saves nothing new.
	f.d.HandleReaction(ctx, bot.Reaction{UserID: "u1", Message: proposal.handle, Emoji: "📅"})
	list, _ = f.trips.List(ctx, "u1", 10)
	if len(list) != 1 {
		t.Fatalf("repeat reaction duplicated the trip: %d", len(list))
	}
}

func TestQuickStartReaction_SavesAndMonitors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.d.HandleCommand(ctx, "u1", "general", planLine)
	proposal, ok := f.notifier.lastWithTitlePrefix("Trip Plan:")
	if !ok {
		t.Fatal("plan command produced no proposal message")
	}

	f.d.HandleReaction(ctx, bot.Reaction{UserID: "u1", Message: proposal.handle, Emoji: "🚨"})

	if f.monitor.Count() != 1 {
		t.Fatalf("monitor count = %d, want 1 after quick start", f.monitor.Count())
	}
	if f.notifier.countTitled("Monitoring Started") != 1 {
		t.Fatal("quick start produced no monitoring confirmation")
	}
}

func TestReactions_FilterSelfAndNonOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.d.HandleCommand(ctx, "u1", "general", planLine)
	proposal, _ := f.notifier.lastWithTitlePrefix("Trip Plan:")

	f.d.HandleReaction(ctx, bot.Reaction{UserID: "bot-user", Message: proposal.handle, Emoji: "📅"})
	f.d.HandleReaction(ctx, bot.Reaction{UserID: "u2", Message: proposal.handle, Emoji: "📅"})

	list, _ := f.trips.List(ctx, "u1", 10)
	if len(list) != 0 || f.notifier.countTitled("Trip Saved") != 0 {
		t.Fatalf("self or non-owner reaction saved a trip: %d trips", len(list))
	}
}

func TestStartCommand_UnknownTrip(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.d.HandleCommand(context.Background(), "u1", "general", "start 42")

	last, ok := f.notifier.lastWithTitlePrefix("Error")
	if !ok || !strings.Contains(last.msg.Description, "not found") {
		t.Fatalf("start of unknown trip: got %+v", last.msg)
	}
}

func TestCheckinCommand_NoWatches(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.d.HandleCommand(context.Background(), "u1", "general", "checkin")

	last, ok := f.notifier.lastWithTitlePrefix("Check-In")
	if !ok || !strings.Contains(last.msg.Description, "no monitored trips") {
		t.Fatalf("checkin with no watches: got %+v", last.msg)
	}
}

func TestIceAddThenList(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.d.HandleCommand(ctx, "u1", "general", `ice add "Carol Danvers" 555-010-0100 spouse primary`)
	if f.notifier.countTitled("Emergency Contact Added") != 1 {
		t.Fatal("ice add produced no confirmation")
	}

	f.d.HandleCommand(ctx, "u1", "general", "ice list")
	last, ok := f.notifier.lastWithTitlePrefix("Emergency Contacts")
	if !ok || len(last.msg.Fields) != 1 {
		t.Fatalf("ice list: got %+v", last.msg)
	}
	if !strings.Contains(last.msg.Fields[0].Name, "(primary)") {
		t.Fatalf("primary marker missing: %+v", last.msg.Fields[0])
	}
}

func TestUnknownCommand_RepliesWithError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.d.HandleCommand(context.Background(), "u1", "general", "teleport home")

	last, ok := f.notifier.lastWithTitlePrefix("Error")
	if !ok || !strings.Contains(last.msg.Description, "Unknown command") {
		t.Fatalf("unknown command: got %+v", last.msg)
	}
}

func TestStatusCommand_ShowsOwnWatches(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	f.d.HandleCommand(ctx, "u1", "general", planLine)
	proposal, _ := f.notifier.lastWithTitlePrefix("Trip Plan:")
	f.d.HandleReaction(ctx, bot.Reaction{UserID: "u1", Message: proposal.handle, Emoji: "🚨"})

	f.d.HandleCommand(ctx, "u1", "general", "status")
	last, ok := f.notifier.lastWithTitlePrefix("Monitoring Status")
	if !ok {
		t.Fatal("status produced no reply")
	}
	if len(last.msg.Fields) != 1 || !strings.Contains(last.msg.Fields[0].Name, "Trip #1") {
		t.Fatalf("status fields = %+v", last.msg.Fields)
	}
}
