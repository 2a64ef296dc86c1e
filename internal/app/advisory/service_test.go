package advisory_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/advisory"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/scoring"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	platformclock "github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

func interval(t time.Time, windMS, windDeg float64) domain.ForecastInterval {
	return domain.ForecastInterval{Time: t, WindSpeedMS: windMS, WindDirectionDeg: windDeg}
}

func TestAnalyzeDownwindPotential_PicksOpposedPairing(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)
	forecast := domain.Forecast{Intervals: []domain.ForecastInterval{
		interval(base, 8.0, 180),                // ~18 mph southerly
		interval(base.Add(3*time.Hour), 3.0, 0), // light northerly
	}}
	currents := []domain.CurrentPrediction{
		{Time: base.Add(30 * time.Minute), SpeedKnots: 1.5, Direction: "0"},
		{Time: base.Add(3 * time.Hour), SpeedKnots: 0.3, Direction: "170"},
	}

	best, ok := advisory.AnalyzeDownwindPotential(forecast, currents)
	if !ok {
		t.Fatal("no pairing found")
	}
	if !best.Time.Equal(base) {
		t.Fatalf("best window = %v, want the opposed morning pairing", best.Time)
	}
	if best.OppositionAngle != 180 {
		t.Fatalf("opposition = %v, want 180", best.OppositionAngle)
	}
	if best.Quality < scoring.AlertThreshold {
		t.Fatalf("quality = %v, want alert-grade for 18 mph against 1.5 kn", best.Quality)
	}
}

func TestAnalyzeDownwindPotential_IgnoresAlignedAndDistantPairs(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)
	forecast := domain.Forecast{Intervals: []domain.ForecastInterval{
		interval(base, 8.0, 180),
	}}
	currents := []domain.CurrentPrediction{
		{Time: base, SpeedKnots: 1.5, Direction: "175"},                // aligned with wind
		{Time: base.Add(5 * time.Hour), SpeedKnots: 1.5, Direction: "0"}, // too far in time
		{Time: base, SpeedKnots: 1.5, Direction: "slack"},              // unparsable
	}

	if _, ok := advisory.AnalyzeDownwindPotential(forecast, currents); ok {
		t.Fatal("found a pairing from aligned, distant or unparsable candidates")
	}
}

func TestAnalyzeDownwindPotential_SkipsCalmConditions(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)
	forecast := domain.Forecast{Intervals: []domain.ForecastInterval{
		interval(base, 2.0, 180),               // ~4.5 mph, below the wind floor
		interval(base.Add(3*time.Hour), 8, 180), // real wind, but only a weak current nearby
	}}
	currents := []domain.CurrentPrediction{
		{Time: base, SpeedKnots: 1.5, Direction: "0"},                    // perfectly opposed, wind too light
		{Time: base.Add(3 * time.Hour), SpeedKnots: 0.4, Direction: "0"}, // current below the floor
	}

	if best, ok := advisory.AnalyzeDownwindPotential(forecast, currents); ok {
		t.Fatalf("calm pairing qualified at quality %.1f", best.Quality)
	}
}

type stubProviders struct {
	mu       sync.Mutex
	forecast domain.Forecast
	currents []domain.CurrentPrediction
	checks   int
}

func (p *stubProviders) Forecast(ctx context.Context, lat, lon float64, date time.Time) (domain.Forecast, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks++
	return p.forecast, nil
}

func (p *stubProviders) Currents(ctx context.Context, stationID string, date time.Time) ([]domain.CurrentPrediction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currents, nil
}

type countingNotifier struct {
	mu       sync.Mutex
	channels int
}

func (n *countingNotifier) SendDirect(ctx context.Context, user domain.UserID, msg notify.Message, options ...notify.ResponseOption) (notify.MessageHandle, error) {
	return "dm", nil
}

func (n *countingNotifier) SendChannel(ctx context.Context, channel domain.ChannelID, msg notify.Message) (notify.MessageHandle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channels++
	return "ch", nil
}

func (n *countingNotifier) channelCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.channels
}

func (n *countingNotifier) waitChannelCount(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n.channelCount() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("channel messages = %d, want %d", n.channelCount(), want)
}

// alertGradeConditions returns a forecast/current pair whose best window
// scores at or above the alert threshold regardless of fetch time.
func alertGradeConditions(at time.Time) (domain.Forecast, []domain.CurrentPrediction) {
	f := domain.Forecast{Intervals: []domain.ForecastInterval{interval(at, 8.0, 180)}}
	c := []domain.CurrentPrediction{{Time: at, SpeedKnots: 1.5, Direction: "0"}}
	return f, c
}

func TestCheck_AlertsAtMostOncePerDay(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 6, 8, 0, 0, 0, time.UTC)
	clk := platformclock.NewFakeClock(start)
	providers := &stubProviders{}
	providers.forecast, providers.currents = alertGradeConditions(start)
	notifier := &countingNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := advisory.NewService(providers, providers, notifier, clk,
		advisory.Config{ChannelID: "advisory"}, log)
	ctx := context.Background()

	if _, ok, err := svc.Check(ctx); err != nil || !ok {
		t.Fatalf("first Check = (ok=%v, err=%v)", ok, err)
	}
	notifier.waitChannelCount(t, 1)

	if _, _, err := svc.Check(ctx); err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if notifier.channelCount() != 1 {
		t.Fatalf("second same-day check alerted again: %d", notifier.channelCount())
	}

	clk.Advance(24 * time.Hour)
	if _, _, err := svc.Check(ctx); err != nil {
		t.Fatalf("next-day Check: %v", err)
	}
	notifier.waitChannelCount(t, 2)
}

func TestRun_TicksOnClockAndStops(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 6, 8, 0, 0, 0, time.UTC)
	clk := platformclock.NewFakeClock(start)
	providers := &stubProviders{}
	notifier := &countingNotifier{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := advisory.NewService(providers, providers, notifier, clk,
		advisory.Config{ChannelID: "advisory"}, log)

	done := make(chan struct{})
	go func() {
		svc.Run(context.Background())
		close(done)
	}()

	clk.BlockUntilWaiters(1)
	clk.Advance(2 * time.Hour)
	waitChecks(t, providers, 1)

	clk.BlockUntilWaiters(1)
	clk.Advance(2 * time.Hour)
	waitChecks(t, providers, 2)

	svc.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func waitChecks(t *testing.T, p *stubProviders, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		n := p.checks
		p.mu.Unlock()
		if n >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("checks did not reach %d", want)
}
