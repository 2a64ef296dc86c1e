package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/scoring"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/conditions"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

// Pairing window when matching a current prediction to a forecast
// interval.
const pairingWindow = 90 * time.Minute

// Analysis is the best wind-against-current window found in a forecast.
type Analysis struct {
	Time             time.Time
	WindMPH          float64
	WindDirectionDeg float64
	CurrentKnots     float64
	CurrentDirection string
	OppositionAngle  float64
	Quality          float64
}

// AnalyzeDownwindPotential scans forecast intervals against current
// predictions and returns the highest-quality pairing where wind
// opposes current by at least the minimum opposition angle. Calm
// intervals (wind below MinWindMPH, current below MinCurrentKnots) and
// pairings scoring below ReportThreshold never qualify. The second
// return reports whether any qualifying pairing was found.
func AnalyzeDownwindPotential(forecast domain.Forecast, currents []domain.CurrentPrediction) (Analysis, bool) {
	var best Analysis
	found := false

	for _, iv := range forecast.Intervals {
		windMPH := scoring.MSToMPH(iv.WindSpeedMS)
		if windMPH < scoring.MinWindMPH {
			continue
		}
		for _, cp := range currents {
			if cp.SpeedKnots < scoring.MinCurrentKnots {
				continue
			}
			gap := iv.Time.Sub(cp.Time)
			if gap < 0 {
				gap = -gap
			}
			if gap > pairingWindow {
				continue
			}
			curDeg, ok := scoring.ParseDirection(cp.Direction)
			if !ok {
				continue
			}
			angle := scoring.OppositionAngle(iv.WindDirectionDeg, curDeg)
			if angle < scoring.MinOppositionAngle {
				continue
			}
			q := scoring.DownwindQuality(windMPH, cp.SpeedKnots, angle)
			if q < scoring.ReportThreshold {
				continue
			}
			if !found || q > best.Quality {
				best = Analysis{
					Time:             iv.Time,
					WindMPH:          windMPH,
					WindDirectionDeg: iv.WindDirectionDeg,
					CurrentKnots:     cp.SpeedKnots,
					CurrentDirection: cp.Direction,
					OppositionAngle:  angle,
					Quality:          q,
				}
				found = true
			}
		}
	}
	return best, found
}

// Config holds the advisory scheduler settings. The default site is the
// Beacon reach of the Hudson.
type Config struct {
	ChannelID        domain.ChannelID
	Interval         time.Duration
	Latitude         float64
	Longitude        float64
	CurrentStationID string
}

func (c *Config) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Hour
	}
	if c.Latitude == 0 && c.Longitude == 0 {
		c.Latitude, c.Longitude = 41.5048, -73.9696
	}
	if c.CurrentStationID == "" {
		c.CurrentStationID = "HUR0514"
	}
}

// Service periodically checks Hudson downwind conditions and posts at
// most one alert per calendar day to the advisory channel.
type Service struct {
	weather  conditions.WeatherProvider
	currents conditions.CurrentProvider
	notifier notify.Notifier
	clock    clock.Clock
	cfg      Config
	log      *slog.Logger

	mu           sync.Mutex
	lastAlertDay string

	quit     chan struct{}
	quitOnce sync.Once
}

func NewService(
	weather conditions.WeatherProvider,
	currents conditions.CurrentProvider,
	notifier notify.Notifier,
	clk clock.Clock,
	cfg Config,
	log *slog.Logger,
) *Service {
	cfg.applyDefaults()
	return &Service{
		weather:  weather,
		currents: currents,
		notifier: notifier,
		clock:    clk,
		cfg:      cfg,
		log:      log,
		quit:     make(chan struct{}),
	}
}

// Run drives the periodic check loop until the context is cancelled or
// Stop is called. Check failures are logged and the loop keeps going.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-s.clock.After(s.cfg.Interval):
			if _, _, err := s.Check(ctx); err != nil {
				s.log.Error("downwind advisory check failed", "error", err)
			}
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		}
	}
}

// Stop terminates the Run loop. Safe to call more than once.
func (s *Service) Stop() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Check fetches conditions, analyzes downwind potential, and posts a
// channel alert when the best window clears the alert threshold and no
// alert has been posted today. It returns the analysis so the manual
// command path can render it regardless of the alert gate.
func (s *Service) Check(ctx context.Context) (Analysis, bool, error) {
	now := s.clock.Now()

	forecast, err := s.weather.Forecast(ctx, s.cfg.Latitude, s.cfg.Longitude, now)
	if err != nil {
		return Analysis{}, false, fmt.Errorf("advisory forecast: %w", err)
	}
	currents, err := s.currents.Currents(ctx, s.cfg.CurrentStationID, now)
	if err != nil {
		return Analysis{}, false, fmt.Errorf("advisory currents: %w", err)
	}

	best, found := AnalyzeDownwindPotential(forecast, currents)
	if !found {
		return Analysis{}, false, nil
	}

	s.log.Info("downwind analysis",
		"quality", best.Quality, "wind_mph", best.WindMPH,
		"current_kn", best.CurrentKnots, "window", best.Time)

	if best.Quality >= scoring.AlertThreshold && s.cfg.ChannelID != "" {
		day := now.Format("2006-01-02")
		s.mu.Lock()
		alreadyAlerted := s.lastAlertDay == day
		if !alreadyAlerted {
			s.lastAlertDay = day
		}
		s.mu.Unlock()

		if !alreadyAlerted {
			if _, err := s.notifier.SendChannel(ctx, s.cfg.ChannelID, alertMessage(best)); err != nil {
				s.log.Error("downwind alert send failed", "error", err)
			}
		}
	}
	return best, true, nil
}

func alertMessage(a Analysis) notify.Message {
	return notify.Message{
		Title: "Hudson Downwind Alert",
		Description: fmt.Sprintf(
			"Strong downwind potential around %s: quality %.0f/100.",
			a.Time.Format("Mon 15:04"), a.Quality),
		Color: 0x3498DB,
		Fields: []notify.Field{
			{Name: "Wind", Value: fmt.Sprintf("%.0f mph @ %s", a.WindMPH, scoring.DirectionText(a.WindDirectionDeg)), Inline: true},
			{Name: "Current", Value: fmt.Sprintf("%.1f kn %s", a.CurrentKnots, a.CurrentDirection), Inline: true},
			{Name: "Opposition", Value: fmt.Sprintf("%.0f°", a.OppositionAngle), Inline: true},
		},
	}
}
