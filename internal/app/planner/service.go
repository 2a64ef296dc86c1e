package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/scoring"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/conditions"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/geocode"
)

// ErrLocationNotFound reports that the requested location could not be
// geocoded. No condition providers are consulted in that case.
var ErrLocationNotFound = errors.New("Location not found")

// StationLocator resolves the NOAA stations nearest to a coordinate
// pair.
type StationLocator interface {
	NearestTideStation(lat, lon float64) string
	NearestCurrentStation(lat, lon float64) string
}

// PlanInput carries the already-validated arguments of a plan request.
type PlanInput struct {
	Location      string
	Date          time.Time
	StartTime     string
	DurationHours int
	Name          *string
}

// Service orchestrates geocoding, condition providers and scoring into
// a single trip proposal.
type Service struct {
	geocoder geocode.Geocoder
	weather  conditions.WeatherProvider
	tides    conditions.TideProvider
	currents conditions.CurrentProvider
	stations StationLocator
	log      *slog.Logger
}

func NewService(
	geocoder geocode.Geocoder,
	weather conditions.WeatherProvider,
	tides conditions.TideProvider,
	currents conditions.CurrentProvider,
	stations StationLocator,
	log *slog.Logger,
) *Service {
	return &Service{
		geocoder: geocoder,
		weather:  weather,
		tides:    tides,
		currents: currents,
		stations: stations,
		log:      log,
	}
}

// Plan builds a trip proposal for the given location and window. Any
// provider failure surfaces as a planning error; a failed plan is never
// saved or monitored.
func (s *Service) Plan(ctx context.Context, in PlanInput) (domain.TripPlan, error) {
	pt, err := s.geocoder.Geocode(ctx, in.Location)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			return domain.TripPlan{}, ErrLocationNotFound
		}
		return domain.TripPlan{}, fmt.Errorf("planning trip: %w", err)
	}

	weather, err := s.weather.Forecast(ctx, pt.Latitude, pt.Longitude, in.Date)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("planning trip: %w", err)
	}

	tideStation := s.stations.NearestTideStation(pt.Latitude, pt.Longitude)
	tides, err := s.tides.Tides(ctx, tideStation, in.Date)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("planning trip: %w", err)
	}

	currentStation := s.stations.NearestCurrentStation(pt.Latitude, pt.Longitude)
	currents, err := s.currents.Currents(ctx, currentStation, in.Date)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("planning trip: %w", err)
	}

	plan := domain.TripPlan{
		Location:      in.Location,
		Latitude:      pt.Latitude,
		Longitude:     pt.Longitude,
		Date:          in.Date,
		StartTime:     in.StartTime,
		DurationHours: in.DurationHours,
		Name:          in.Name,
		Weather:       weather,
		Tides:         tides,
		Currents:      currents,
		Safety:        scoring.AssessSafety(weather),
	}

	s.log.Info("trip planned",
		"location", in.Location, "date", in.Date.Format("2006-01-02"),
		"safety_score", plan.Safety.Score, "safety_level", plan.Safety.Level)
	return plan, nil
}
