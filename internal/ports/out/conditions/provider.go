package conditions

import (
	"context"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// WeatherProvider fetches current conditions plus the forecast intervals
// falling on date for a coordinate pair.
type WeatherProvider interface {
	Forecast(ctx context.Context, lat, lon float64, date time.Time) (domain.Forecast, error)
}

// TideProvider fetches high/low tide predictions for a station and date.
type TideProvider interface {
	Tides(ctx context.Context, stationID string, date time.Time) ([]domain.TidePrediction, error)
}

// CurrentProvider fetches current predictions for a station and date.
type CurrentProvider interface {
	Currents(ctx context.Context, stationID string, date time.Time) ([]domain.CurrentPrediction, error)
}
