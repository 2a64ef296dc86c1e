package domain

import "time"

// ConditionsSnapshot is a single observation of weather conditions.
// Temperatures are whole degrees Celsius.
type ConditionsSnapshot struct {
	TempC            int
	FeelsLikeC       int
	Humidity         int
	WindSpeedMS      float64
	WindDirectionDeg float64
	Description      string
	VisibilityM      int
}

// ForecastInterval is one forecast step within the trip window.
type ForecastInterval struct {
	Time             time.Time
	TempC            int
	WindSpeedMS      float64
	WindDirectionDeg float64
	Description      string
	PrecipitationMM  float64
}

// Forecast combines current conditions with the forecast intervals that
// fall on the trip date.
type Forecast struct {
	Current   ConditionsSnapshot
	Intervals []ForecastInterval
}

type TideType string

const (
	TideHigh TideType = "H"
	TideLow  TideType = "L"
)

// TidePrediction is one high/low tide event at a NOAA station.
type TidePrediction struct {
	Time     time.Time
	HeightFt float64
	Type     TideType
}

// CurrentPrediction is one current prediction at a NOAA station.
// Direction is free text from the station (degrees or compass points).
type CurrentPrediction struct {
	Time       time.Time
	SpeedKnots float64
	Direction  string
	Type       string
}
