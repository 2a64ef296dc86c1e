package noaa

import (
	"github.com/golang/geo/s2"
)

// Station is one NOAA observation station with its position.
type Station struct {
	ID   string
	Name string
	Lat  float64
	Lon  float64
}

// Hudson-corridor stations the bot serves. Small enough to scan
// linearly.
var tideStations = []Station{
	{ID: "8518750", Name: "The Battery", Lat: 40.7006, Lon: -74.0142},
	{ID: "8518905", Name: "Spuyten Duyvil", Lat: 40.8783, Lon: -73.9217},
	{ID: "8518934", Name: "Haverstraw Bay", Lat: 41.1967, Lon: -73.9483},
	{ID: "8518951", Name: "West Point", Lat: 41.3867, Lon: -73.9550},
	{ID: "8514053", Name: "Poughkeepsie", Lat: 41.7050, Lon: -73.9383},
	{ID: "8518995", Name: "Albany", Lat: 42.6433, Lon: -73.7500},
}

var currentStations = []Station{
	{ID: "NYH1927", Name: "Hudson River Entrance", Lat: 40.7083, Lon: -74.0250},
	{ID: "HUR0501", Name: "George Washington Bridge", Lat: 40.8500, Lon: -73.9500},
	{ID: "HUR0514", Name: "West Point", Lat: 41.3900, Lon: -73.9567},
	{ID: "HUR0532", Name: "Poughkeepsie Bridge", Lat: 41.7033, Lon: -73.9450},
}

// Stations selects the nearest tide and current stations by
// great-circle distance.
type Stations struct {
	tide    []Station
	current []Station
}

func NewStations() *Stations {
	return &Stations{tide: tideStations, current: currentStations}
}

func (s *Stations) NearestTideStation(lat, lon float64) string {
	return nearest(s.tide, lat, lon)
}

func (s *Stations) NearestCurrentStation(lat, lon float64) string {
	return nearest(s.current, lat, lon)
}

func nearest(stations []Station, lat, lon float64) string {
	if len(stations) == 0 {
		return ""
	}
	from := s2.LatLngFromDegrees(lat, lon)
	best := stations[0]
	bestDist := from.Distance(s2.LatLngFromDegrees(best.Lat, best.Lon))
	for _, st := range stations[1:] {
		d := from.Distance(s2.LatLngFromDegrees(st.Lat, st.Lon))
		if d < bestDist {
			best = st
			bestDist = d
		}
	}
	return best.ID
}
