package scoring

import (
	"math"
	"strconv"
	"strings"
)

var compassPoints = []string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// DirectionText converts a bearing in degrees to a 16-point compass
// label.
func DirectionText(degrees float64) string {
	idx := int(math.Round(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

// MSToKnots converts meters per second to knots.
func MSToKnots(ms float64) float64 { return ms * 1.944 }

// MSToMPH converts meters per second to miles per hour.
func MSToMPH(ms float64) float64 { return ms * 2.237 }

// MSToKMH converts meters per second to kilometers per hour.
func MSToKMH(ms float64) float64 { return ms * 3.6 }

// MSToBeaufort converts meters per second to the Beaufort scale.
func MSToBeaufort(ms float64) int {
	bounds := []float64{0.3, 1.6, 3.4, 5.5, 8.0, 10.8, 13.9, 17.2, 20.8, 24.5, 28.5, 32.7}
	for force, upper := range bounds {
		if ms < upper {
			return force
		}
	}
	return 12
}

// ParseDirection parses a current direction reported by a station in
// any of the formats NOAA stations use: plain degrees ("225", "225°"),
// or compass points ("SW"). Returns ok=false when unparseable.
func ParseDirection(s string) (float64, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	if deg, err := strconv.ParseFloat(s, 64); err == nil {
		return deg, true
	}

	for i, point := range compassPoints {
		if s == point {
			return float64(i) * 22.5, true
		}
	}

	cleaned := strings.NewReplacer("°", "", "DEGREES", "", "DEG", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if deg, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return deg, true
	}
	return 0, false
}

// OppositionAngle reduces the difference between two bearings to the
// 0-180 range, accounting for compass wraparound.
func OppositionAngle(a, b float64) float64 {
	diff := math.Abs(a - b)
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}
