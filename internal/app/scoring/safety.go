// Package scoring computes deterministic safety and quality scores from
// structured condition data. Everything here is pure: no I/O, no state,
// same inputs always yield the same outputs.
package scoring

import "github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"

const (
	// windSpeedThreshold is the knots-equivalent wind speed above which
	// a trip takes the high-wind penalty.
	windSpeedThreshold = 15.0

	windPenalty          = 30
	precipitationPenalty = 20
)

const (
	colorGreen  = 0x00FF00
	colorYellow = 0xFFFF00
	colorOrange = 0xFF6B35
	colorRed    = 0xFF0000
)

// AssessSafety scores forecast conditions for a planned trip.
// The score starts at 100; high wind at trip time subtracts 30 and any
// precipitation in the trip window subtracts 20, each contributing one
// warning.
func AssessSafety(f domain.Forecast) domain.SafetyAssessment {
	score := 100
	var warnings []string

	if f.Current.WindSpeedMS > windSpeedThreshold {
		score -= windPenalty
		warnings = append(warnings, "High wind speeds expected")
	}

	for _, iv := range f.Intervals {
		if iv.PrecipitationMM > 0 {
			score -= precipitationPenalty
			warnings = append(warnings, "Precipitation expected")
			break
		}
	}

	level, color := levelFor(score)
	return domain.SafetyAssessment{
		Score:    score,
		Level:    level,
		Color:    color,
		Warnings: warnings,
	}
}

func levelFor(score int) (domain.SafetyLevel, int) {
	switch {
	case score >= 80:
		return domain.SafetyGood, colorGreen
	case score >= 60:
		return domain.SafetyFair, colorYellow
	case score >= 40:
		return domain.SafetyPoor, colorOrange
	default:
		return domain.SafetyDangerous, colorRed
	}
}
