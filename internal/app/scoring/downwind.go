package scoring

// Downwind scoring thresholds. Wind opposing current in the 120-180°
// band builds the steep following seas downwind paddlers look for.
const (
	MinOppositionAngle = 120.0

	// MinWindMPH and MinCurrentKnots are the floors below which a
	// pairing is not worth scoring; calm conditions never qualify.
	MinWindMPH      = 10.0
	MinCurrentKnots = 1.0

	// ReportThreshold is the minimum quality worth mentioning at all.
	ReportThreshold = 50.0
	// AlertThreshold is the minimum quality that triggers the advisory.
	AlertThreshold = 75.0
)

// DownwindQuality scores a wind/current pairing for downwind runs on a
// 0-100 scale from fixed piecewise tables. oppositionAngle is the
// reduced (0-180°) angle between wind and current bearings; 180° is
// perfect opposition.
func DownwindQuality(windMPH, currentKnots, oppositionAngle float64) float64 {
	score := 0.0

	switch {
	case windMPH >= 10 && windMPH <= 15:
		score += 35
	case windMPH > 15 && windMPH <= 20:
		score += 40
	case windMPH > 20 && windMPH <= 25:
		score += 35
	case windMPH > 25 && windMPH <= 30:
		score += 25
	default:
		score += 10
	}

	switch {
	case currentKnots >= 1.0 && currentKnots <= 2.0:
		score += 30
	case currentKnots > 2.0 && currentKnots <= 3.0:
		score += 25
	case currentKnots >= 0.5 && currentKnots < 1.0:
		score += 20
	default:
		score += 10
	}

	angleQuality := 100 - abs(180-oppositionAngle)*2
	if angleQuality > 0 {
		score += angleQuality * 0.35
	}

	if score > 100 {
		score = 100
	}
	return score
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
