package analytics

// Latex quality bands on the 0-100 percentage scale.
const (
	QualityExcellent = "excellent"
	QualityGood      = "good"
	QualityFair      = "fair"
	QualityPoor      = "poor"
)

// Block health bands on the 0-1 score scale.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// QualityBands lists the quality bands in rank order, best first. Distribution
// outputs emit every band even when its count is zero.
var QualityBands = []string{QualityExcellent, QualityGood, QualityFair, QualityPoor}

// HealthBands lists the health bands in rank order, best first.
var HealthBands = []string{HealthHealthy, HealthWarning, HealthCritical}

// QualityBand maps a quality percentage to its band. Boundaries belong to the
// higher band: exactly 90 is excellent. Out-of-domain values are not clamped
// or rejected; the ordered rule simply applies.
func QualityBand(quality float64) string {
	switch {
	case quality >= 90:
		return QualityExcellent
	case quality >= 80:
		return QualityGood
	case quality >= 70:
		return QualityFair
	default:
		return QualityPoor
	}
}

// HealthBand maps a 0-1 health score to its band. Exactly 0.8 is healthy and
// exactly 0.6 is warning.
func HealthBand(score float64) string {
	switch {
	case score >= 0.8:
		return HealthHealthy
	case score >= 0.6:
		return HealthWarning
	default:
		return HealthCritical
	}
}
