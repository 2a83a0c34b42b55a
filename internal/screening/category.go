package screening

// RiskCategory is the ordinal bucket reported to callers.
type RiskCategory string

const (
	RiskLow      RiskCategory = "Low Risk"
	RiskModerate RiskCategory = "Moderate Risk"
	RiskHigh     RiskCategory = "High Risk"
)

// Category boundaries. Lower bounds are inclusive.
const (
	ModerateRiskThreshold = 0.4
	HighRiskThreshold     = 0.7
)

// Categorize buckets a risk score. Every entry point that reports a category
// goes through here.
func Categorize(risk float64) RiskCategory {
	switch {
	case risk < ModerateRiskThreshold:
		return RiskLow
	case risk < HighRiskThreshold:
		return RiskModerate
	default:
		return RiskHigh
	}
}
