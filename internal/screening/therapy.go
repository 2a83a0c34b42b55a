package screening

// Therapy names recommended by the plan rules.
const (
	TherapySpeechLanguage   = "Speech and Language Therapy"
	TherapySocialTraining   = "Social Interaction Training"
	TherapyBehavioralABA    = "Behavioral Therapy (ABA-based)"
	TherapyFamilyCounseling = "Family Counseling & Early Intervention Support"
)

// Intervention intensity tiers.
const (
	IntensityHigh     = "High-Intensity Structured Intervention Plan"
	IntensityModerate = "Moderate Structured Intervention Plan"
	IntensityRoutine  = "Routine Developmental Monitoring"

	// IntensityGamified is recorded for gamified sessions, which skip plan generation.
	IntensityGamified = "Routine developmental play"
)

// Rule thresholds.
const (
	communicationConcernScore = 6
	lowEngagementThreshold    = 0.5
	repetitiveBehaviorCount   = 2
)

// TherapyPlan is the intervention recommendation for one screening.
type TherapyPlan struct {
	InterventionIntensity string   `json:"intervention_intensity"`
	RecommendedTherapies  []string `json:"recommended_therapies"`
}

// PlanInput is what the therapy rules look at.
type PlanInput struct {
	Questionnaire Questionnaire
	FinalRisk     float64
	Engagement    float64 // engagement score or video risk
}

// TherapyRule appends Therapy to the plan when Applies holds.
type TherapyRule struct {
	Name    string
	Therapy string
	Applies func(in PlanInput) bool
}

// therapyRules are evaluated in order; the order is the order of the
// recommendations, speech first.
var therapyRules = []TherapyRule{
	{
		Name:    "communication_concern",
		Therapy: TherapySpeechLanguage,
		Applies: func(in PlanInput) bool { return in.Questionnaire.QchatScore >= communicationConcernScore },
	},
	{
		Name:    "low_engagement",
		Therapy: TherapySocialTraining,
		Applies: func(in PlanInput) bool { return in.Engagement < lowEngagementThreshold },
	},
	{
		Name:    "repetitive_behavior",
		Therapy: TherapyBehavioralABA,
		Applies: func(in PlanInput) bool {
			return in.Questionnaire.RepetitiveBehaviorCount() >= repetitiveBehaviorCount
		},
	},
	{
		Name:    "family_history",
		Therapy: TherapyFamilyCounseling,
		Applies: func(in PlanInput) bool { return in.Questionnaire.FamilyHistory == 1 },
	},
}

// InterventionIntensity picks the plan tier. The boundaries are strict and
// intentionally differ from Categorize at exactly 0.4 and 0.7.
func InterventionIntensity(finalRisk float64) string {
	switch {
	case finalRisk > HighRiskThreshold:
		return IntensityHigh
	case finalRisk > ModerateRiskThreshold:
		return IntensityModerate
	default:
		return IntensityRoutine
	}
}

// GeneratePlan evaluates every therapy rule and picks the intensity tier.
func GeneratePlan(q Questionnaire, finalRisk, engagement float64) TherapyPlan {
	in := PlanInput{Questionnaire: q, FinalRisk: finalRisk, Engagement: engagement}

	therapies := make([]string, 0, len(therapyRules))
	for _, rule := range therapyRules {
		if rule.Applies(in) {
			therapies = append(therapies, rule.Therapy)
		}
	}

	return TherapyPlan{
		InterventionIntensity: InterventionIntensity(finalRisk),
		RecommendedTherapies:  therapies,
	}
}
