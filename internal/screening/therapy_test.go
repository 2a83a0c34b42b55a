package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlan(t *testing.T) {
	tests := []struct {
		name       string
		q          Questionnaire
		finalRisk  float64
		engagement float64
		intensity  string
		therapies  []string
	}{
		{
			name:       "every rule fires",
			q:          Questionnaire{QchatScore: 6, A3: 1, A4: 1, A5: 1, FamilyHistory: 1},
			finalRisk:  0.75,
			engagement: 0.3,
			intensity:  IntensityHigh,
			therapies: []string{
				TherapySpeechLanguage,
				TherapySocialTraining,
				TherapyBehavioralABA,
				TherapyFamilyCounseling,
			},
		},
		{
			name:       "no rule fires",
			q:          Questionnaire{},
			finalRisk:  0.3,
			engagement: 0.9,
			intensity:  IntensityRoutine,
			therapies:  []string{},
		},
		{
			name:       "two repetitive behaviors and low engagement",
			q:          Questionnaire{QchatScore: 5, A3: 1, A5: 1},
			finalRisk:  0.5,
			engagement: 0.49,
			intensity:  IntensityModerate,
			therapies:  []string{TherapySocialTraining, TherapyBehavioralABA},
		},
		{
			name:       "engagement at threshold is not low",
			q:          Questionnaire{FamilyHistory: 1},
			finalRisk:  0.2,
			engagement: 0.5,
			intensity:  IntensityRoutine,
			therapies:  []string{TherapyFamilyCounseling},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GeneratePlan(tt.q, tt.finalRisk, tt.engagement)
			assert.Equal(t, tt.intensity, plan.InterventionIntensity)
			require.NotNil(t, plan.RecommendedTherapies)
			assert.Equal(t, tt.therapies, plan.RecommendedTherapies)
		})
	}
}

func TestGeneratePlanKeepsRuleOrder(t *testing.T) {
	rules := therapyRules
	require.Len(t, rules, 4)

	// every subset of the four rules must come out in table order
	for mask := 0; mask < 16; mask++ {
		q := Questionnaire{}
		engagement := 0.9
		var expected []string
		if mask&1 != 0 {
			q.QchatScore = 8
			expected = append(expected, rules[0].Therapy)
		}
		if mask&2 != 0 {
			engagement = 0.1
			expected = append(expected, rules[1].Therapy)
		}
		if mask&4 != 0 {
			q.A3, q.A4 = 1, 1
			expected = append(expected, rules[2].Therapy)
		}
		if mask&8 != 0 {
			q.FamilyHistory = 1
			expected = append(expected, rules[3].Therapy)
		}
		if expected == nil {
			expected = []string{}
		}

		plan := GeneratePlan(q, 0.5, engagement)
		assert.Equal(t, expected, plan.RecommendedTherapies, "mask %04b", mask)
	}
}

func TestInterventionIntensityBoundaries(t *testing.T) {
	// the plan tiers use strict comparisons, unlike Categorize
	assert.Equal(t, IntensityRoutine, InterventionIntensity(0.4))
	assert.Equal(t, RiskModerate, Categorize(0.4))

	assert.Equal(t, IntensityModerate, InterventionIntensity(0.7))
	assert.Equal(t, RiskHigh, Categorize(0.7))

	assert.Equal(t, IntensityModerate, InterventionIntensity(0.41))
	assert.Equal(t, IntensityHigh, InterventionIntensity(0.71))
}
