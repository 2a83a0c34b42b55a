package screening

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionnaireFeatures(t *testing.T) {
	q := Questionnaire{A1: 1, A3: 1, A10: 1, AgeMonths: 30, QchatScore: 7, Jaundice: 1, FamilyHistory: 1}

	assert.Equal(t,
		[]float64{1, 0, 1, 0, 0, 0, 0, 0, 0, 1, 30, 7, 1, 1},
		q.Features())
	assert.Len(t, q.Features(), FeatureCount)
}

func TestQuestionnaireJSONFieldNames(t *testing.T) {
	var q Questionnaire
	err := json.Unmarshal([]byte(`{"A1":1,"A4":1,"A5":1,"Age_Mons":24,"Qchat_10_Score":6,"Jaundice":0,"Family_mem_with_ASD":1}`), &q)
	require.NoError(t, err)

	assert.Equal(t, 1, q.A1)
	assert.Equal(t, 24, q.AgeMonths)
	assert.Equal(t, 6, q.QchatScore)
	assert.Equal(t, 1, q.FamilyHistory)
	assert.Equal(t, 2, q.RepetitiveBehaviorCount())
}

func TestQuestionnaireValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Questionnaire
		wantErr string
	}{
		{name: "valid", q: Questionnaire{A1: 1, AgeMonths: 36, QchatScore: 10}},
		{name: "non binary item", q: Questionnaire{A7: 2}, wantErr: "A7"},
		{name: "negative age", q: Questionnaire{AgeMonths: -1}, wantErr: "Age_Mons"},
		{name: "qchat too high", q: Questionnaire{QchatScore: 11}, wantErr: "Qchat_10_Score"},
		{name: "jaundice not binary", q: Questionnaire{Jaundice: 3}, wantErr: "Jaundice"},
		{name: "family history not binary", q: Questionnaire{FamilyHistory: -1}, wantErr: "Family_mem_with_ASD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
