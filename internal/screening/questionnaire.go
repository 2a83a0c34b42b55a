package screening

import "fmt"

// FeatureCount is the number of questionnaire positions the tabular model and
// the explainer are trained on.
const FeatureCount = 14

// FeatureNames lists the questionnaire fields in model feature order.
var FeatureNames = [FeatureCount]string{
	"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9", "A10",
	"Age_Mons", "Qchat_10_Score", "Jaundice", "Family_mem_with_ASD",
}

// Questionnaire is one caregiver-completed screening form.
type Questionnaire struct {
	A1  int `json:"A1"`
	A2  int `json:"A2"`
	A3  int `json:"A3"`
	A4  int `json:"A4"`
	A5  int `json:"A5"`
	A6  int `json:"A6"`
	A7  int `json:"A7"`
	A8  int `json:"A8"`
	A9  int `json:"A9"`
	A10 int `json:"A10"`

	AgeMonths     int `json:"Age_Mons"`
	QchatScore    int `json:"Qchat_10_Score"`
	Jaundice      int `json:"Jaundice"`
	FamilyHistory int `json:"Family_mem_with_ASD"`
}

// Features returns the questionnaire as a model input vector in FeatureNames order.
func (q Questionnaire) Features() []float64 {
	return []float64{
		float64(q.A1), float64(q.A2), float64(q.A3), float64(q.A4), float64(q.A5),
		float64(q.A6), float64(q.A7), float64(q.A8), float64(q.A9), float64(q.A10),
		float64(q.AgeMonths), float64(q.QchatScore), float64(q.Jaundice), float64(q.FamilyHistory),
	}
}

// RepetitiveBehaviorCount sums the three indicators for repetitive or rigid behavior.
func (q Questionnaire) RepetitiveBehaviorCount() int {
	return q.A3 + q.A4 + q.A5
}

// Validate checks every field against its domain.
func (q Questionnaire) Validate() error {
	binary := []int{q.A1, q.A2, q.A3, q.A4, q.A5, q.A6, q.A7, q.A8, q.A9, q.A10}
	for i, v := range binary {
		if v != 0 && v != 1 {
			return fmt.Errorf("%s must be 0 or 1, got %d", FeatureNames[i], v)
		}
	}
	if q.AgeMonths < 0 {
		return fmt.Errorf("Age_Mons must be non-negative, got %d", q.AgeMonths)
	}
	if q.QchatScore < 0 || q.QchatScore > 10 {
		return fmt.Errorf("Qchat_10_Score must be between 0 and 10, got %d", q.QchatScore)
	}
	if q.Jaundice != 0 && q.Jaundice != 1 {
		return fmt.Errorf("Jaundice must be 0 or 1, got %d", q.Jaundice)
	}
	if q.FamilyHistory != 0 && q.FamilyHistory != 1 {
		return fmt.Errorf("Family_mem_with_ASD must be 0 or 1, got %d", q.FamilyHistory)
	}
	return nil
}
