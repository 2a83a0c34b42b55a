// Package types holds the HTTP request and response shapes shared by the API.
package types

import "github.com/ZanzyTHEbar/neuroweave/internal/screening"

// QuestionnaireRequest is a screening questionnaire as received over HTTP.
// Fields are pointers so that an absent field is rejected rather than read
// as zero. The same struct binds JSON bodies and multipart form values.
type QuestionnaireRequest struct {
	A1  *int `json:"A1" form:"A1" binding:"required"`
	A2  *int `json:"A2" form:"A2" binding:"required"`
	A3  *int `json:"A3" form:"A3" binding:"required"`
	A4  *int `json:"A4" form:"A4" binding:"required"`
	A5  *int `json:"A5" form:"A5" binding:"required"`
	A6  *int `json:"A6" form:"A6" binding:"required"`
	A7  *int `json:"A7" form:"A7" binding:"required"`
	A8  *int `json:"A8" form:"A8" binding:"required"`
	A9  *int `json:"A9" form:"A9" binding:"required"`
	A10 *int `json:"A10" form:"A10" binding:"required"`

	AgeMonths     *int `json:"Age_Mons" form:"Age_Mons" binding:"required"`
	QchatScore    *int `json:"Qchat_10_Score" form:"Qchat_10_Score" binding:"required"`
	Jaundice      *int `json:"Jaundice" form:"Jaundice" binding:"required"`
	FamilyHistory *int `json:"Family_mem_with_ASD" form:"Family_mem_with_ASD" binding:"required"`
}

// Questionnaire converts a bound request. Call it only after binding
// succeeded, when every field is set.
func (r QuestionnaireRequest) Questionnaire() screening.Questionnaire {
	return screening.Questionnaire{
		A1: *r.A1, A2: *r.A2, A3: *r.A3, A4: *r.A4, A5: *r.A5,
		A6: *r.A6, A7: *r.A7, A8: *r.A8, A9: *r.A9, A10: *r.A10,
		AgeMonths:     *r.AgeMonths,
		QchatScore:    *r.QchatScore,
		Jaundice:      *r.Jaundice,
		FamilyHistory: *r.FamilyHistory,
	}
}

// GamifiedRequest carries the form fields of a gamified screening
type GamifiedRequest struct {
	EngagementScore *float64 `form:"engagement_score" binding:"required"`
}

// ErrorResponse is the body of simple error replies
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the root banner
type StatusResponse struct {
	Message string `json:"message"`
}
