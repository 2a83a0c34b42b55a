package screening

import (
	"context"
	"time"
)

// TabularRisk is the questionnaire classifier output. Confidence is the
// maximum class probability, not a calibration metric.
type TabularRisk struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

// TabularModel scores a questionnaire.
type TabularModel interface {
	PredictRisk(ctx context.Context, q Questionnaire) (TabularRisk, error)
}

// Explainer returns per-feature contributions in FeatureNames order.
type Explainer interface {
	Explain(ctx context.Context, q Questionnaire) ([]float64, error)
}

// ImageClassifier returns the probability that a frame shows the positive class.
type ImageClassifier interface {
	PredictFrame(ctx context.Context, frame Frame) (float64, error)
}

// VideoDecoder opens a video file as a stream of frames in display order.
type VideoDecoder interface {
	Open(ctx context.Context, path string) (FrameStream, error)
}

// ScreeningSession is the persisted outcome of a multimodal or gamified screening.
type ScreeningSession struct {
	ID                    int64        `json:"id"`
	FinalRisk             float64      `json:"final_risk"`
	Confidence            *float64     `json:"confidence"`
	RiskCategory          RiskCategory `json:"risk_category"`
	EngagementScore       float64      `json:"engagement_score"`
	InterventionIntensity string       `json:"intervention_intensity"`
	CreatedAt             time.Time    `json:"created_at"`
}

// SessionStore is an append-only screening history.
type SessionStore interface {
	// Append stores the session atomically and returns its id.
	Append(ctx context.Context, session *ScreeningSession) (int64, error)
	// ListAll returns every session in insertion order.
	ListAll(ctx context.Context) ([]ScreeningSession, error)
}
