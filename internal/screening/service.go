package screening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

var (
	// ErrNoFrames is returned when a clip yields no classified frames and the
	// mode has no fallback.
	ErrNoFrames = errors.New("no frames classified")
	// ErrInvalidInput wraps questionnaire and engagement domain violations.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUndecodable is wrapped by decoders when the input holds no decodable
	// frames. Such a clip is undeterminable, like one that is too short.
	ErrUndecodable = errors.New("video could not be decoded")
)

// Mode names a screening entry point.
type Mode string

const (
	ModeTabular    Mode = "tabular"
	ModeVideo      Mode = "video"
	ModeMultimodal Mode = "multimodal"
	ModeGamified   Mode = "gamified"
)

// Dependencies are the collaborators a Service is built from.
type Dependencies struct {
	Tabular   TabularModel
	Explainer Explainer
	Images    ImageClassifier
	Decoder   VideoDecoder
	Store     SessionStore
	Logger    *slog.Logger

	// Workers bounds concurrent frame classifications.
	Workers int
	// OnComplete, when set, is called after every screening.
	OnComplete func(mode Mode, d time.Duration, err error)
	// OnUndeterminable, when set, is called for every clip without
	// classified frames, including gamified clips that fall back.
	OnUndeterminable func(mode Mode)
}

// Service runs the screening modes.
type Service struct {
	tabular    TabularModel
	explainer  Explainer
	decoder    VideoDecoder
	aggregator *FrameRiskAggregator
	store      SessionStore
	logger     *slog.Logger
	onComplete func(Mode, time.Duration, error)

	onUndeterminable func(Mode)
}

// NewService wires a Service from its collaborators.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tabular:    deps.Tabular,
		explainer:  deps.Explainer,
		decoder:    deps.Decoder,
		aggregator: NewFrameRiskAggregator(deps.Images, deps.Workers),
		store:      deps.Store,
		logger:     logger,
		onComplete: deps.OnComplete,

		onUndeterminable: deps.OnUndeterminable,
	}
}

// PredictionResult is the tabular-only screening response.
type PredictionResult struct {
	RiskScore    float64      `json:"risk_score"`
	Confidence   float64      `json:"confidence"`
	RiskCategory RiskCategory `json:"risk_category"`
	Explanation  []float64    `json:"explanation"`
}

// VideoResult is the video-only screening response.
type VideoResult struct {
	VideoRisk float64 `json:"video_risk"`
}

// RiskBreakdown reports each modality's pre-fusion risk as a percentage.
type RiskBreakdown struct {
	TabularContribution float64 `json:"tabular_contribution_%"`
	VideoContribution   float64 `json:"video_contribution_%"`
	FinalRisk           float64 `json:"final_risk_%"`
}

// MultimodalResult is the fused screening response.
type MultimodalResult struct {
	TabularRisk   float64       `json:"tabular_risk"`
	VideoRisk     float64       `json:"video_risk"`
	FinalRisk     float64       `json:"final_risk"`
	Confidence    float64       `json:"confidence"`
	RiskCategory  RiskCategory  `json:"risk_category"`
	RiskBreakdown RiskBreakdown `json:"risk_breakdown"`
	TherapyPlan   TherapyPlan   `json:"therapy_plan"`
}

// GamifiedResult is the game-based screening response.
type GamifiedResult struct {
	FinalRisk      float64      `json:"final_risk"`
	RiskCategory   RiskCategory `json:"risk_category"`
	VideoRisk      float64      `json:"video_risk"`
	GameEngagement float64      `json:"game_engagement"`
}

// HistoryEntry is one row of the screening history.
type HistoryEntry struct {
	ID           int64        `json:"id"`
	FinalRisk    float64      `json:"final_risk"`
	RiskCategory RiskCategory `json:"risk_category"`
}

// Predict scores a questionnaire alone. Nothing is persisted.
func (s *Service) Predict(ctx context.Context, q Questionnaire) (result *PredictionResult, err error) {
	defer s.observe(ModeTabular, time.Now(), &err)

	risk, err := s.predictTabular(ctx, q)
	if err != nil {
		return nil, err
	}

	explanation, err := s.explainer.Explain(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("explain questionnaire: %w", err)
	}
	if len(explanation) != FeatureCount {
		return nil, fmt.Errorf("explain questionnaire: got %d contributions, want %d", len(explanation), FeatureCount)
	}

	return &PredictionResult{
		RiskScore:    risk.Probability,
		Confidence:   risk.Confidence,
		RiskCategory: Categorize(risk.Probability),
		Explanation:  explanation,
	}, nil
}

// AnalyzeVideo returns the video risk of the clip at path. It returns
// ErrNoFrames when the clip is too short to sample. Nothing is persisted.
func (s *Service) AnalyzeVideo(ctx context.Context, path string) (result *VideoResult, err error) {
	defer s.observe(ModeVideo, time.Now(), &err)

	vr, err := s.videoRisk(ctx, path, StandardStride)
	if err != nil {
		return nil, err
	}
	if s.undeterminable(ModeVideo, vr) {
		return nil, ErrNoFrames
	}
	value, _ := vr.Value()
	return &VideoResult{VideoRisk: value}, nil
}

// Multimodal fuses questionnaire and video risk, builds a therapy plan and
// appends the session. It returns ErrNoFrames, persisting nothing, when the
// clip yields no classified frames.
func (s *Service) Multimodal(ctx context.Context, q Questionnaire, path string) (result *MultimodalResult, err error) {
	defer s.observe(ModeMultimodal, time.Now(), &err)

	tabular, err := s.predictTabular(ctx, q)
	if err != nil {
		return nil, err
	}

	vr, err := s.videoRisk(ctx, path, StandardStride)
	if err != nil {
		return nil, err
	}
	if s.undeterminable(ModeMultimodal, vr) {
		return nil, ErrNoFrames
	}
	videoRisk, _ := vr.Value()

	finalRisk, err := Fuse(tabular.Probability, videoRisk)
	if err != nil {
		return nil, err
	}
	category := Categorize(finalRisk)
	plan := GeneratePlan(q, finalRisk, videoRisk)

	confidence := tabular.Confidence
	id, err := s.store.Append(ctx, &ScreeningSession{
		FinalRisk:             finalRisk,
		Confidence:            &confidence,
		RiskCategory:          category,
		EngagementScore:       videoRisk,
		InterventionIntensity: plan.InterventionIntensity,
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("Multimodal screening completed",
		"session_id", id,
		"final_risk", finalRisk,
		"risk_category", category,
		"frames", vr.Frames(),
		"therapies", len(plan.RecommendedTherapies))

	return &MultimodalResult{
		TabularRisk:  tabular.Probability,
		VideoRisk:    videoRisk,
		FinalRisk:    finalRisk,
		Confidence:   tabular.Confidence,
		RiskCategory: category,
		RiskBreakdown: RiskBreakdown{
			TabularContribution: percent(tabular.Probability),
			VideoContribution:   percent(videoRisk),
			FinalRisk:           percent(finalRisk),
		},
		TherapyPlan: plan,
	}, nil
}

// Gamified fuses a game engagement score with fast-sampled video risk and
// appends the session. A clip without classified frames falls back to
// GamifiedFallbackVideoRisk instead of failing.
func (s *Service) Gamified(ctx context.Context, engagementScore float64, path string) (result *GamifiedResult, err error) {
	defer s.observe(ModeGamified, time.Now(), &err)

	engagement := NormalizeEngagement(engagementScore)
	if err := checkUnit("engagement score", engagement); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	vr, err := s.videoRisk(ctx, path, FastStride)
	if err != nil {
		return nil, err
	}
	videoRisk, _ := vr.Value()
	if s.undeterminable(ModeGamified, vr) {
		s.logger.Warn("No frames classified in gamified clip, using fallback video risk",
			"fallback", GamifiedFallbackVideoRisk)
		videoRisk = GamifiedFallbackVideoRisk
	}

	finalRisk, err := Fuse(engagement, videoRisk)
	if err != nil {
		return nil, err
	}
	category := Categorize(finalRisk)

	id, err := s.store.Append(ctx, &ScreeningSession{
		FinalRisk:             finalRisk,
		RiskCategory:          category,
		EngagementScore:       engagement,
		InterventionIntensity: IntensityGamified,
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("Gamified screening completed",
		"session_id", id,
		"final_risk", finalRisk,
		"risk_category", category,
		"frames", vr.Frames())

	return &GamifiedResult{
		FinalRisk:      finalRisk,
		RiskCategory:   category,
		VideoRisk:      videoRisk,
		GameEngagement: engagement,
	}, nil
}

// History lists every stored session in insertion order.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	sessions, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(sessions))
	for _, sess := range sessions {
		entries = append(entries, HistoryEntry{
			ID:           sess.ID,
			FinalRisk:    sess.FinalRisk,
			RiskCategory: sess.RiskCategory,
		})
	}
	return entries, nil
}

func (s *Service) predictTabular(ctx context.Context, q Questionnaire) (TabularRisk, error) {
	if err := q.Validate(); err != nil {
		return TabularRisk{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	risk, err := s.tabular.PredictRisk(ctx, q)
	if err != nil {
		return TabularRisk{}, fmt.Errorf("predict tabular risk: %w", err)
	}
	if err := checkUnit("tabular probability", risk.Probability); err != nil {
		return TabularRisk{}, fmt.Errorf("predict tabular risk: %w", err)
	}
	if err := checkUnit("tabular confidence", risk.Confidence); err != nil {
		return TabularRisk{}, fmt.Errorf("predict tabular risk: %w", err)
	}
	return risk, nil
}

func (s *Service) videoRisk(ctx context.Context, path string, stride int) (VideoRisk, error) {
	stream, err := s.decoder.Open(ctx, path)
	if errors.Is(err, ErrUndecodable) {
		s.logger.Warn("Video could not be decoded", "error", err)
		return Undeterminable(), nil
	}
	if err != nil {
		return Undeterminable(), fmt.Errorf("open video: %w", err)
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			s.logger.Warn("Failed to close video stream", "error", cerr)
		}
	}()

	sampler, err := NewStrideSampler(stream, stride)
	if err != nil {
		return Undeterminable(), err
	}

	vr, err := s.aggregator.Aggregate(ctx, sampler)
	if errors.Is(err, ErrUndecodable) {
		s.logger.Warn("Video could not be decoded", "error", err, "decoded_frames", sampler.Seen())
		return Undeterminable(), nil
	}
	if err != nil {
		return Undeterminable(), fmt.Errorf("analyze video: %w", err)
	}

	s.logger.Debug("Video analyzed",
		"stride", stride,
		"decoded_frames", sampler.Seen(),
		"video_risk", vr.String())
	return vr, nil
}

// undeterminable reports whether vr has no classified frames. If so it
// notifies OnUndeterminable.
func (s *Service) undeterminable(mode Mode, vr VideoRisk) bool {
	if !vr.IsUndeterminable() {
		return false
	}
	if s.onUndeterminable != nil {
		s.onUndeterminable(mode)
	}
	return true
}

func (s *Service) observe(mode Mode, start time.Time, err *error) {
	if s.onComplete != nil {
		s.onComplete(mode, time.Since(start), *err)
	}
}

func percent(x float64) float64 {
	return math.Round(x*100*100) / 100
}
