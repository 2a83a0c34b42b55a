package screening

import "fmt"

const (
	// VideoDominanceThreshold is the video risk above which the video signal
	// outweighs the questionnaire.
	VideoDominanceThreshold = 0.75

	dominantVideoWeight = 0.6
	baseVideoWeight     = 0.4

	// GamifiedFallbackVideoRisk stands in for the video signal when a gamified
	// clip yields no classified frames.
	GamifiedFallbackVideoRisk = 0.5
)

// FusionWeights returns the (tabular, video) weights used for a video risk.
// It is a two-bucket step function so the applied rule can be stated exactly.
func FusionWeights(videoRisk float64) (tabularWeight, videoWeight float64) {
	videoWeight = baseVideoWeight
	if videoRisk > VideoDominanceThreshold {
		videoWeight = dominantVideoWeight
	}
	return 1 - videoWeight, videoWeight
}

// Fuse combines the tabular (or engagement) risk with the video risk into a
// convex combination. Both inputs must lie in [0,1].
func Fuse(tabularRisk, videoRisk float64) (float64, error) {
	if err := checkUnit("tabular risk", tabularRisk); err != nil {
		return 0, fmt.Errorf("fuse: %w", err)
	}
	if err := checkUnit("video risk", videoRisk); err != nil {
		return 0, fmt.Errorf("fuse: %w", err)
	}
	tw, vw := FusionWeights(videoRisk)
	return tw*tabularRisk + vw*videoRisk, nil
}

// NormalizeEngagement maps a game engagement score onto [0,1]. Scores above 1
// are read as percentages; anything else is assumed already normalized.
func NormalizeEngagement(raw float64) float64 {
	if raw > 1 {
		return raw / 100
	}
	return raw
}
