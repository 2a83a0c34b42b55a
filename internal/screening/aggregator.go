package screening

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// VideoRisk is the aggregated frame risk, or undeterminable when no frame
// was classified. The zero value is undeterminable.
type VideoRisk struct {
	value  float64
	frames int
	known  bool
}

// Undeterminable returns the video risk for a clip with no classified frames.
func Undeterminable() VideoRisk {
	return VideoRisk{}
}

// KnownVideoRisk returns a determined video risk averaged over frames.
func KnownVideoRisk(value float64, frames int) VideoRisk {
	return VideoRisk{value: value, frames: frames, known: true}
}

// Value returns the risk and whether it is determined.
func (v VideoRisk) Value() (float64, bool) {
	return v.value, v.known
}

// IsUndeterminable reports whether no frame was classified.
func (v VideoRisk) IsUndeterminable() bool {
	return !v.known
}

// Frames is the number of classified frames behind the value.
func (v VideoRisk) Frames() int {
	return v.frames
}

func (v VideoRisk) String() string {
	if !v.known {
		return "undeterminable"
	}
	return fmt.Sprintf("%.4f over %d frames", v.value, v.frames)
}

// FrameRiskAggregator classifies sampled frames and averages the results.
type FrameRiskAggregator struct {
	classifier ImageClassifier
	workers    int
}

// NewFrameRiskAggregator creates an aggregator that classifies up to workers
// frames at a time. Values below 1 mean sequential classification.
func NewFrameRiskAggregator(classifier ImageClassifier, workers int) *FrameRiskAggregator {
	if workers < 1 {
		workers = 1
	}
	return &FrameRiskAggregator{classifier: classifier, workers: workers}
}

type frameScore struct {
	seq  int
	prob float64
}

// Aggregate drains frames and returns the mean frame probability. The first
// classifier failure aborts the whole pass; no partial mean is returned.
func (a *FrameRiskAggregator) Aggregate(ctx context.Context, frames FrameStream) (VideoRisk, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	var (
		mu     sync.Mutex
		scores []frameScore
	)

	for seq := 0; gctx.Err() == nil; seq++ {
		frame, err := frames.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = g.Wait()
			return Undeterminable(), fmt.Errorf("read frame: %w", err)
		}

		g.Go(func() error {
			prob, err := a.classifier.PredictFrame(gctx, frame)
			if err != nil {
				return fmt.Errorf("classify frame %d: %w", frame.Index, err)
			}
			if err := checkUnit("frame probability", prob); err != nil {
				return fmt.Errorf("classify frame %d: %w", frame.Index, err)
			}
			mu.Lock()
			scores = append(scores, frameScore{seq: seq, prob: prob})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Undeterminable(), err
	}
	if err := ctx.Err(); err != nil {
		return Undeterminable(), err
	}
	if len(scores) == 0 {
		return Undeterminable(), nil
	}

	// sum in stream order so the result does not depend on worker scheduling
	sort.Slice(scores, func(i, j int) bool { return scores[i].seq < scores[j].seq })
	sum := 0.0
	for _, s := range scores {
		sum += s.prob
	}
	return KnownVideoRisk(sum/float64(len(scores)), len(scores)), nil
}

func checkUnit(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%s %v outside [0,1]", name, v)
	}
	return nil
}
