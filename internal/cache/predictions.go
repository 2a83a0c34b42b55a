package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"
	"time"

	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
)

// Metrics receives cache hit and miss counts.
type Metrics interface {
	IncrementCacheHit()
	IncrementCacheMiss()
}

// Model is what the prediction cache wraps.
type Model interface {
	screening.TabularModel
	screening.Explainer
}

// PredictionCache memoizes tabular predictions and explanations by
// questionnaire. The tabular model is deterministic, so an identical
// questionnaire always scores the same.
type PredictionCache struct {
	model        Model
	risks        *Cache[screening.TabularRisk]
	explanations *Cache[[]float64]
	metrics      Metrics
}

// NewPredictionCache wraps model. A nil metrics sink is allowed.
func NewPredictionCache(model Model, ttl time.Duration, metrics Metrics) *PredictionCache {
	return &PredictionCache{
		model:        model,
		risks:        New[screening.TabularRisk](ttl),
		explanations: New[[]float64](ttl),
		metrics:      metrics,
	}
}

// Run purges expired entries until ctx is done.
func (p *PredictionCache) Run(ctx context.Context, interval time.Duration) {
	go p.explanations.Run(ctx, interval)
	p.risks.Run(ctx, interval)
}

// PredictRisk implements screening.TabularModel.
func (p *PredictionCache) PredictRisk(ctx context.Context, q screening.Questionnaire) (screening.TabularRisk, error) {
	key := questionnaireKey(q)
	if risk, ok := p.risks.Get(key); ok {
		p.hit(key)
		return risk, nil
	}
	p.miss(key)

	risk, err := p.model.PredictRisk(ctx, q)
	if err != nil {
		return screening.TabularRisk{}, err
	}
	p.risks.Set(key, risk)
	return risk, nil
}

// Explain implements screening.Explainer.
func (p *PredictionCache) Explain(ctx context.Context, q screening.Questionnaire) ([]float64, error) {
	key := questionnaireKey(q)
	if values, ok := p.explanations.Get(key); ok {
		p.hit(key)
		return append([]float64(nil), values...), nil
	}
	p.miss(key)

	values, err := p.model.Explain(ctx, q)
	if err != nil {
		return nil, err
	}
	p.explanations.Set(key, append([]float64(nil), values...))
	return values, nil
}

// Stats reports both underlying caches.
func (p *PredictionCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"predictions":  p.risks.Stats(),
		"explanations": p.explanations.Stats(),
	}
}

func (p *PredictionCache) hit(key string) {
	slog.Debug("Cache hit", "key", key[:8]+"...")
	if p.metrics != nil {
		p.metrics.IncrementCacheHit()
	}
}

func (p *PredictionCache) miss(key string) {
	slog.Debug("Cache miss", "key", key[:8]+"...")
	if p.metrics != nil {
		p.metrics.IncrementCacheMiss()
	}
}

// questionnaireKey hashes the feature vector so answers never appear in keys or logs.
func questionnaireKey(q screening.Questionnaire) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(fmt.Sprint(q.Features()))))
}
