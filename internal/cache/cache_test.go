package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheExpiry(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats()["expired_items"])

	c.purgeExpired()
	assert.Zero(t, c.Size())
}

type countingModel struct {
	predictCalls int
	explainCalls int
	err          error
}

func (m *countingModel) PredictRisk(_ context.Context, q screening.Questionnaire) (screening.TabularRisk, error) {
	m.predictCalls++
	if m.err != nil {
		return screening.TabularRisk{}, m.err
	}
	return screening.TabularRisk{Probability: float64(q.QchatScore) / 10, Confidence: 0.9}, nil
}

func (m *countingModel) Explain(context.Context, screening.Questionnaire) ([]float64, error) {
	m.explainCalls++
	return make([]float64, screening.FeatureCount), nil
}

type counters struct{ hits, misses int }

func (c *counters) IncrementCacheHit()  { c.hits++ }
func (c *counters) IncrementCacheMiss() { c.misses++ }

func TestPredictionCache(t *testing.T) {
	model := &countingModel{}
	metrics := &counters{}
	pc := NewPredictionCache(model, time.Hour, metrics)
	ctx := context.Background()

	q := screening.Questionnaire{A1: 1, QchatScore: 7, AgeMonths: 30}
	first, err := pc.PredictRisk(ctx, q)
	require.NoError(t, err)
	second, err := pc.PredictRisk(ctx, q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, model.predictCalls)

	other := q
	other.QchatScore = 2
	risk, err := pc.PredictRisk(ctx, other)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, risk.Probability, 1e-9)
	assert.Equal(t, 2, model.predictCalls)

	values, err := pc.Explain(ctx, q)
	require.NoError(t, err)
	values[0] = 42
	again, err := pc.Explain(ctx, q)
	require.NoError(t, err)
	assert.Zero(t, again[0])
	assert.Equal(t, 1, model.explainCalls)

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 3, metrics.misses)
}

func TestPredictionCacheDoesNotStoreErrors(t *testing.T) {
	model := &countingModel{err: errors.New("model server down")}
	pc := NewPredictionCache(model, time.Hour, nil)
	q := screening.Questionnaire{QchatScore: 3}

	_, err := pc.PredictRisk(context.Background(), q)
	assert.Error(t, err)

	model.err = nil
	_, err = pc.PredictRisk(context.Background(), q)
	assert.NoError(t, err)
	assert.Equal(t, 2, model.predictCalls)
}
