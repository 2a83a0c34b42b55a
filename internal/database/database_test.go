package database

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
)

func newTestRepository(t *testing.T) (*SessionRepository, *DB) {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSessionRepository(db), db
}

func TestNewDBCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	db, err := NewDB(dir)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, filepath.Join(dir, FileName))

	_, err = db.GetPreparedStatement("insert_session")
	assert.NoError(t, err)
	_, err = db.GetPreparedStatement("missing")
	assert.Error(t, err)

	stats := db.GetPoolStats()
	assert.Equal(t, 10, stats["max_open_connections"])
}

func TestAppendAndListAll(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	confidence := 0.91
	multimodal := &screening.ScreeningSession{
		FinalRisk:             0.56,
		Confidence:            &confidence,
		RiskCategory:          screening.RiskModerate,
		EngagementScore:       0.8,
		InterventionIntensity: screening.IntensityModerate,
	}
	gamified := &screening.ScreeningSession{
		FinalRisk:             0.452,
		RiskCategory:          screening.RiskModerate,
		EngagementScore:       0.42,
		InterventionIntensity: screening.IntensityGamified,
	}

	id1, err := repo.Append(ctx, multimodal)
	require.NoError(t, err)
	id2, err := repo.Append(ctx, gamified)
	require.NoError(t, err)

	assert.Less(t, id1, id2)
	assert.Equal(t, id1, multimodal.ID)
	assert.Equal(t, fixed, multimodal.CreatedAt)

	sessions, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, id1, sessions[0].ID)
	require.NotNil(t, sessions[0].Confidence)
	assert.InDelta(t, 0.91, *sessions[0].Confidence, 1e-9)
	assert.Equal(t, screening.RiskModerate, sessions[0].RiskCategory)
	assert.Equal(t, screening.IntensityModerate, sessions[0].InterventionIntensity)
	assert.True(t, fixed.Equal(sessions[0].CreatedAt))

	assert.Equal(t, id2, sessions[1].ID)
	assert.Nil(t, sessions[1].Confidence)
	assert.InDelta(t, 0.42, sessions[1].EngagementScore, 1e-9)
	assert.Equal(t, screening.IntensityGamified, sessions[1].InterventionIntensity)
}

func TestListAllEmpty(t *testing.T) {
	repo, _ := newTestRepository(t)

	sessions, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
}

func TestAppendRejectsOutOfRangeRisk(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Append(ctx, &screening.ScreeningSession{
		FinalRisk:             1.5,
		RiskCategory:          screening.RiskHigh,
		InterventionIntensity: screening.IntensityHigh,
	})
	assert.Error(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConcurrentAppendsKeepEveryRow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	ids := make(chan int64, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := repo.Append(ctx, &screening.ScreeningSession{
				FinalRisk:             float64(i) / 10,
				RiskCategory:          screening.Categorize(float64(i) / 10),
				InterventionIntensity: screening.IntensityGamified,
			})
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	sessions, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, writers)
	for i := 1; i < len(sessions); i++ {
		assert.Less(t, sessions[i-1].ID, sessions[i].ID)
	}
}

func TestReopenKeepsSessions(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := NewDB(dir)
	require.NoError(t, err)
	_, err = NewSessionRepository(db).Append(ctx, &screening.ScreeningSession{
		FinalRisk:             0.9,
		RiskCategory:          screening.RiskHigh,
		InterventionIntensity: screening.IntensityHigh,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(dir)
	require.NoError(t, err)
	defer db.Close()

	sessions, err := NewSessionRepository(db).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, screening.RiskHigh, sessions[0].RiskCategory)
}
