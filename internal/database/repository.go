package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
)

// SessionRepository is the append-only screening session store
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

var _ screening.SessionStore = (*SessionRepository)(nil)

// NewSessionRepository creates a new repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Append stores a complete session in one transaction and returns its ID.
// The ID and CreatedAt of s are filled in on success.
func (r *SessionRepository) Append(ctx context.Context, s *screening.ScreeningSession) (int64, error) {
	stmt, err := r.db.GetPreparedStatement("insert_session")
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	createdAt := r.now().UTC()
	var confidence sql.NullFloat64
	if s.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *s.Confidence, Valid: true}
	}

	res, err := tx.StmtContext(ctx, stmt).ExecContext(ctx,
		s.FinalRisk, confidence, string(s.RiskCategory), s.EngagementScore, s.InterventionIntensity, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read session id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session: %w", err)
	}

	s.ID = id
	s.CreatedAt = createdAt
	return id, nil
}

// ListAll returns every session in insertion order
func (r *SessionRepository) ListAll(ctx context.Context) ([]screening.ScreeningSession, error) {
	stmt, err := r.db.GetPreparedStatement("list_sessions")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]screening.ScreeningSession, 0)
	for rows.Next() {
		var (
			s          screening.ScreeningSession
			category   string
			confidence sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.FinalRisk, &confidence, &category,
			&s.EngagementScore, &s.InterventionIntensity, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.RiskCategory = screening.RiskCategory(category)
		if confidence.Valid {
			c := confidence.Float64
			s.Confidence = &c
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// Count returns the number of stored sessions
func (r *SessionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM screening_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
