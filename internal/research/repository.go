package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the session table
const Schema = `
CREATE SCHEMA IF NOT EXISTS research;

CREATE TABLE IF NOT EXISTS research.sessions (
    id           UUID PRIMARY KEY,
    created_at   TIMESTAMPTZ NOT NULL,
    source       TEXT NOT NULL DEFAULT '',
    symbol_count INTEGER NOT NULL,
    top_symbol   TEXT,
    top_score    DOUBLE PRECISION,
    correlation  DOUBLE PRECISION,
    hit_rate     DOUBLE PRECISION,
    config_hash  TEXT NOT NULL,
    payload      JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_research_sessions_created_at ON research.sessions(created_at DESC);
`

// Repository handles research session persistence
// ⭐ SSOT: 리서치 세션 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new research repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create research schema: %w", err)
	}
	return nil
}

// Save upserts a session; the full session is kept as JSONB
func (r *Repository) Save(ctx context.Context, s *Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sum := s.Summarize()

	query := `
		INSERT INTO research.sessions (
			id, created_at, source, symbol_count, top_symbol, top_score,
			correlation, hit_rate, config_hash, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			payload = EXCLUDED.payload,
			top_symbol = EXCLUDED.top_symbol,
			top_score = EXCLUDED.top_score,
			correlation = EXCLUDED.correlation,
			hit_rate = EXCLUDED.hit_rate
	`

	_, err = r.pool.Exec(ctx, query,
		s.ID, s.CreatedAt, sum.Source, sum.SymbolCount, sum.TopSymbol, sum.TopScore,
		sum.Correlation, sum.HitRate, s.ConfigHash, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save research session: %w", err)
	}

	return nil
}

// Get loads one session by id
func (r *Repository) Get(ctx context.Context, id string) (*Session, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT payload FROM research.sessions WHERE id = $1`, id,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get research session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	s.Persisted = true
	return &s, nil
}

// List returns the newest sessions first
func (r *Repository) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `
		SELECT id::text, created_at, source, symbol_count,
		       COALESCE(top_symbol, ''), COALESCE(top_score, 0),
		       COALESCE(correlation, 0), COALESCE(hit_rate, 0)
		FROM research.sessions
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list research sessions: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Source, &s.SymbolCount,
			&s.TopSymbol, &s.TopScore, &s.Correlation, &s.HitRate); err != nil {
			return nil, fmt.Errorf("failed to scan research session: %w", err)
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

var _ Store = (*Repository)(nil)
