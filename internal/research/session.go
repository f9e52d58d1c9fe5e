// Package research runs the full pipeline for a watchlist and keeps the
// resulting sessions.
package research

import (
	"context"
	"errors"
	"time"

	"github.com/wonny/astroquant/internal/backtest"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/prices"
)

// ErrNotFound is returned when a session id is unknown
var ErrNotFound = errors.New("research session not found")

// Request holds the inputs of one research run
type Request struct {
	Symbols  []string            `json:"symbols" validate:"required,min=1,dive,required"`
	Seed     int64               `json:"seed"`
	Dates    contracts.DateRange `json:"date_range" validate:"-"`
	Times    contracts.TimeRange `json:"time_range" validate:"-"`
	Location string              `json:"location"`
	Weights  map[string]float64  `json:"weights,omitempty"`
	TopN     int                 `json:"top_n" validate:"gte=0"`
	Horizon  int                 `json:"horizon" validate:"gte=0"`
	Source   string              `json:"source,omitempty"` // api, cli, scheduler
}

// Session is the stored outcome of a research run
type Session struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at"`
	DurationMs  int64     `json:"duration_ms"`
	ConfigHash  string    `json:"config_hash"`
	Request     Request   `json:"request"`

	Horoscopes   []*contracts.Horoscope      `json:"horoscopes"`
	Features     []*contracts.FeatureSet     `json:"features"`
	Scores       []contracts.AggregatedScore `json:"scores"`
	Ranking      []contracts.RankedScore     `json:"ranking"`
	Distribution contracts.ScoreDistribution `json:"distribution"`
	PriceStats   []*prices.Stats             `json:"price_stats"`
	Comparison   *backtest.Comparison        `json:"comparison"`

	Persisted bool `json:"persisted"`
}

// Summary is the list view of a session
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Source      string    `json:"source"`
	SymbolCount int       `json:"symbol_count"`
	TopSymbol   string    `json:"top_symbol,omitempty"`
	TopScore    float64   `json:"top_score"`
	Correlation float64   `json:"correlation"`
	HitRate     float64   `json:"hit_rate"`
}

// Summarize builds the list view
func (s *Session) Summarize() Summary {
	sum := Summary{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		Source:      s.Request.Source,
		SymbolCount: len(s.Request.Symbols),
	}
	if len(s.Ranking) > 0 {
		sum.TopSymbol = s.Ranking[0].Symbol
		sum.TopScore = s.Ranking[0].AstrologicalScore
	}
	if s.Comparison != nil {
		sum.Correlation = s.Comparison.Correlation
		sum.HitRate = s.Comparison.HitRate
	}
	return sum
}

// Store persists sessions. The orchestrator works without one.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	List(ctx context.Context, limit int) ([]Summary, error)
}
