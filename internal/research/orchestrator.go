package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/astroquant/internal/backtest"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/metrics"
	"github.com/wonny/astroquant/internal/prices"
	"github.com/wonny/astroquant/internal/scoring"
	"github.com/wonny/astroquant/internal/scoringconfig"
	"github.com/wonny/astroquant/pkg/config"
	"github.com/wonny/astroquant/pkg/logger"
)

// Pipeline stage names, also metric labels
const (
	StageHoroscope = "horoscope"
	StageFeatures  = "features"
	StageScoring   = "scoring"
	StageRanking   = "ranking"
	StagePrices    = "prices"
	StageBacktest  = "backtest"
	StagePersist   = "persist"
)

const (
	defaultVolWindow = 20
	defaultListLimit = 50
	maxPriceWorkers  = 8
)

// Orchestrator coordinates horoscope → features → scores → ranking, with
// price synthesis running alongside
// ⭐ SSOT: 리서치 파이프라인 조율은 여기서만
type Orchestrator struct {
	generator   contracts.HoroscopeGenerator
	extractor   contracts.FeatureExtractor
	aggregator  *scoring.Aggregator
	synthesizer contracts.PriceSynthesizer
	store       Store // nil: sessions are not kept

	defaults config.ResearchConfig
	now      func() time.Time
	logger   *logger.Logger
}

// NewOrchestrator creates a new orchestrator; store may be nil
func NewOrchestrator(
	generator contracts.HoroscopeGenerator,
	extractor contracts.FeatureExtractor,
	aggregator *scoring.Aggregator,
	synthesizer contracts.PriceSynthesizer,
	store Store,
	defaults config.ResearchConfig,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		generator:   generator,
		extractor:   extractor,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		store:       store,
		defaults:    defaults,
		now:         time.Now,
		logger:      log.Component("research"),
	}
}

// Store returns the session store, nil when none is configured
func (o *Orchestrator) Store() Store {
	return o.store
}

// Normalize fills unset request fields from the configured defaults and
// validates the result. Symbols are upper-cased and de-duplicated.
func (o *Orchestrator) Normalize(req Request) (Request, error) {
	seen := make(map[string]bool, len(req.Symbols))
	symbols := make([]string, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	req.Symbols = symbols

	if len(req.Symbols) == 0 {
		return req, contracts.NewInputError("symbols", "must contain at least one symbol")
	}
	if o.defaults.MaxSymbols > 0 && len(req.Symbols) > o.defaults.MaxSymbols {
		return req, contracts.NewInputError("symbols", "at most %d symbols, got %d", o.defaults.MaxSymbols, len(req.Symbols))
	}

	if req.Seed == 0 {
		req.Seed = o.defaults.Seed
	}
	if req.Dates.Start == "" {
		req.Dates.Start = o.defaults.DateStart
	}
	if req.Dates.End == "" {
		req.Dates.End = o.defaults.DateEnd
	}
	if req.Times.Start == "" {
		req.Times.Start = o.defaults.TimeStart
	}
	if req.Times.End == "" {
		req.Times.End = o.defaults.TimeEnd
	}
	if req.Location == "" {
		req.Location = o.defaults.Location
	}
	if req.TopN == 0 {
		req.TopN = o.defaults.TopN
	}
	if req.Horizon == 0 {
		req.Horizon = o.defaults.Horizon
	}

	if req.TopN < 0 {
		return req, contracts.NewInputError("top_n", "must be > 0, got %d", req.TopN)
	}
	if req.Horizon < 0 {
		return req, contracts.NewInputError("horizon", "must be > 0, got %d", req.Horizon)
	}
	return req, nil
}

// Run executes the whole pipeline for req and stores the session when a
// store is configured. A failed save is logged; the session is still returned.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Session, error) {
	req, err := o.Normalize(req)
	if err != nil {
		return nil, err
	}

	startTime := o.now()
	session := &Session{
		ID:        uuid.NewString(),
		CreatedAt: startTime.UTC(),
		Request:   req,
	}
	if session.ConfigHash, err = scoringconfig.Hash(o.aggregator.Config()); err != nil {
		return nil, fmt.Errorf("hash scoring config: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"session_id": session.ID,
		"symbols":    len(req.Symbols),
		"seed":       req.Seed,
		"top_n":      req.TopN,
		"horizon":    req.Horizon,
		"source":     req.Source,
	}).Info("Starting research run")

	series := make([]*contracts.PriceSeries, len(req.Symbols))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return o.runAstrology(gctx, req, session)
	})

	g.Go(func() error {
		return o.runPrices(gctx, req, series, session)
	})

	if err := g.Wait(); err != nil {
		metrics.ResearchSessions.WithLabelValues("failed").Inc()
		return nil, err
	}

	bySymbol := make(map[string]*contracts.PriceSeries, len(series))
	for _, s := range series {
		bySymbol[s.Symbol] = s
	}

	stageStart := time.Now()
	session.Comparison, err = backtest.Compare(session.Scores, bySymbol, req.Horizon)
	metrics.ObserveStage(StageBacktest, stageStart, err)
	if err != nil {
		metrics.ResearchSessions.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("backtest comparison: %w", err)
	}

	session.CompletedAt = o.now().UTC()
	session.DurationMs = session.CompletedAt.Sub(session.CreatedAt).Milliseconds()

	if o.store != nil {
		stageStart = time.Now()
		err := o.store.Save(ctx, session)
		metrics.ObserveStage(StagePersist, stageStart, err)
		if err != nil {
			o.logger.WithError(err).WithField("session_id", session.ID).Warn("Failed to persist research session")
		} else {
			session.Persisted = true
		}
	}

	metrics.ResearchSessions.WithLabelValues("completed").Inc()

	fields := map[string]interface{}{
		"session_id":  session.ID,
		"duration_ms": session.DurationMs,
		"pairs":       session.Comparison.Pairs,
		"correlation": session.Comparison.Correlation,
		"hit_rate":    session.Comparison.HitRate,
		"persisted":   session.Persisted,
	}
	if len(session.Ranking) > 0 {
		fields["top_symbol"] = session.Ranking[0].Symbol
	}
	o.logger.WithFields(fields).Info("Research run completed")

	return session, nil
}

// runAstrology: horoscope → features → scores → ranking → distribution
func (o *Orchestrator) runAstrology(ctx context.Context, req Request, session *Session) error {
	stageStart := time.Now()
	horoscopes, err := o.generator.GenerateBatch(req.Symbols, req.Seed, req.Dates, req.Times, req.Location)
	metrics.ObserveStage(StageHoroscope, stageStart, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", StageHoroscope, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stageStart = time.Now()
	fs, err := o.extractor.ExtractBatch(horoscopes)
	metrics.ObserveStage(StageFeatures, stageStart, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", StageFeatures, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stageStart = time.Now()
	scores, err := o.aggregator.AggregateBatch(fs, req.Weights)
	metrics.ObserveStage(StageScoring, stageStart, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", StageScoring, err)
	}

	stageStart = time.Now()
	ranking, err := o.aggregator.Rank(scores, req.TopN)
	metrics.ObserveStage(StageRanking, stageStart, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", StageRanking, err)
	}

	session.Horoscopes = horoscopes
	session.Features = fs
	session.Scores = scores
	session.Ranking = ranking
	session.Distribution = o.aggregator.Distribution(scores)
	return nil
}

// runPrices synthesizes one series per symbol on a bounded worker group.
// series is indexed like req.Symbols.
func (o *Orchestrator) runPrices(ctx context.Context, req Request, series []*contracts.PriceSeries, session *Session) error {
	stageStart := time.Now()

	start, err := time.Parse("2006-01-02", req.Dates.Start)
	if err != nil {
		return contracts.NewInputError("date_range.start", "invalid date %q, expected YYYY-MM-DD", req.Dates.Start)
	}
	end, err := time.Parse("2006-01-02", req.Dates.End)
	if err != nil {
		return contracts.NewInputError("date_range.end", "invalid date %q, expected YYYY-MM-DD", req.Dates.End)
	}

	stats := make([]*prices.Stats, len(req.Symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPriceWorkers)
	for i, symbol := range req.Symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := o.synthesizer.Synthesize(symbol, start, end)
			if err != nil {
				return fmt.Errorf("symbols[%d] %q: %w", i, symbol, err)
			}
			st, err := prices.Compute(s, []int{1, 5, req.Horizon}, defaultVolWindow, 0)
			if err != nil {
				return fmt.Errorf("symbols[%d] %q: %w", i, symbol, err)
			}
			series[i] = s
			stats[i] = st
			return nil
		})
	}

	err = g.Wait()
	metrics.ObserveStage(StagePrices, stageStart, err)
	if err != nil {
		return fmt.Errorf("%s stage: %w", StagePrices, err)
	}

	session.PriceStats = stats
	return nil
}

// Get loads a stored session
func (o *Orchestrator) Get(ctx context.Context, id string) (*Session, error) {
	if o.store == nil {
		return nil, ErrNotFound
	}
	return o.store.Get(ctx, id)
}

// List returns the most recent stored sessions
func (o *Orchestrator) List(ctx context.Context, limit int) ([]Summary, error) {
	if o.store == nil {
		return []Summary{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return o.store.List(ctx, limit)
}
