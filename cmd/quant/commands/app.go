package commands

import (
	"context"
	"fmt"

	"github.com/wonny/astroquant/internal/features"
	"github.com/wonny/astroquant/internal/horoscope"
	"github.com/wonny/astroquant/internal/prices"
	"github.com/wonny/astroquant/internal/ratelimit"
	"github.com/wonny/astroquant/internal/research"
	"github.com/wonny/astroquant/internal/scoring"
	"github.com/wonny/astroquant/internal/scoringconfig"
	"github.com/wonny/astroquant/pkg/cache"
	"github.com/wonny/astroquant/pkg/config"
	"github.com/wonny/astroquant/pkg/database"
	"github.com/wonny/astroquant/pkg/logger"
	"github.com/wonny/astroquant/pkg/redis"
)

const memorySessionCapacity = 256

// app holds the wired pipeline shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	scoring *scoringconfig.Config

	generator    *horoscope.Generator
	extractor    *features.Extractor
	aggregator   *scoring.Aggregator
	synthesizer  *prices.Synthesizer
	orchestrator *research.Orchestrator

	db        *database.DB  // nil without DATABASE_URL
	redis     *redis.Client // no-op client when disabled
	cache     cache.Store
	rateStore ratelimit.Store
}

// appOptions selects which backing services a command needs
type appOptions struct {
	persist  bool // connect PostgreSQL when configured
	services bool // connect Redis when enabled
}

// newApp wires the pipeline. A configured database that cannot be reached is an error.
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, opts appOptions) (*app, error) {
	scfg, err := scoringconfig.LoadOrDefault(cfg.ScoringConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}

	a := &app{
		cfg:         cfg,
		log:         log,
		scoring:     scfg,
		generator:   horoscope.NewGenerator(log),
		extractor:   features.NewExtractor(log),
		aggregator:  scoring.NewAggregator(scfg, log.Zerolog()),
		synthesizer: prices.NewSynthesizer(cfg.Research.Seed, log),
		cache:       cache.NewMemory(),
		rateStore:   ratelimit.NewMemoryStore(),
	}

	var store research.Store = research.NewMemoryStore(memorySessionCapacity)
	if opts.persist && cfg.Database.Enabled() {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo := research.NewRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure research schema: %w", err)
		}
		a.db = db
		store = repo
		log.Info("Research sessions persisted to PostgreSQL")
	}

	if opts.services {
		rc, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = rc
		if rc.Enabled() {
			a.cache = redis.NewCache(rc)
			a.rateStore = redis.NewWindowStore(rc)
			log.Info("Redis cache and rate limit store enabled")
		}
	}

	a.orchestrator = research.NewOrchestrator(
		a.generator, a.extractor, a.aggregator, a.synthesizer,
		store, cfg.Research, log,
	)
	return a, nil
}

// Close releases database and redis connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}

// cliLogger is silent unless --verbose, so tables stay readable
func cliLogger(cfg *config.Config) *logger.Logger {
	if verbose {
		return logger.New(cfg)
	}
	return logger.Nop()
}
