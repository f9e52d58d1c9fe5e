package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/astroquant/internal/research"
	"github.com/wonny/astroquant/pkg/config"
	"github.com/wonny/astroquant/pkg/logger"
)

// Runner runs one research session
type Runner interface {
	Run(ctx context.Context, req research.Request) (*research.Session, error)
}

// ResearchSnapshotJob runs the research pipeline for the watchlist after market close
// ⭐ SSOT: 정기 리서치 스냅샷은 이 Job에서만
type ResearchSnapshotJob struct {
	runner   Runner
	schedule string
	symbols  []string
	logger   *logger.Logger
}

// NewResearchSnapshotJob creates a new snapshot job
func NewResearchSnapshotJob(runner Runner, cfg config.SchedulerConfig, log *logger.Logger) *ResearchSnapshotJob {
	return &ResearchSnapshotJob{
		runner:   runner,
		schedule: cfg.SnapshotSchedule,
		symbols:  cfg.SnapshotSymbols,
		logger:   log,
	}
}

// Name returns the job name
func (j *ResearchSnapshotJob) Name() string {
	return "research-snapshot"
}

// Schedule returns the cron schedule (weekdays 6 PM by default, with seconds)
func (j *ResearchSnapshotJob) Schedule() string {
	return j.schedule
}

// Run executes one research session over the watchlist
func (j *ResearchSnapshotJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		return fmt.Errorf("no snapshot symbols configured")
	}

	j.logger.WithField("symbols", len(j.symbols)).Info("Starting scheduled research snapshot")

	session, err := j.runner.Run(ctx, research.Request{
		Symbols: j.symbols,
		Source:  "scheduler",
	})
	if err != nil {
		return fmt.Errorf("research snapshot: %w", err)
	}

	fields := map[string]interface{}{
		"session_id":  session.ID,
		"persisted":   session.Persisted,
		"correlation": session.Comparison.Correlation,
	}
	if len(session.Ranking) > 0 {
		fields["top_symbol"] = session.Ranking[0].Symbol
		fields["top_score"] = session.Ranking[0].AstrologicalScore
	}
	j.logger.WithFields(fields).Info("Research snapshot completed")

	return nil
}
