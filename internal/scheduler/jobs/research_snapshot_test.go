package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/astroquant/internal/backtest"
	"github.com/wonny/astroquant/internal/research"
	"github.com/wonny/astroquant/pkg/config"
	"github.com/wonny/astroquant/pkg/logger"
)

type fakeRunner struct {
	got research.Request
	err error
}

func (f *fakeRunner) Run(_ context.Context, req research.Request) (*research.Session, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &research.Session{ID: "s-1", Comparison: &backtest.Comparison{}}, nil
}

func TestResearchSnapshotJob(t *testing.T) {
	runner := &fakeRunner{}
	job := NewResearchSnapshotJob(runner, config.SchedulerConfig{
		SnapshotSchedule: "0 0 18 * * 1-5",
		SnapshotSymbols:  []string{"TCS", "INFY"},
	}, logger.Nop())

	assert.Equal(t, "research-snapshot", job.Name())
	assert.Equal(t, "0 0 18 * * 1-5", job.Schedule())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"TCS", "INFY"}, runner.got.Symbols)
	assert.Equal(t, "scheduler", runner.got.Source)

	runner.err = errors.New("boom")
	assert.Error(t, job.Run(context.Background()))
}

func TestResearchSnapshotJob_NoSymbols(t *testing.T) {
	job := NewResearchSnapshotJob(&fakeRunner{}, config.SchedulerConfig{SnapshotSchedule: "@daily"}, logger.Nop())
	assert.Error(t, job.Run(context.Background()))
}
