package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Janitor periodically sweeps idle workspaces out of a registry.
type Janitor struct {
	cron     *cron.Cron
	registry *WorkspaceRegistry
	log      zerolog.Logger
}

// NewJanitor schedules a sweep every interval.
func NewJanitor(registry *WorkspaceRegistry, interval time.Duration, log zerolog.Logger) (*Janitor, error) {
	j := &Janitor{
		cron:     cron.New(cron.WithSeconds()),
		registry: registry,
		log:      log,
	}
	schedule := fmt.Sprintf("@every %s", interval)
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("schedule workspace sweep %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) sweep() {
	n := j.registry.Sweep(time.Now())
	j.log.Debug().Int("evicted", n).Int("live", j.registry.Len()).Msg("workspace sweep")
}

// Start begins the schedule in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	j.log.Info().Msg("workspace janitor started")
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	j.log.Info().Msg("workspace janitor stopped")
}
