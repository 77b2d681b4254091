package session

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultMaxIdle is how long a session may sit without activity before the
// reaper removes it.
const DefaultMaxIdle = 30 * time.Minute

// Reaper periodically removes idle sessions. Sessions normally die with
// their connection; the reaper covers connections that are never cleanly
// closed.
type Reaper struct {
	manager *Manager
	maxIdle time.Duration
	cron    *cron.Cron
	logger  zerolog.Logger
}

// NewReaper creates a reaper on the given manager. maxIdle <= 0 selects the
// default.
func NewReaper(manager *Manager, maxIdle time.Duration, logger zerolog.Logger) *Reaper {
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}
	return &Reaper{
		manager: manager,
		maxIdle: maxIdle,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start schedules the reap job. The sweep interval is coarse on purpose;
// idle detection does not need to be prompt.
func (r *Reaper) Start() error {
	_, err := r.cron.AddFunc("@every 5m", func() {
		r.manager.ReapIdle(r.maxIdle)
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info().Dur("max_idle", r.maxIdle).Msg("Session reaper started")
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (r *Reaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info().Msg("Session reaper stopped")
}
