package worker

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/cooper-gadd/uno/internal/database"
	"github.com/cooper-gadd/uno/internal/game"
)

const (
	sweepInterval = time.Minute
	// staleWaitingAge is how long a waiting game may sit unstarted before
	// its row is deleted.
	staleWaitingAge = 24 * time.Hour
	taskTimeout     = 30 * time.Second
)

// Reaper periodically clears expired sessions, deletes waiting games nobody
// ever started, and tears down idle in-memory games.
type Reaper struct {
	store     database.Store
	manager   *game.Manager
	grace     time.Duration
	scheduler gocron.Scheduler
}

// NewReaper builds the reaper with its jobs registered but not started.
func NewReaper(store database.Store, manager *game.Manager, grace time.Duration) (*Reaper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	r := &Reaper{store: store, manager: manager, grace: grace, scheduler: s}
	if _, err := s.NewJob(gocron.DurationJob(sweepInterval), gocron.NewTask(r.sweep)); err != nil {
		return nil, err
	}
	return r, nil
}

// Start launches the background sweeps.
func (r *Reaper) Start() {
	r.scheduler.Start()
	logrus.WithField("interval", sweepInterval).Info("reaper started")
}

// Stop shuts the scheduler down, waiting for a running sweep to finish.
func (r *Reaper) Stop() {
	if err := r.scheduler.Shutdown(); err != nil {
		logrus.WithError(err).Warn("reaper shutdown")
	}
}

func (r *Reaper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	now := time.Now().UTC()
	if n, err := r.store.DeleteExpiredSessions(ctx, now); err != nil {
		logrus.WithError(err).Warn("reaper: delete expired sessions")
	} else if n > 0 {
		logrus.WithField("count", n).Info("reaper: expired sessions deleted")
	}

	if n, err := r.store.DeleteStaleWaitingGames(ctx, now.Add(-staleWaitingAge)); err != nil {
		logrus.WithError(err).Warn("reaper: delete stale waiting games")
	} else if n > 0 {
		logrus.WithField("count", n).Info("reaper: stale waiting games deleted")
	}

	if n := r.manager.SweepIdle(r.grace); n > 0 {
		logrus.WithField("count", n).Info("reaper: idle games torn down")
	}
}
