package store

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically deletes expired markers. SQLite has no TTL of its
// own, so expiry is enforced on read and reclaimed here.
type Sweeper struct {
	logger *slog.Logger
	store  *Store
	cron   *cron.Cron
}

// NewSweeper builds an hourly sweeper over the store. Call Start to run it.
func NewSweeper(log *slog.Logger, store *Store) (*Sweeper, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Sweeper{
		logger: log.With(slog.String("service", "sweeper")),
		store:  store,
		cron:   cron.New(),
	}
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the sweep schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	n, err := s.store.PurgeExpired(context.Background())
	if err != nil {
		s.logger.Error("marker sweep failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		s.logger.Debug("swept expired markers", slog.Int64("removed", n))
	}
}
