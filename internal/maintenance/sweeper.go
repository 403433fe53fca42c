// Package maintenance holds periodic housekeeping jobs.
package maintenance

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper deletes expired password-reset tokens on a cron schedule.
// Expired tokens are already unusable; the sweep only reclaims rows.
type Sweeper struct {
	db       *sql.DB
	schedule cron.Schedule
	done     chan bool
}

// NewSweeper creates a new Sweeper from a standard cron spec (e.g. "@hourly").
func NewSweeper(db *sql.DB, spec string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		db:       db,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run sweeps on the configured schedule until Stop is called.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting background token sweeper...")
	for {
		timer := time.NewTimer(time.Until(s.schedule.Next(time.Now())))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping background token sweeper.")
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.done <- true
}

func (s *Sweeper) sweep() {
	res, err := s.db.Exec("DELETE FROM password_resets WHERE expires_at <= ?", time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to delete expired reset tokens")
		return
	}
	if deleted, err := res.RowsAffected(); err == nil && deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Sweeper: removed expired reset tokens")
	}
}
