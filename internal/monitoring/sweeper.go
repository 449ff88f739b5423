package monitoring

import (
	"time"

	"github.com/isdelr/accounthub-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SessionSweeper periodically removes expired sessions from the store.
// The sweep is time-driven, not request-driven: a session past its expiry
// is unusable immediately (the middleware rejects it), the sweep only
// reclaims the rows.
type SessionSweeper struct {
	sessionSvc services.SessionServiceProvider
	eventSvc   services.EventServiceProvider
	schedule   cron.Schedule
	done       chan bool
}

// NewSessionSweeper creates a sweeper driven by a standard cron
// expression, e.g. "*/15 * * * *".
func NewSessionSweeper(sessionSvc services.SessionServiceProvider, eventSvc services.EventServiceProvider, cronExpr string) (*SessionSweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &SessionSweeper{
		sessionSvc: sessionSvc,
		eventSvc:   eventSvc,
		schedule:   schedule,
		done:       make(chan bool),
	}, nil
}

// Run starts the sweep loop. It blocks until Stop is called.
func (sw *SessionSweeper) Run() {
	log.Info().Msg("Starting background session sweeper...")

	// Run once immediately on start
	sw.sweep()

	for {
		timer := time.NewTimer(time.Until(sw.schedule.Next(time.Now())))
		select {
		case <-sw.done:
			timer.Stop()
			log.Info().Msg("Stopping background session sweeper.")
			return
		case <-timer.C:
			sw.sweep()
		}
	}
}

// Stop halts the sweep loop.
func (sw *SessionSweeper) Stop() {
	sw.done <- true
}

// sweep deletes all sessions past their expiry.
func (sw *SessionSweeper) sweep() {
	swept, err := sw.sessionSvc.DeleteExpired()
	if err != nil {
		log.Error().Err(err).Msg("SessionSweeper: Failed to delete expired sessions")
		return
	}
	if swept > 0 {
		log.Info().Int64("count", swept).Msg("SessionSweeper: Removed expired sessions")
		if err := sw.eventSvc.CreateEvent("session.sweep", "info", "Expired sessions removed", nil); err != nil {
			log.Warn().Err(err).Msg("SessionSweeper: Failed to record sweep event")
		}
	}
}
