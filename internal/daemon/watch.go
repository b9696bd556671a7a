package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"

	"github.com/go-account-portal/go-account-portal/internal/web/session"
)

var signedInGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "account_portal_session_signed_in",
	Help: "Whether the most recent session event was a sign-in (1) or sign-out (0).",
})

// watchSessions subscribes logging and metrics to the session watcher. This
// is the process-wide observer; per-request state lives in the guard. The
// returned func removes the subscription and belongs in the shutdown path.
func watchSessions(watcher *session.Watcher) (unsubscribe func()) {
	return watcher.Subscribe(func(s *session.Session) {
		if s == nil {
			signedInGauge.Set(0)
			log.Debug().Msg("session cleared")

			return
		}

		signedInGauge.Set(1)
		log.Debug().
			Uint64("user_id", s.UserID).
			Str("email", s.Email).
			Msg("session established")
	})
}
