package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_portal_signins_total",
		Help: "Number of sign-in attempts by method and outcome.",
	}, []string{"method", "outcome"})

	signUpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_portal_signups_total",
		Help: "Number of account registrations by outcome.",
	}, []string{"outcome"})

	passwordResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "account_portal_password_resets_total",
		Help: "Number of password reset requests by stage and outcome.",
	}, []string{"stage", "outcome"})
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"

	methodPassword = "password"
	methodOIDC     = "oidc"
)

func outcome(err error) string {
	if err != nil {
		return outcomeFailure
	}

	return outcomeSuccess
}
