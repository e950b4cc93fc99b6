package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WaitlistSignups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Waitlist signups by outcome",
		},
		[]string{"outcome"},
	)
	ReferralCollisions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_code_collisions_total",
			Help: "Generated referral codes that were already taken",
		},
	)
	SignupCompensations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signup_compensations_total",
			Help: "User rows deleted after a failed waitlist insert",
		},
		[]string{"result"},
	)
	OrphanedWaitlistUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "waitlist_orphaned_users",
			Help: "Waitlist users with no waitlist_signups row",
		},
	)
)

func init() {
	prometheus.MustRegister(WaitlistSignups)
	prometheus.MustRegister(ReferralCollisions)
	prometheus.MustRegister(SignupCompensations)
	prometheus.MustRegister(OrphanedWaitlistUsers)
}
