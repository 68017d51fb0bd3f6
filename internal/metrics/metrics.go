package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Reservation outcomes.
const (
	OutcomeReserved = "reserved"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
)

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

var (
	once sync.Once

	reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homevisit",
			Name:      "reservations_total",
			Help:      "Count of reservation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	feedback = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "homevisit",
			Name:      "feedback_total",
			Help:      "Count of feedback messages received.",
		},
	)

	notificationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homevisit",
			Name:      "notifications_failed_total",
			Help:      "Count of notifications that could not be delivered.",
		},
		[]string{"channel"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservations, feedback, notificationsFailed)
	})
}

func IncReservation(outcome string) {
	reservations.WithLabelValues(outcome).Inc()
}

func IncFeedback() {
	feedback.Inc()
}

func AddNotificationsFailed(channel string, n int) {
	if n > 0 {
		notificationsFailed.WithLabelValues(channel).Add(float64(n))
	}
}
