package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(reservations.WithLabelValues(OutcomeConflict))
	IncReservation(OutcomeConflict)
	IncReservation(OutcomeConflict)
	assert.Equal(t, before+2, testutil.ToFloat64(reservations.WithLabelValues(OutcomeConflict)))

	before = testutil.ToFloat64(feedback)
	IncFeedback()
	assert.Equal(t, before+1, testutil.ToFloat64(feedback))

	before = testutil.ToFloat64(notificationsFailed.WithLabelValues(ChannelPush))
	AddNotificationsFailed(ChannelPush, 3)
	AddNotificationsFailed(ChannelPush, 0)
	assert.Equal(t, before+3, testutil.ToFloat64(notificationsFailed.WithLabelValues(ChannelPush)))
}
