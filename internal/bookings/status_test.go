package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	testCases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusIDPending, StatusIDSubmitted, true},
		{StatusIDPending, StatusCancelled, true},
		{StatusIDPending, StatusConfirmed, false},
		{StatusIDSubmitted, StatusConfirmed, true},
		{StatusIDSubmitted, StatusRejected, true},
		{StatusIDSubmitted, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusRejected, false},
		{StatusPaymentDone, StatusIDSubmitted, true},
		{StatusPaymentDone, StatusConfirmed, true},
		{StatusRefundPending, StatusRefunded, true},
		{StatusCompleted, StatusCancelled, false},
		{StatusRejected, StatusIDSubmitted, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusRefunded, StatusRefundPending, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestStatus_TerminalAndVoided(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusRejected, StatusCancelled, StatusRefunded} {
		assert.True(t, s.IsTerminal(), s)
		assert.False(t, s.CanBeCancelled(), s)
	}
	for _, s := range []Status{StatusIDPending, StatusIDSubmitted, StatusConfirmed, StatusPaymentDone} {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.CanBeCancelled(), s)
	}

	assert.ElementsMatch(t, []Status{StatusCancelled, StatusRejected, StatusRefunded}, VoidedStatuses())
	assert.False(t, StatusCompleted.IsVoided())
	assert.False(t, StatusRefundPending.IsVoided())
}

func TestSourcesOf(t *testing.T) {
	assert.ElementsMatch(t,
		[]Status{StatusIDPending, StatusIDSubmitted, StatusConfirmed, StatusPaymentDone},
		SourcesOf(StatusCancelled))
	assert.ElementsMatch(t, []Status{StatusConfirmed}, SourcesOf(StatusCompleted))
}

func TestEnums(t *testing.T) {
	assert.True(t, BookingTypeNightly.IsValid())
	assert.True(t, BookingTypeHourly.IsValid())
	assert.False(t, BookingType("weekly").IsValid())

	assert.True(t, IDProofType("Driving License").IsValid())
	assert.False(t, IDProofType("PAN").IsValid())

	assert.True(t, DecisionReject.IsValid())
	assert.False(t, Decision("maybe").IsValid())
}
