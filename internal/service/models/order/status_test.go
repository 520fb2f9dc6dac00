package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		ok   bool
	}{
		{"pending to paid", StatusPendingPayment, StatusToBeConfirmed, true},
		{"pending to cancelled", StatusPendingPayment, StatusCancelled, true},
		{"pending to confirmed skips payment", StatusPendingPayment, StatusConfirmed, false},
		{"paid to confirmed", StatusToBeConfirmed, StatusConfirmed, true},
		{"paid to cancelled", StatusToBeConfirmed, StatusCancelled, true},
		{"paid to delivery skips confirm", StatusToBeConfirmed, StatusDeliveryInProgress, false},
		{"confirmed to delivery", StatusConfirmed, StatusDeliveryInProgress, true},
		{"confirmed cannot cancel", StatusConfirmed, StatusCancelled, false},
		{"delivery to completed", StatusDeliveryInProgress, StatusCompleted, true},
		{"delivery cannot cancel", StatusDeliveryInProgress, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPendingPayment, false},
		{"no self transition", StatusConfirmed, StatusConfirmed, false},
		{"no backwards transition", StatusConfirmed, StatusToBeConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPendingPayment.Terminal())
	assert.False(t, StatusToBeConfirmed.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusDeliveryInProgress.Terminal())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "PENDING_PAYMENT", StatusPendingPayment.String())
	assert.Equal(t, "CANCELLED", StatusCancelled.String())
	assert.Equal(t, "UNKNOWN", Status(42).String())
}
