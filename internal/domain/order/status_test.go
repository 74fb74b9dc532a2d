package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to in progress", OrderStatusPending, OrderStatusInProgress, true},
		{"in progress to completed", OrderStatusInProgress, OrderStatusCompleted, true},
		{"completed to delivered", OrderStatusCompleted, OrderStatusDelivered, true},
		{"pending skips to completed", OrderStatusPending, OrderStatusCompleted, false},
		{"pending skips to delivered", OrderStatusPending, OrderStatusDelivered, false},
		{"no backwards movement", OrderStatusCompleted, OrderStatusInProgress, false},
		{"no self transition", OrderStatusPending, OrderStatusPending, false},
		{"cancel from pending", OrderStatusPending, OrderStatusCancelled, true},
		{"cancel from in progress", OrderStatusInProgress, OrderStatusCancelled, true},
		{"cancel from completed", OrderStatusCompleted, OrderStatusCancelled, true},
		{"cancel after delivery", OrderStatusDelivered, OrderStatusCancelled, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusPending, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusInProgress, false},
		{"unknown target", OrderStatusPending, OrderStatus("Shipped"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusInProgress.IsTerminal())
	assert.False(t, OrderStatusCompleted.IsTerminal())
}

func TestPaymentStatus_IsSettled(t *testing.T) {
	assert.True(t, PaymentStatusPaid.IsSettled())
	assert.True(t, PaymentStatusDone.IsSettled())
	assert.False(t, PaymentStatusPending.IsSettled())
	assert.False(t, PaymentStatusFailed.IsSettled())
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentStatusFailed.IsValid())
	assert.False(t, PaymentStatus("Refunded").IsValid())
}
