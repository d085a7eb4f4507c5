package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanCancel(t *testing.T) {
	tests := []struct {
		status    OrderStatus
		canCancel bool
	}{
		{OrderStatusPending, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canCancel, tt.status.CanCancel())
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		terminal bool
	}{
		{OrderStatusPending, false},
		{OrderStatusProcessing, false},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}

func TestValidPaymentMethods(t *testing.T) {
	assert.True(t, ValidPaymentMethods[PaymentMethodCard])
	assert.True(t, ValidPaymentMethods[PaymentMethodBankTransfer])
	assert.True(t, ValidPaymentMethods[PaymentMethodCashOnDelivery])
	assert.False(t, ValidPaymentMethods["cheque"])
	assert.False(t, ValidPaymentMethods[""])
}
