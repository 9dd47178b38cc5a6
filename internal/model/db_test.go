package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatus_Terminal(t *testing.T) {
	assert.False(t, PaymentPending.Terminal())
	assert.True(t, PaymentSuccess.Terminal())
	assert.True(t, PaymentFailed.Terminal())
}
