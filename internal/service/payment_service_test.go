package service

import (
	"context"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPaymentSuccessReceipt(t *testing.T) {
	ps := NewPaymentService(nil, 0.9, 0)
	ps.draw = func() float64 { return 0 } // always below the rate

	result := ps.Process(context.Background(), PaymentInput{OrderID: 1, Amount: 80})

	require.True(t, result.Success)
	assert.Regexp(t, regexp.MustCompile(`^txn_\d+$`), result.Data.TransactionID)
	assert.Equal(t, "completed", result.Data.Status)
}

func TestProcessPaymentDeclined(t *testing.T) {
	ps := NewPaymentService(nil, 0.9, 0)
	ps.draw = func() float64 { return 0.99 } // always above the rate

	result := ps.Process(context.Background(), PaymentInput{OrderID: 1, Amount: 80})

	assert.False(t, result.Success)
	assert.Equal(t, PaymentFailedMessage, result.Error)
	assert.Empty(t, result.Data.TransactionID)
}

func TestProcessPaymentSuccessRate(t *testing.T) {
	ps := NewPaymentService(nil, 0.9, 0)
	rng := rand.New(rand.NewSource(1))
	ps.draw = rng.Float64

	const attempts = 1000
	successes := 0
	for i := 0; i < attempts; i++ {
		if ps.Process(context.Background(), PaymentInput{Amount: 10}).Success {
			successes++
		}
	}

	// Uniform draw against a 0.9 threshold; allow a wide band around
	// the expected 900.
	assert.Greater(t, successes, 850)
	assert.Less(t, successes, 950)
}
