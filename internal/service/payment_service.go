package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentFailedMessage is the fixed user-facing message for a declined
// simulated payment.
const PaymentFailedMessage = "Payment failed. Please try again."

// PaymentInput is the payload for a payment attempt.
type PaymentInput struct {
	OrderID int     `json:"orderId,omitempty"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method,omitempty"`
}

// PaymentReceipt is the successful outcome of a payment attempt.
type PaymentReceipt struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
}

// PaymentService simulates a payment gateway: a fixed delay and a
// uniform random success draw. It is a stand-in, not an integration; a
// real gateway would replace Process while keeping its interface shape.
type PaymentService struct {
	publisher   *broker.EventPublisher
	logger      *zap.Logger
	successRate float64
	delay       time.Duration
	draw        func() float64
}

// NewPaymentService creates a new payment service
func NewPaymentService(publisher *broker.EventPublisher, successRate float64, delay time.Duration) *PaymentService {
	return &PaymentService{
		publisher:   publisher,
		logger:      util.GetLogger(),
		successRate: successRate,
		delay:       delay,
		draw:        rand.Float64,
	}
}

// Process runs one simulated payment attempt. The delay is a plain
// sleep, matching the stand-in semantics: not interruptible, no retry.
func (ps *PaymentService) Process(ctx context.Context, input PaymentInput) Result[PaymentReceipt] {
	ctx, span := util.StartSpan(ctx, "PaymentService.Process")
	defer span.End()

	util.PaymentAttemptsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	ps.logger.Info("Processing payment",
		zap.Int("order_id", input.OrderID),
		zap.Float64("amount", input.Amount))

	time.Sleep(ps.delay)

	if ps.draw() < ps.successRate {
		txID := fmt.Sprintf("txn_%d", time.Now().UnixMilli())

		ps.logger.Info("Payment succeeded",
			zap.Int("order_id", input.OrderID),
			zap.String("tx_id", txID))

		util.PaymentSuccessTotal.Inc()
		ps.publishOutcome(ctx, input, true, txID, "")

		return ok(PaymentReceipt{
			TransactionID: txID,
			Status:        "completed",
		})
	}

	ps.logger.Warn("Payment declined", zap.Int("order_id", input.OrderID))

	util.PaymentFailedTotal.Inc()
	ps.publishOutcome(ctx, input, false, "", "payment_declined")

	return fail[PaymentReceipt](PaymentFailedMessage)
}

func (ps *PaymentService) publishOutcome(ctx context.Context, input PaymentInput, success bool, txID, reason string) {
	if ps.publisher == nil {
		return
	}
	event := &models.PaymentProcessedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentProcessed,
			Timestamp: time.Now(),
		},
		OrderID:       input.OrderID,
		Amount:        input.Amount,
		Success:       success,
		TransactionID: txID,
		Reason:        reason,
	}
	if err := ps.publisher.PublishPaymentProcessed(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentProcessed event", zap.Error(err))
	}
}
