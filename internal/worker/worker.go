package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/store"
)

// LedgerWorker consumes PaymentProcessed events and records each
// attempt in the local payment ledger. Ledger writes happen off the
// request path so a slow or down database never delays checkout.
type LedgerWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
}

// NewLedgerWorker creates a new ledger worker
func NewLedgerWorker(consumer *broker.Consumer, st *store.Store) *LedgerWorker {
	w := &LedgerWorker{
		consumer: consumer,
		store:    st,
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnPaymentProcessed(w.recordPayment)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *LedgerWorker) Start(ctx context.Context) error {
	log.Println("Starting payment ledger worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *LedgerWorker) Stop() error {
	log.Println("Stopping payment ledger worker...")
	return w.consumer.Close()
}

func (w *LedgerWorker) recordPayment(ctx context.Context, event *models.PaymentProcessedEvent) error {
	status := models.PaymentStatusSuccess
	if !event.Success {
		status = models.PaymentStatusFailed
	}

	payment := &models.Payment{
		OrderID:       event.OrderID,
		Amount:        event.Amount,
		Status:        status,
		TransactionID: event.TransactionID,
	}

	if err := w.store.RecordPayment(ctx, payment); err != nil {
		log.Printf("Failed to record payment for order %d: %v", event.OrderID, err)
		return err
	}

	return nil
}
