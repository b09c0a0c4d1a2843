package store

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-service/internal/models"
)

// RecordPayment inserts one payment attempt into the ledger
func (s *Store) RecordPayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, amount, status, transaction_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, payment, query,
		payment.OrderID, payment.Amount, payment.Status, payment.TransactionID)
}

// GetPaymentsByOrderID retrieves payment attempts for an order, newest first
func (s *Store) GetPaymentsByOrderID(ctx context.Context, orderID int) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.SelectContext(ctx, &payments,
		"SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at DESC", orderID)
	return payments, err
}

// GetPaymentByTransactionID retrieves a single payment by its transaction id
func (s *Store) GetPaymentByTransactionID(ctx context.Context, txID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment,
		"SELECT * FROM payments WHERE transaction_id = $1", txID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment not found: %s", txID)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
