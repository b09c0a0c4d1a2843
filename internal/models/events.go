package models

import "time"

// Event types published to the order-events topic.
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusUpdated = "ORDER_STATUS_UPDATED"
	EventTypePaymentProcessed   = "PAYMENT_PROCESSED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when a storefront order is placed
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int         `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Total       float64     `json:"total"`
	Items       []OrderItem `json:"items"`
}

// OrderStatusUpdatedEvent published when an order moves to a new status
type OrderStatusUpdatedEvent struct {
	BaseEvent
	OrderID int    `json:"order_id"`
	Status  string `json:"status"`
}

// PaymentProcessedEvent published after a payment attempt, success or not
type PaymentProcessedEvent struct {
	BaseEvent
	OrderID       int     `json:"order_id"`
	Amount        float64 `json:"amount"`
	Success       bool    `json:"success"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Reason        string  `json:"reason,omitempty"`
}
