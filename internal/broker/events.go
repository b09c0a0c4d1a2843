package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing storefront domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishOrderStatusUpdated publishes OrderStatusUpdated event
func (ep *EventPublisher) PublishOrderStatusUpdated(ctx context.Context, event *models.OrderStatusUpdatedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentProcessed publishes PaymentProcessed event
func (ep *EventPublisher) PublishPaymentProcessed(ctx context.Context, event *models.PaymentProcessedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered handlers
type EventHandler struct {
	onPaymentProcessed   func(context.Context, *models.PaymentProcessedEvent) error
	onOrderStatusUpdated func(context.Context, *models.OrderStatusUpdatedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnPaymentProcessed registers a handler for PaymentProcessed events
func (eh *EventHandler) OnPaymentProcessed(handler func(context.Context, *models.PaymentProcessedEvent) error) {
	eh.onPaymentProcessed = handler
}

// OnOrderStatusUpdated registers a handler for OrderStatusUpdated events
func (eh *EventHandler) OnOrderStatusUpdated(handler func(context.Context, *models.OrderStatusUpdatedEvent) error) {
	eh.onOrderStatusUpdated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypePaymentProcessed:
		if eh.onPaymentProcessed != nil {
			var event models.PaymentProcessedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentProcessed event: %w", err)
			}
			return eh.onPaymentProcessed(ctx, &event)
		}

	case models.EventTypeOrderStatusUpdated:
		if eh.onOrderStatusUpdated != nil {
			var event models.OrderStatusUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusUpdated event: %w", err)
			}
			return eh.onOrderStatusUpdated(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
