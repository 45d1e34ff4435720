package events

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/google/uuid"
)

// Event names broadcast to every subscriber of the order channel.
const (
	OrderCreated       = "order:created"
	OrderUpdated       = "order:updated"
	OrderStatusUpdated = "order:status-updated"
	OrderCancelled     = "order:cancelled"
	OrderDeleted       = "order:deleted"
)

// OrderEvent is the envelope written to the broker. Payload always carries
// the full order so subscribers need no follow-up read.
type OrderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   *model.Order `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

func NewOrderEvent(eventType string, order *model.Order) *OrderEvent {
	return &OrderEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   order,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher is the notification sink the order engine writes to. Delivery
// guarantees are the transport's concern; the core never waits on them.
type Publisher interface {
	Publish(ctx context.Context, event *OrderEvent) error
}
