package events

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-order-service/pkg/broker"
)

// KafkaPublisher writes order events to the shared orders topic, keyed by
// order id so one order's events stay in partition order.
type KafkaPublisher struct {
	producer *broker.KafkaProducer
}

func NewKafkaPublisher(producer *broker.KafkaProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *OrderEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, []byte(event.Payload.ID), value)
}
