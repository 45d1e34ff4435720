package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/catalog"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/broker"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogListener keeps the local product projection in sync with the
// product service. Only descriptive fields flow in; the stock counter is
// owned here and never overwritten by an event.
type CatalogListener struct {
	consumer *broker.KafkaConsumer
	repo     catalog.Repository
	logger   logger.ZapLogger
}

func NewCatalogListener(consumer *broker.KafkaConsumer, repo catalog.Repository, logger logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		consumer: consumer,
		repo:     repo,
		logger:   logger,
	}
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("starting catalog listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping catalog listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type productEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	Payload   productPayload `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type productPayload struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	IsAvailable bool    `json:"is_available"`
}

func (l *CatalogListener) processMessage(ctx context.Context, value []byte) {
	var event productEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal product event", zap.Error(err))
		return
	}

	switch event.EventType {
	case "product:created", "product:updated":
	default:
		return
	}

	product := &model.Product{
		ID:          event.Payload.ID,
		Name:        event.Payload.Name,
		SKU:         event.Payload.SKU,
		Price:       decimal.NewFromFloat(event.Payload.Price),
		Stock:       event.Payload.Stock,
		IsAvailable: event.Payload.IsAvailable,
	}

	if err := l.repo.Upsert(ctx, product); err != nil {
		l.logger.Error("failed to sync product projection",
			zap.String("product_id", product.ID), zap.Error(err))
		return
	}

	l.logger.Info("product projection synced",
		zap.String("product_id", product.ID),
		zap.String("event_type", event.EventType))
}
