package order

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
)

type Repository interface {
	// Create inserts the order header and its items in one transaction.
	Create(ctx context.Context, o *model.Order) error

	// FindByID loads the order with its items; (nil, nil) when the order
	// is missing or soft-deleted.
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	// UpdateHeader persists the mutable header fields.
	UpdateHeader(ctx context.Context, o *model.Order) error

	// UpdateItemsStatus syncs every item's status with the order's.
	UpdateItemsStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	// StampItemsExported marks every item exported by the given actor.
	StampItemsExported(ctx context.Context, orderID string, exporter *string, at time.Time) error

	// SoftDelete marks the order deleted; reads filter it out afterwards.
	SoftDelete(ctx context.Context, id string) error
}
