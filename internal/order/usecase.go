package order

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]model.Order, int, error)
	Update(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error)

	Confirm(ctx context.Context, id string) (*model.Order, error)
	Export(ctx context.Context, id string) (*model.Order, error)
	Deliver(ctx context.Context, id string) (*model.Order, error)
	Complete(ctx context.Context, id string) (*model.Order, error)
	UpdateStatus(ctx context.Context, id string, target model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, id string, target model.OrderStatus) (*model.Order, error)
	Remove(ctx context.Context, id string) error
}
