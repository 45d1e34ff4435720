package receipt

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/receipt/dto"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateReceiptInput) (*model.GoodsReceipt, error)
	Get(ctx context.Context, id string) (*model.GoodsReceipt, error)
	GetByCode(ctx context.Context, code string) (*model.GoodsReceipt, error)
	List(ctx context.Context, filters *dto.ReceiptFilters) ([]model.GoodsReceipt, int, error)
	UpdateStatus(ctx context.Context, id string, status model.ReceiptStatus) (*model.GoodsReceipt, error)
}
