package receipt

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/receipt/dto"
)

type Repository interface {
	// CreateWithItems persists the receipt header, its items, the warehouse
	// stock increments, and the audit rows in one database transaction.
	CreateWithItems(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error

	FindByID(ctx context.Context, id string) (*model.GoodsReceipt, error)
	FindByCode(ctx context.Context, code string) (*model.GoodsReceipt, error)
	FindAll(ctx context.Context, filters *dto.ReceiptFilters) ([]model.GoodsReceipt, int, error)
	UpdateStatus(ctx context.Context, id string, status model.ReceiptStatus) error
}
