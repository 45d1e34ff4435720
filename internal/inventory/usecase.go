package inventory

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-order-service/internal/model"
)

type UseCase interface {
	Create(ctx context.Context, input *dto.CreateInventoryInput) (*model.Inventory, error)
	Get(ctx context.Context, id string) (*model.Inventory, error)
	List(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	LowStock(ctx context.Context, page, pageSize int) ([]model.Inventory, int, error)
	HighStock(ctx context.Context, page, pageSize int) ([]model.Inventory, int, error)

	AddStock(ctx context.Context, id string, input *dto.StockChangeInput) (*model.Inventory, error)
	RemoveStock(ctx context.Context, id string, input *dto.StockChangeInput) (*model.Inventory, error)
	Reserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error)
	Unreserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error)

	History(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
	PendingApprovals(ctx context.Context, page, pageSize int) ([]model.InventoryTransaction, int, error)
	Approve(ctx context.Context, id string) (*model.InventoryTransaction, error)
}
