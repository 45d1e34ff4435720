package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-order-service/internal/model"
)

type Repository interface {
	// Records
	Create(ctx context.Context, inv *model.Inventory) error
	FindByID(ctx context.Context, id string) (*model.Inventory, error)
	FindByWarehouseProduct(ctx context.Context, warehouseID, productID string) (*model.Inventory, error)
	FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)

	// Stock mutations. Each one is a single conditional UPDATE whose WHERE
	// clause is the guard; add/remove append the audit row in the same
	// transaction.
	AddStock(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error)
	RemoveStock(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error)
	Reserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error)
	Unreserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error)

	// Audit ledger
	FindTransactionByID(ctx context.Context, id string) (*model.InventoryTransaction, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
	History(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error)
	Approve(ctx context.Context, id, approver string, at time.Time) error
}
