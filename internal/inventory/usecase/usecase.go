package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/auth"
	"github.com/fekuna/omnipos-order-service/internal/inventory"
	"github.com/fekuna/omnipos-order-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 10

type inventoryUseCase struct {
	repo   inventory.Repository
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, logger logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{repo: repo, logger: logger}
}

func (u *inventoryUseCase) Create(ctx context.Context, input *dto.CreateInventoryInput) (*model.Inventory, error) {
	if input.WarehouseID == "" {
		return nil, httperrors.NewValidation("warehouse_id", "warehouse_id is required")
	}
	if input.ProductID == "" {
		return nil, httperrors.NewValidation("product_id", "product_id is required")
	}
	if input.Quantity < 0 {
		return nil, httperrors.NewValidation("quantity", "quantity cannot be negative")
	}

	existing, err := u.repo.FindByWarehouseProduct(ctx, input.WarehouseID, input.ProductID)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if existing != nil {
		return nil, httperrors.NewConflict("product_id",
			fmt.Sprintf("inventory already exists for product %s in warehouse %s", input.ProductID, input.WarehouseID))
	}

	now := time.Now()
	inv := &model.Inventory{
		ID:            uuid.New().String(),
		WarehouseID:   input.WarehouseID,
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		MinStockLevel: input.MinStockLevel,
		MaxStockLevel: input.MaxStockLevel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := u.repo.Create(ctx, inv); err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	u.logger.Info("inventory created",
		zap.String("id", inv.ID),
		zap.String("warehouse_id", inv.WarehouseID),
		zap.String("product_id", inv.ProductID))
	return inv, nil
}

func (u *inventoryUseCase) Get(ctx context.Context, id string) (*model.Inventory, error) {
	inv, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if inv == nil {
		return nil, httperrors.NewNotFound("inventory", id)
	}
	return inv, nil
}

func (u *inventoryUseCase) List(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	return u.repo.FindAll(ctx, filters)
}

func (u *inventoryUseCase) LowStock(ctx context.Context, page, pageSize int) ([]model.Inventory, int, error) {
	return u.repo.FindAll(ctx, &dto.InventoryFilters{LowStock: true, Page: page, PageSize: pageSize})
}

func (u *inventoryUseCase) HighStock(ctx context.Context, page, pageSize int) ([]model.Inventory, int, error) {
	return u.repo.FindAll(ctx, &dto.InventoryFilters{HighStock: true, Page: page, PageSize: pageSize})
}

func (u *inventoryUseCase) AddStock(ctx context.Context, id string, input *dto.StockChangeInput) (*model.Inventory, error) {
	if input.Quantity <= 0 {
		return nil, httperrors.NewValidation("quantity", "quantity must be greater than zero")
	}

	txn := u.newTransaction(ctx, model.TransactionTypeInbound, input)
	inv, err := u.repo.AddStock(ctx, id, input.Quantity, txn)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	u.logger.Info("stock added",
		zap.String("inventory_id", id),
		zap.Float64("quantity", input.Quantity),
		zap.String("transaction_id", txn.ID))
	return inv, nil
}

func (u *inventoryUseCase) RemoveStock(ctx context.Context, id string, input *dto.StockChangeInput) (*model.Inventory, error) {
	if input.Quantity <= 0 {
		return nil, httperrors.NewValidation("quantity", "quantity must be greater than zero")
	}

	txn := u.newTransaction(ctx, model.TransactionTypeOutbound, input)
	inv, err := u.repo.RemoveStock(ctx, id, input.Quantity, txn)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	u.logger.Info("stock removed",
		zap.String("inventory_id", id),
		zap.Float64("quantity", input.Quantity),
		zap.String("transaction_id", txn.ID))
	return inv, nil
}

// newTransaction builds the ledger row for a manual stock movement; the
// repository fills in the inventory identifiers and before snapshot once
// the conditional update succeeds.
func (u *inventoryUseCase) newTransaction(ctx context.Context, t model.TransactionType, input *dto.StockChangeInput) *model.InventoryTransaction {
	refType := model.ReferenceTypeManual
	txn := &model.InventoryTransaction{
		ID:            uuid.New().String(),
		Type:          t,
		Quantity:      input.Quantity,
		ReferenceType: &refType,
		Note:          input.Note,
		CreatedBy:     auth.Actor(ctx),
		CreatedAt:     time.Now(),
	}
	if input.ReferenceID != "" {
		txn.ReferenceID = &input.ReferenceID
	}
	return txn
}

func (u *inventoryUseCase) Reserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, httperrors.NewValidation("quantity", "quantity must be greater than zero")
	}
	inv, err := u.repo.Reserve(ctx, id, quantity)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	u.logger.Info("stock reserved",
		zap.String("inventory_id", id), zap.Float64("quantity", quantity))
	return inv, nil
}

func (u *inventoryUseCase) Unreserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
	if quantity <= 0 {
		return nil, httperrors.NewValidation("quantity", "quantity must be greater than zero")
	}
	inv, err := u.repo.Unreserve(ctx, id, quantity)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	u.logger.Info("stock unreserved",
		zap.String("inventory_id", id), zap.Float64("quantity", quantity))
	return inv, nil
}

func (u *inventoryUseCase) History(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	inv, err := u.repo.FindByID(ctx, inventoryID)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if inv == nil {
		return nil, httperrors.NewNotFound("inventory", inventoryID)
	}
	return u.repo.History(ctx, inventoryID, limit)
}

func (u *inventoryUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	return u.repo.ListTransactions(ctx, filters)
}

func (u *inventoryUseCase) PendingApprovals(ctx context.Context, page, pageSize int) ([]model.InventoryTransaction, int, error) {
	return u.repo.ListTransactions(ctx, &dto.TransactionFilters{Pending: true, Page: page, PageSize: pageSize})
}

// Approve marks a ledger entry as reviewed. Approving an already-approved
// entry simply refreshes the approver and date.
func (u *inventoryUseCase) Approve(ctx context.Context, id string) (*model.InventoryTransaction, error) {
	txn, err := u.repo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if txn == nil {
		return nil, httperrors.NewNotFound("inventory transaction", id)
	}

	approver := "system"
	if actor := auth.Actor(ctx); actor != nil {
		approver = *actor
	}
	now := time.Now()

	if err := u.repo.Approve(ctx, id, approver, now); err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	txn.IsApproved = true
	txn.ApprovedBy = &approver
	txn.ApprovalDate = &now

	u.logger.Info("inventory transaction approved",
		zap.String("id", id), zap.String("approved_by", approver))
	return txn, nil
}
