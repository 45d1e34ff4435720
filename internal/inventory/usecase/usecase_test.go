package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInventoryRepo struct {
	createFn                 func(ctx context.Context, inv *model.Inventory) error
	findByIDFn               func(ctx context.Context, id string) (*model.Inventory, error)
	findByWarehouseProductFn func(ctx context.Context, warehouseID, productID string) (*model.Inventory, error)
	findAllFn                func(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error)
	addStockFn               func(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error)
	removeStockFn            func(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error)
	reserveFn                func(ctx context.Context, id string, quantity float64) (*model.Inventory, error)
	unreserveFn              func(ctx context.Context, id string, quantity float64) (*model.Inventory, error)
	findTransactionByIDFn    func(ctx context.Context, id string) (*model.InventoryTransaction, error)
	listTransactionsFn       func(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
	historyFn                func(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error)
	approveFn                func(ctx context.Context, id, approver string, at time.Time) error
}

func (m *mockInventoryRepo) Create(ctx context.Context, inv *model.Inventory) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}

func (m *mockInventoryRepo) FindByID(ctx context.Context, id string) (*model.Inventory, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInventoryRepo) FindByWarehouseProduct(ctx context.Context, warehouseID, productID string) (*model.Inventory, error) {
	if m.findByWarehouseProductFn != nil {
		return m.findByWarehouseProductFn(ctx, warehouseID, productID)
	}
	return nil, nil
}

func (m *mockInventoryRepo) FindAll(ctx context.Context, filters *dto.InventoryFilters) ([]model.Inventory, int, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockInventoryRepo) AddStock(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
	if m.addStockFn != nil {
		return m.addStockFn(ctx, id, quantity, txn)
	}
	return &model.Inventory{ID: id, Quantity: quantity}, nil
}

func (m *mockInventoryRepo) RemoveStock(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
	if m.removeStockFn != nil {
		return m.removeStockFn(ctx, id, quantity, txn)
	}
	return &model.Inventory{ID: id}, nil
}

func (m *mockInventoryRepo) Reserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
	if m.reserveFn != nil {
		return m.reserveFn(ctx, id, quantity)
	}
	return &model.Inventory{ID: id, ReservedQuantity: quantity}, nil
}

func (m *mockInventoryRepo) Unreserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
	if m.unreserveFn != nil {
		return m.unreserveFn(ctx, id, quantity)
	}
	return &model.Inventory{ID: id}, nil
}

func (m *mockInventoryRepo) FindTransactionByID(ctx context.Context, id string) (*model.InventoryTransaction, error) {
	if m.findTransactionByIDFn != nil {
		return m.findTransactionByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInventoryRepo) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockInventoryRepo) History(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, inventoryID, limit)
	}
	return nil, nil
}

func (m *mockInventoryRepo) Approve(ctx context.Context, id, approver string, at time.Time) error {
	if m.approveFn != nil {
		return m.approveFn(ctx, id, approver, at)
	}
	return nil
}

func TestCreateRejectsDuplicatePair(t *testing.T) {
	repo := &mockInventoryRepo{
		findByWarehouseProductFn: func(ctx context.Context, warehouseID, productID string) (*model.Inventory, error) {
			return &model.Inventory{ID: "existing"}, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	_, err := uc.Create(context.Background(), &dto.CreateInventoryInput{
		WarehouseID: "w1",
		ProductID:   "p1",
	})
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeConflict, httperrors.From(err).Code)
}

func TestCreateValidatesInput(t *testing.T) {
	uc := NewInventoryUseCase(&mockInventoryRepo{}, logger.NewNop())

	_, err := uc.Create(context.Background(), &dto.CreateInventoryInput{ProductID: "p1"})
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)

	_, err = uc.Create(context.Background(), &dto.CreateInventoryInput{WarehouseID: "w1"})
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)

	_, err = uc.Create(context.Background(), &dto.CreateInventoryInput{
		WarehouseID: "w1", ProductID: "p1", Quantity: -5,
	})
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)
}

func TestAddStockBuildsLedgerRow(t *testing.T) {
	var captured *model.InventoryTransaction
	repo := &mockInventoryRepo{
		addStockFn: func(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
			captured = txn
			return &model.Inventory{ID: id, Quantity: 15}, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	inv, err := uc.AddStock(context.Background(), "inv1", &dto.StockChangeInput{
		Quantity: 5,
		Note:     "restock",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(15), inv.Quantity)

	require.NotNil(t, captured)
	assert.NotEmpty(t, captured.ID)
	assert.Equal(t, model.TransactionTypeInbound, captured.Type)
	assert.Equal(t, float64(5), captured.Quantity)
	assert.Equal(t, "restock", captured.Note)
	require.NotNil(t, captured.ReferenceType)
	assert.Equal(t, model.ReferenceTypeManual, *captured.ReferenceType)
	assert.False(t, captured.IsApproved)
}

func TestRemoveStockBuildsOutboundRow(t *testing.T) {
	var captured *model.InventoryTransaction
	repo := &mockInventoryRepo{
		removeStockFn: func(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
			captured = txn
			return &model.Inventory{ID: id, Quantity: 5}, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	_, err := uc.RemoveStock(context.Background(), "inv1", &dto.StockChangeInput{Quantity: 5})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, model.TransactionTypeOutbound, captured.Type)
}

func TestStockChangeRejectsNonPositiveQuantity(t *testing.T) {
	uc := NewInventoryUseCase(&mockInventoryRepo{}, logger.NewNop())

	for _, q := range []float64{0, -1} {
		_, err := uc.AddStock(context.Background(), "inv1", &dto.StockChangeInput{Quantity: q})
		require.Error(t, err)
		_, err = uc.RemoveStock(context.Background(), "inv1", &dto.StockChangeInput{Quantity: q})
		require.Error(t, err)
		_, err = uc.Reserve(context.Background(), "inv1", q)
		require.Error(t, err)
		_, err = uc.Unreserve(context.Background(), "inv1", q)
		require.Error(t, err)
	}
}

func TestReserveUnreserveRoundTrip(t *testing.T) {
	inv := &model.Inventory{ID: "inv1", Quantity: 10, ReservedQuantity: 0}
	repo := &mockInventoryRepo{
		reserveFn: func(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
			if inv.Available() < quantity {
				return nil, httperrors.NewInsufficientStock("not enough available stock")
			}
			inv.ReservedQuantity += quantity
			return inv, nil
		},
		unreserveFn: func(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
			if inv.ReservedQuantity < quantity {
				return nil, httperrors.NewBadRequest("not enough reserved stock")
			}
			inv.ReservedQuantity -= quantity
			return inv, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	got, err := uc.Reserve(context.Background(), "inv1", 4)
	require.NoError(t, err)
	assert.Equal(t, float64(4), got.ReservedQuantity)
	assert.Equal(t, float64(6), got.Available())

	// Reserving beyond what is available must fail.
	_, err = uc.Reserve(context.Background(), "inv1", 7)
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeInsufficientStock, httperrors.From(err).Code)

	got, err = uc.Unreserve(context.Background(), "inv1", 4)
	require.NoError(t, err)
	assert.Zero(t, got.ReservedQuantity)
	assert.Equal(t, float64(10), got.Available())
}

func TestRemoveStockPropagatesInsufficientStock(t *testing.T) {
	repo := &mockInventoryRepo{
		removeStockFn: func(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
			return nil, httperrors.NewInsufficientStock("available stock 2.00 is less than requested 5.00")
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	_, err := uc.RemoveStock(context.Background(), "inv1", &dto.StockChangeInput{Quantity: 5})
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeInsufficientStock, httperrors.From(err).Code)
}

func TestHistoryDefaultsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockInventoryRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Inventory, error) {
			return &model.Inventory{ID: id}, nil
		},
		historyFn: func(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	_, err := uc.History(context.Background(), "inv1", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, gotLimit)
}

func TestHistoryMissingInventory(t *testing.T) {
	uc := NewInventoryUseCase(&mockInventoryRepo{}, logger.NewNop())

	_, err := uc.History(context.Background(), "nope", 10)
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeNotFound, httperrors.From(err).Code)
}

func TestApproveStampsApprover(t *testing.T) {
	var gotApprover string
	repo := &mockInventoryRepo{
		findTransactionByIDFn: func(ctx context.Context, id string) (*model.InventoryTransaction, error) {
			return &model.InventoryTransaction{ID: id}, nil
		},
		approveFn: func(ctx context.Context, id, approver string, at time.Time) error {
			gotApprover = approver
			return nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	txn, err := uc.Approve(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, txn.IsApproved)
	require.NotNil(t, txn.ApprovedBy)
	assert.Equal(t, "system", gotApprover)
	assert.NotNil(t, txn.ApprovalDate)
}

func TestApproveIsRepeatable(t *testing.T) {
	already := "someone"
	earlier := time.Now().Add(-time.Hour)
	repo := &mockInventoryRepo{
		findTransactionByIDFn: func(ctx context.Context, id string) (*model.InventoryTransaction, error) {
			return &model.InventoryTransaction{
				ID:           id,
				IsApproved:   true,
				ApprovedBy:   &already,
				ApprovalDate: &earlier,
			}, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	txn, err := uc.Approve(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, txn.IsApproved)
	require.NotNil(t, txn.ApprovalDate)
	assert.True(t, txn.ApprovalDate.After(earlier), "re-approval refreshes the date")
}

func TestApproveMissingTransaction(t *testing.T) {
	uc := NewInventoryUseCase(&mockInventoryRepo{}, logger.NewNop())

	_, err := uc.Approve(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeNotFound, httperrors.From(err).Code)
}

func TestPendingApprovalsFilters(t *testing.T) {
	var gotFilters *dto.TransactionFilters
	repo := &mockInventoryRepo{
		listTransactionsFn: func(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
			gotFilters = filters
			return nil, 0, nil
		},
	}
	uc := NewInventoryUseCase(repo, logger.NewNop())

	_, _, err := uc.PendingApprovals(context.Background(), 2, 10)
	require.NoError(t, err)
	require.NotNil(t, gotFilters)
	assert.True(t, gotFilters.Pending)
	assert.Equal(t, 2, gotFilters.Page)
}
