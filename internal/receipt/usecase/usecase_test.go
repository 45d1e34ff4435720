package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/receipt/dto"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReceiptRepo struct {
	createWithItemsFn func(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error
	findByIDFn        func(ctx context.Context, id string) (*model.GoodsReceipt, error)
	findByCodeFn      func(ctx context.Context, code string) (*model.GoodsReceipt, error)
	findAllFn         func(ctx context.Context, filters *dto.ReceiptFilters) ([]model.GoodsReceipt, int, error)
	updateStatusFn    func(ctx context.Context, id string, status model.ReceiptStatus) error
}

func (m *mockReceiptRepo) CreateWithItems(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error {
	if m.createWithItemsFn != nil {
		return m.createWithItemsFn(ctx, receipt, txns)
	}
	return nil
}

func (m *mockReceiptRepo) FindByID(ctx context.Context, id string) (*model.GoodsReceipt, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockReceiptRepo) FindByCode(ctx context.Context, code string) (*model.GoodsReceipt, error) {
	if m.findByCodeFn != nil {
		return m.findByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockReceiptRepo) FindAll(ctx context.Context, filters *dto.ReceiptFilters) ([]model.GoodsReceipt, int, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, filters)
	}
	return nil, 0, nil
}

func (m *mockReceiptRepo) UpdateStatus(ctx context.Context, id string, status model.ReceiptStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func validInput() *dto.CreateReceiptInput {
	return &dto.CreateReceiptInput{
		WarehouseID: "w1",
		SupplierID:  "s1",
		Items: []dto.CreateReceiptItemInput{
			{ProductID: "p1", Quantity: 10, Price: 2.5},
			{ProductID: "p2", Quantity: 4},
		},
	}
}

func TestCreateBuildsReceiptAndLedgerRows(t *testing.T) {
	var gotReceipt *model.GoodsReceipt
	var gotTxns []model.InventoryTransaction
	repo := &mockReceiptRepo{
		createWithItemsFn: func(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error {
			gotReceipt = receipt
			gotTxns = txns
			return nil
		},
	}
	uc := NewReceiptUseCase(repo, logger.NewNop())

	r, err := uc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.Code, "GR-"), "code = %s", r.Code)
	assert.Equal(t, model.ReceiptStatusCompleted, r.Status)
	require.NotNil(t, r.SupplierID)
	assert.Equal(t, "s1", *r.SupplierID)
	require.Len(t, r.Items, 2)
	require.NotNil(t, r.Items[0].Price)
	assert.Nil(t, r.Items[1].Price, "zero price stays null")

	require.NotNil(t, gotReceipt)
	require.Len(t, gotTxns, 2)
	for i, txn := range gotTxns {
		assert.Equal(t, model.TransactionTypeInbound, txn.Type)
		assert.Equal(t, "w1", txn.WarehouseID)
		require.NotNil(t, txn.ReferenceType)
		assert.Equal(t, model.ReferenceTypeGoodsReceipt, *txn.ReferenceType)
		require.NotNil(t, txn.ReferenceID)
		assert.Equal(t, r.ID, *txn.ReferenceID)
		assert.Equal(t, r.Items[i].Quantity, txn.Quantity)
	}
}

func TestCreateValidatesItems(t *testing.T) {
	uc := NewReceiptUseCase(&mockReceiptRepo{}, logger.NewNop())

	_, err := uc.Create(context.Background(), &dto.CreateReceiptInput{WarehouseID: "w1"})
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)

	input := validInput()
	input.Items[1].Quantity = 0
	_, err = uc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)

	input = validInput()
	input.WarehouseID = ""
	_, err = uc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)
}

func TestCreateFailurePersistsNothing(t *testing.T) {
	repo := &mockReceiptRepo{
		createWithItemsFn: func(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error {
			return httperrors.NewConflict("code", "duplicate value violates unique constraint")
		},
	}
	uc := NewReceiptUseCase(repo, logger.NewNop())

	_, err := uc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeConflict, httperrors.From(err).Code)
}

func TestGetMissingReceipt(t *testing.T) {
	uc := NewReceiptUseCase(&mockReceiptRepo{}, logger.NewNop())

	_, err := uc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeNotFound, httperrors.From(err).Code)

	_, err = uc.GetByCode(context.Background(), "GR-NOPE")
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeNotFound, httperrors.From(err).Code)
}

func TestCreateAsDraft(t *testing.T) {
	uc := NewReceiptUseCase(&mockReceiptRepo{}, logger.NewNop())

	input := validInput()
	input.Status = string(model.ReceiptStatusDraft)
	r, err := uc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusDraft, r.Status)

	input = validInput()
	input.Status = "shipped"
	_, err = uc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)
}

func TestUpdateStatus(t *testing.T) {
	var gotStatus model.ReceiptStatus
	repo := &mockReceiptRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.GoodsReceipt, error) {
			return &model.GoodsReceipt{ID: id, Code: "GR-X", Status: model.ReceiptStatusDraft}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status model.ReceiptStatus) error {
			gotStatus = status
			return nil
		},
	}
	uc := NewReceiptUseCase(repo, logger.NewNop())

	for _, status := range []model.ReceiptStatus{
		model.ReceiptStatusDraft,
		model.ReceiptStatusCompleted,
		model.ReceiptStatusCancelled,
	} {
		r, err := uc.UpdateStatus(context.Background(), "r1", status)
		require.NoError(t, err)
		assert.Equal(t, status, r.Status)
		assert.Equal(t, status, gotStatus)
	}
}

// Cancelling a receipt flips the status only; the stock it brought in stays
// until a manual outbound adjustment reverses it.
func TestUpdateStatusKeepsStock(t *testing.T) {
	createCalled := false
	repo := &mockReceiptRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.GoodsReceipt, error) {
			return &model.GoodsReceipt{ID: id, Code: "GR-X", Status: model.ReceiptStatusCompleted}, nil
		},
		createWithItemsFn: func(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error {
			createCalled = true
			return nil
		},
	}
	uc := NewReceiptUseCase(repo, logger.NewNop())

	r, err := uc.UpdateStatus(context.Background(), "r1", model.ReceiptStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptStatusCancelled, r.Status)
	assert.False(t, createCalled, "no compensating ledger rows on cancel")
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	uc := NewReceiptUseCase(&mockReceiptRepo{}, logger.NewNop())

	_, err := uc.UpdateStatus(context.Background(), "r1", model.ReceiptStatus("shipped"))
	require.Error(t, err)
	assert.Equal(t, httperrors.CodeValidation, httperrors.From(err).Code)
}
