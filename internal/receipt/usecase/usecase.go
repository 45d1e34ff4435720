package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/auth"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/receipt"
	"github.com/fekuna/omnipos-order-service/internal/receipt/dto"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type receiptUseCase struct {
	repo   receipt.Repository
	logger logger.ZapLogger
}

func NewReceiptUseCase(repo receipt.Repository, logger logger.ZapLogger) receipt.UseCase {
	return &receiptUseCase{repo: repo, logger: logger}
}

func (u *receiptUseCase) Create(ctx context.Context, input *dto.CreateReceiptInput) (*model.GoodsReceipt, error) {
	if input.WarehouseID == "" {
		return nil, httperrors.NewValidation("warehouse_id", "warehouse_id is required")
	}
	if len(input.Items) == 0 {
		return nil, httperrors.NewValidation("items", "receipt must contain at least one item")
	}
	for i, item := range input.Items {
		if item.ProductID == "" {
			return nil, httperrors.NewValidation(fmt.Sprintf("items[%d].product_id", i), "product_id is required")
		}
		if item.Quantity <= 0 {
			return nil, httperrors.NewValidation(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than zero")
		}
	}

	status := model.ReceiptStatusCompleted
	switch model.ReceiptStatus(input.Status) {
	case "", model.ReceiptStatusCompleted:
	case model.ReceiptStatusDraft:
		status = model.ReceiptStatusDraft
	default:
		return nil, httperrors.NewValidation("status",
			fmt.Sprintf("%s is not a valid status for a new receipt", input.Status))
	}

	now := time.Now()
	actor := auth.Actor(ctx)

	r := &model.GoodsReceipt{
		ID:          uuid.New().String(),
		Code:        newReceiptCode(now),
		WarehouseID: input.WarehouseID,
		Status:      status,
		Note:        input.Note,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.SupplierID != "" {
		r.SupplierID = &input.SupplierID
	}
	if input.InvoiceNumber != "" {
		r.InvoiceNumber = &input.InvoiceNumber
	}
	r.InvoiceDate = input.InvoiceDate

	refType := model.ReferenceTypeGoodsReceipt
	txns := make([]model.InventoryTransaction, 0, len(input.Items))
	for _, item := range input.Items {
		ri := model.GoodsReceiptItem{
			ID:          uuid.New().String(),
			ReceiptID:   r.ID,
			ProductID:   item.ProductID,
			WarehouseID: input.WarehouseID,
			Quantity:    item.Quantity,
			CreatedAt:   now,
		}
		if item.Price > 0 {
			p := decimal.NewFromFloat(item.Price)
			ri.Price = &p
		}
		r.Items = append(r.Items, ri)

		txns = append(txns, model.InventoryTransaction{
			ID:            uuid.New().String(),
			WarehouseID:   input.WarehouseID,
			ProductID:     item.ProductID,
			Type:          model.TransactionTypeInbound,
			Quantity:      item.Quantity,
			ReferenceType: &refType,
			ReferenceID:   &r.ID,
			Note:          fmt.Sprintf("goods receipt %s", r.Code),
			CreatedBy:     actor,
			CreatedAt:     now,
		})
	}

	if err := u.repo.CreateWithItems(ctx, r, txns); err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	u.logger.Info("goods receipt created",
		zap.String("id", r.ID),
		zap.String("code", r.Code),
		zap.String("warehouse_id", r.WarehouseID),
		zap.Int("item_count", len(r.Items)))
	return r, nil
}

func (u *receiptUseCase) Get(ctx context.Context, id string) (*model.GoodsReceipt, error) {
	r, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if r == nil {
		return nil, httperrors.NewNotFound("goods receipt", id)
	}
	return r, nil
}

func (u *receiptUseCase) GetByCode(ctx context.Context, code string) (*model.GoodsReceipt, error) {
	r, err := u.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if r == nil {
		return nil, httperrors.NewNotFound("goods receipt", code)
	}
	return r, nil
}

func (u *receiptUseCase) List(ctx context.Context, filters *dto.ReceiptFilters) ([]model.GoodsReceipt, int, error) {
	return u.repo.FindAll(ctx, filters)
}

// UpdateStatus is a direct field update with no stock effect. Cancelling in
// particular does not reverse the receipt's increments; corrections go
// through a manual outbound adjustment so the ledger keeps both sides of
// the story.
func (u *receiptUseCase) UpdateStatus(ctx context.Context, id string, status model.ReceiptStatus) (*model.GoodsReceipt, error) {
	switch status {
	case model.ReceiptStatusDraft, model.ReceiptStatusCompleted, model.ReceiptStatusCancelled:
	default:
		return nil, httperrors.NewValidation("status",
			fmt.Sprintf("%s is not a valid receipt status", status))
	}

	r, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	r.Status = status

	u.logger.Info("goods receipt status updated",
		zap.String("id", id), zap.String("code", r.Code), zap.String("status", string(status)))
	return r, nil
}

func newReceiptCode(at time.Time) string {
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("GR-%s-%s", at.Format("20060102"), suffix)
}
