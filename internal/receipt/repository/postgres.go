package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/receipt/dto"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// CreateWithItems is the whole inbound workflow in one transaction: header,
// items, the per-item inventory upsert, and the ledger row per item. A
// failure at any point leaves no trace of the receipt.
func (r *PGRepository) CreateWithItems(ctx context.Context, receipt *model.GoodsReceipt, txns []model.InventoryTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := `
        INSERT INTO goods_receipts (
            id, code, warehouse_id, supplier_id, status, invoice_number,
            invoice_date, note, created_by, created_at, updated_at
        )
        VALUES (
            :id, :code, :warehouse_id, :supplier_id, :status, :invoice_number,
            :invoice_date, :note, :created_by, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, receipt); err != nil {
		return err
	}

	itemQuery := `
        INSERT INTO goods_receipt_items (
            id, receipt_id, product_id, warehouse_id, quantity, price, created_at
        )
        VALUES (
            :id, :receipt_id, :product_id, :warehouse_id, :quantity, :price, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, itemQuery, receipt.Items); err != nil {
		return err
	}

	upsertQuery := `
        INSERT INTO inventory (
            id, warehouse_id, product_id, quantity, reserved_quantity,
            min_stock_level, max_stock_level, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, 0, 0, 0, NOW(), NOW())
        ON CONFLICT (warehouse_id, product_id) DO UPDATE
        SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = NOW()
        RETURNING id, quantity
    `
	txnQuery := `
        INSERT INTO inventory_transactions (
            id, inventory_id, warehouse_id, product_id, type, quantity,
            before_quantity, reference_type, reference_id, note,
            is_approved, approved_by, approval_date, created_by, created_at
        )
        VALUES (
            :id, :inventory_id, :warehouse_id, :product_id, :type, :quantity,
            :before_quantity, :reference_type, :reference_id, :note,
            :is_approved, :approved_by, :approval_date, :created_by, :created_at
        )
    `
	for i := range txns {
		txn := &txns[i]
		var inventoryID string
		var after float64
		// The id only applies when the upsert inserts a fresh inventory row;
		// it must not collide with the ledger row's id.
		err := tx.QueryRowxContext(ctx, upsertQuery,
			uuid.New().String(), txn.WarehouseID, txn.ProductID, txn.Quantity).Scan(&inventoryID, &after)
		if err != nil {
			return err
		}
		txn.InventoryID = inventoryID
		txn.BeforeQuantity = after - txn.Quantity

		if _, err := tx.NamedExecContext(ctx, txnQuery, txn); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.GoodsReceipt, error) {
	return r.findOne(ctx, `SELECT * FROM goods_receipts WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByCode(ctx context.Context, code string) (*model.GoodsReceipt, error) {
	return r.findOne(ctx, `SELECT * FROM goods_receipts WHERE code = $1 LIMIT 1`, code)
}

func (r *PGRepository) findOne(ctx context.Context, query, arg string) (*model.GoodsReceipt, error) {
	var receipt model.GoodsReceipt
	err := r.DB.GetContext(ctx, &receipt, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &receipt.Items,
		`SELECT * FROM goods_receipt_items WHERE receipt_id = $1 ORDER BY created_at`, receipt.ID)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ReceiptFilters) ([]model.GoodsReceipt, int, error) {
	var items []model.GoodsReceipt
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.SupplierID != "" {
		conditions = append(conditions, "supplier_id = :supplier_id")
		args["supplier_id"] = f.SupplierID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM goods_receipts" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM goods_receipts" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.ReceiptStatus) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE goods_receipts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}
