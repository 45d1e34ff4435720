package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, inv *model.Inventory) error {
	query := `
        INSERT INTO inventory (
            id, warehouse_id, product_id, quantity, reserved_quantity,
            min_stock_level, max_stock_level, created_at, updated_at
        )
        VALUES (
            :id, :warehouse_id, :product_id, :quantity, :reserved_quantity,
            :min_stock_level, :max_stock_level, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, inv)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv, `SELECT * FROM inventory WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) FindByWarehouseProduct(ctx context.Context, warehouseID, productID string) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.DB.GetContext(ctx, &inv,
		`SELECT * FROM inventory WHERE warehouse_id = $1 AND product_id = $2 LIMIT 1`,
		warehouseID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.InventoryFilters) ([]model.Inventory, int, error) {
	var items []model.Inventory
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.LowStock {
		conditions = append(conditions, "quantity < min_stock_level")
	}
	if f.HighStock {
		conditions = append(conditions, "quantity > max_stock_level")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory" + whereClause + " ORDER BY updated_at DESC"
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

func (r *PGRepository) AddStock(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
	query := `
        UPDATE inventory
        SET quantity = quantity + $1, updated_at = NOW()
        WHERE id = $2
        RETURNING *
    `
	return r.mutateWithTransaction(ctx, query, id, quantity, txn)
}

func (r *PGRepository) RemoveStock(ctx context.Context, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
	// Available stock (on-hand minus reserved) is the guard; a reserved
	// unit cannot leave the warehouse.
	query := `
        UPDATE inventory
        SET quantity = quantity - $1, updated_at = NOW()
        WHERE id = $2 AND quantity - reserved_quantity >= $1
        RETURNING *
    `
	return r.mutateWithTransaction(ctx, query, id, quantity, txn)
}

// mutateWithTransaction applies the conditional stock UPDATE and appends the
// audit row in one database transaction, so the counter never changes
// without its ledger entry.
func (r *PGRepository) mutateWithTransaction(ctx context.Context, query, id string, quantity float64, txn *model.InventoryTransaction) (*model.Inventory, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var inv model.Inventory
	if err := tx.GetContext(ctx, &inv, query, quantity, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.explainNoRows(ctx, id, quantity)
		}
		return nil, err
	}

	txn.InventoryID = inv.ID
	txn.WarehouseID = inv.WarehouseID
	txn.ProductID = inv.ProductID
	if txn.Type == model.TransactionTypeInbound {
		txn.BeforeQuantity = inv.Quantity - quantity
	} else {
		txn.BeforeQuantity = inv.Quantity + quantity
	}

	if err := insertTransaction(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// explainNoRows turns a guard miss into the right business error: the
// record may not exist at all, or it exists and lacks available stock.
func (r *PGRepository) explainNoRows(ctx context.Context, id string, quantity float64) error {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return httperrors.NewNotFound("inventory", id)
	}
	return httperrors.NewInsufficientStock(fmt.Sprintf(
		"available stock %.2f is less than requested %.2f", existing.Available(), quantity))
}

func (r *PGRepository) Reserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
	query := `
        UPDATE inventory
        SET reserved_quantity = reserved_quantity + $1, updated_at = NOW()
        WHERE id = $2 AND quantity - reserved_quantity >= $1
        RETURNING *
    `
	var inv model.Inventory
	if err := r.DB.GetContext(ctx, &inv, query, quantity, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.explainNoRows(ctx, id, quantity)
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PGRepository) Unreserve(ctx context.Context, id string, quantity float64) (*model.Inventory, error) {
	query := `
        UPDATE inventory
        SET reserved_quantity = reserved_quantity - $1, updated_at = NOW()
        WHERE id = $2 AND reserved_quantity >= $1
        RETURNING *
    `
	var inv model.Inventory
	if err := r.DB.GetContext(ctx, &inv, query, quantity, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existing, ferr := r.FindByID(ctx, id)
			if ferr != nil {
				return nil, ferr
			}
			if existing == nil {
				return nil, httperrors.NewNotFound("inventory", id)
			}
			return nil, httperrors.NewBadRequest(fmt.Sprintf(
				"reserved quantity %.2f is less than requested %.2f", existing.ReservedQuantity, quantity))
		}
		return nil, err
	}
	return &inv, nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, txn *model.InventoryTransaction) error {
	query := `
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
	_, err := tx.NamedExecContext(ctx, query, txn)
	return err
}

func (r *PGRepository) FindTransactionByID(ctx context.Context, id string) (*model.InventoryTransaction, error) {
	var txn model.InventoryTransaction
	err := r.DB.GetContext(ctx, &txn,
		`SELECT * FROM inventory_transactions WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	var items []model.InventoryTransaction
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.InventoryID != "" {
		conditions = append(conditions, "inventory_id = :inventory_id")
		args["inventory_id"] = f.InventoryID
	}
	if f.WarehouseID != "" {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = f.WarehouseID
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}
	if f.Pending {
		conditions = append(conditions, "is_approved = false")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_transactions" + whereClause + " ORDER BY created_at DESC"
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

func (r *PGRepository) History(ctx context.Context, inventoryID string, limit int) ([]model.InventoryTransaction, error) {
	var items []model.InventoryTransaction
	query := `
        SELECT * FROM inventory_transactions
        WHERE inventory_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	err := r.DB.SelectContext(ctx, &items, query, inventoryID, limit)
	return items, err
}

func (r *PGRepository) Approve(ctx context.Context, id, approver string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
        UPDATE inventory_transactions
        SET is_approved = true, approved_by = $1, approval_date = $2
        WHERE id = $3
    `, approver, at, id)
	return err
}
