package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	headerQuery := `
        INSERT INTO orders (
            id, type, export_mode, tracking_number, customer_name,
            customer_phone, customer_email, status, payment_method,
            payment_status, delivery_method, delivery_price, sub_total,
            taxes, discount, total_amount, created_by, checker, cashier,
            exporter, delivered_by, delivered_at, created_at, updated_at
        )
        VALUES (
            :id, :type, :export_mode, :tracking_number, :customer_name,
            :customer_phone, :customer_email, :status, :payment_method,
            :payment_status, :delivery_method, :delivery_price, :sub_total,
            :taxes, :discount, :total_amount, :created_by, :checker, :cashier,
            :exporter, :delivered_by, :delivered_at, :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, o); err != nil {
		return err
	}

	if len(o.Items) > 0 {
		itemsQuery := `
            INSERT INTO order_items (
                id, order_id, product_id, quantity, unit_price, status,
                exported_by, exported_at
            )
            VALUES (
                :id, :order_id, :product_id, :quantity, :unit_price, :status,
                :exported_by, :exported_at
            )
        `
		if _, err := tx.NamedExecContext(ctx, itemsQuery, o.Items); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	query := `SELECT * FROM orders WHERE id = $1 AND deleted_at IS NULL LIMIT 1`
	err := r.DB.GetContext(ctx, &o, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	itemsQuery := `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`
	if err := r.DB.SelectContext(ctx, &o.Items, itemsQuery, id); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var orders []model.Order
	var count int

	conditions := []string{"deleted_at IS NULL"}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = f.Type
	}
	if f.PaymentStatus != "" {
		conditions = append(conditions, "payment_status = :payment_status")
		args["payment_status"] = f.PaymentStatus
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at <= :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM orders" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM orders" + whereClause + " ORDER BY created_at DESC"
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

	err = nstmt.SelectContext(ctx, &orders, args)
	return orders, count, err
}

func (r *PGRepository) UpdateHeader(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET customer_name = :customer_name,
            customer_phone = :customer_phone,
            customer_email = :customer_email,
            status = :status,
            payment_method = :payment_method,
            payment_status = :payment_status,
            delivery_method = :delivery_method,
            delivery_price = :delivery_price,
            sub_total = :sub_total,
            taxes = :taxes,
            discount = :discount,
            total_amount = :total_amount,
            checker = :checker,
            cashier = :cashier,
            exporter = :exporter,
            delivered_by = :delivered_by,
            delivered_at = :delivered_at,
            updated_at = :updated_at
        WHERE id = :id AND deleted_at IS NULL
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) UpdateItemsStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE order_items SET status = $1 WHERE order_id = $2`, status, orderID)
	return err
}

func (r *PGRepository) StampItemsExported(ctx context.Context, orderID string, exporter *string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE order_items SET exported_by = $1, exported_at = $2 WHERE order_id = $3`,
		exporter, at, orderID)
	return err
}

func (r *PGRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	return err
}
