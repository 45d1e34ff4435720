package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-order-service/internal/catalog"
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

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) BatchGet(ctx context.Context, ids []string) (map[string]model.Product, error) {
	result := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *PGRepository) DebitStock(ctx context.Context, items []catalog.ItemQuantity) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Conditional decrement: the WHERE clause is the stock guard, so two
	// concurrent debits can never both pass validation and oversell.
	query := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND is_available AND stock >= $1
	`

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		res, err := tx.ExecContext(ctx, query, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return httperrors.NewInsufficientStock(
				fmt.Sprintf("insufficient or unavailable stock for product %s", item.ProductID))
		}
	}

	return tx.Commit()
}

func (r *PGRepository) Upsert(ctx context.Context, product *model.Product) error {
	query := `
        INSERT INTO products (id, name, sku, price, stock, is_available, created_at, updated_at)
        VALUES (:id, :name, :sku, :price, :stock, :is_available, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name,
            sku = EXCLUDED.sku,
            price = EXCLUDED.price,
            is_available = EXCLUDED.is_available,
            updated_at = NOW()
    `
	_, err := r.DB.NamedExecContext(ctx, query, product)
	return err
}

func (r *PGRepository) CreditStock(ctx context.Context, items []catalog.ItemQuantity) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, query, item.Quantity, item.ProductID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
