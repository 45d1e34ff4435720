package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptStatus string

const (
	ReceiptStatusDraft     ReceiptStatus = "draft"
	ReceiptStatusCompleted ReceiptStatus = "completed"
	ReceiptStatusCancelled ReceiptStatus = "cancelled"
)

// GoodsReceipt is one inbound-stock event. Header and items are written in
// the same transaction as the inventory increments and ledger rows they
// cause; items are immutable after commit.
type GoodsReceipt struct {
	ID            string             `db:"id" json:"id"`
	Code          string             `db:"code" json:"code"`
	WarehouseID   string             `db:"warehouse_id" json:"warehouse_id"`
	SupplierID    *string            `db:"supplier_id" json:"supplier_id"`
	Status        ReceiptStatus      `db:"status" json:"status"`
	InvoiceNumber *string            `db:"invoice_number" json:"invoice_number"`
	InvoiceDate   *time.Time         `db:"invoice_date" json:"invoice_date"`
	Note          string             `db:"note" json:"note"`
	CreatedBy     *string            `db:"created_by" json:"created_by"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
	Items         []GoodsReceiptItem `db:"-" json:"items"`
}

type GoodsReceiptItem struct {
	ID          string           `db:"id" json:"id"`
	ReceiptID   string           `db:"receipt_id" json:"receipt_id"`
	ProductID   string           `db:"product_id" json:"product_id"`
	WarehouseID string           `db:"warehouse_id" json:"warehouse_id"`
	Quantity    float64          `db:"quantity" json:"quantity"`
	Price       *decimal.Decimal `db:"price" json:"price"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
