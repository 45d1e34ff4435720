package model

import "time"

// Inventory is the stock record for one (warehouse, product) pair. The pair
// is unique; quantity is on-hand stock and reserved_quantity the part of it
// held against pending demand.
type Inventory struct {
	ID               string    `db:"id" json:"id"`
	WarehouseID      string    `db:"warehouse_id" json:"warehouse_id"`
	ProductID        string    `db:"product_id" json:"product_id"`
	Quantity         float64   `db:"quantity" json:"quantity"`
	ReservedQuantity float64   `db:"reserved_quantity" json:"reserved_quantity"`
	MinStockLevel    float64   `db:"min_stock_level" json:"min_stock_level"`
	MaxStockLevel    float64   `db:"max_stock_level" json:"max_stock_level"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

func (i *Inventory) Available() float64 {
	return i.Quantity - i.ReservedQuantity
}

type TransactionType string

const (
	TransactionTypeInbound  TransactionType = "inbound"
	TransactionTypeOutbound TransactionType = "outbound"
)

// InventoryTransaction is one append-only ledger row: a stock-quantity
// change, its before snapshot, and the document that caused it. Only the
// approval fields are ever updated after insert.
type InventoryTransaction struct {
	ID             string          `db:"id" json:"id"`
	InventoryID    string          `db:"inventory_id" json:"inventory_id"`
	WarehouseID    string          `db:"warehouse_id" json:"warehouse_id"`
	ProductID      string          `db:"product_id" json:"product_id"`
	Type           TransactionType `db:"type" json:"type"`
	Quantity       float64         `db:"quantity" json:"quantity"`
	BeforeQuantity float64         `db:"before_quantity" json:"before_quantity"`
	ReferenceType  *string         `db:"reference_type" json:"reference_type"`
	ReferenceID    *string         `db:"reference_id" json:"reference_id"`
	Note           string          `db:"note" json:"note"`
	IsApproved     bool            `db:"is_approved" json:"is_approved"`
	ApprovedBy     *string         `db:"approved_by" json:"approved_by"`
	ApprovalDate   *time.Time      `db:"approval_date" json:"approval_date"`
	CreatedBy      *string         `db:"created_by" json:"created_by"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

const (
	ReferenceTypeGoodsReceipt = "goods_receipt"
	ReferenceTypeManual       = "manual"
)
