package dto

import "time"

type InventoryFilters struct {
	WarehouseID string
	ProductID   string
	LowStock    bool // quantity < min_stock_level
	HighStock   bool // quantity > max_stock_level
	Page        int
	PageSize    int
}

type TransactionFilters struct {
	InventoryID string
	WarehouseID string
	Type        string
	ReferenceID string
	StartDate   *time.Time
	EndDate     *time.Time
	Pending     bool // is_approved = false
	Page        int
	PageSize    int
}
