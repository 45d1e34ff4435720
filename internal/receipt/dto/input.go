package dto

import "time"

type CreateReceiptItemInput struct {
	ProductID string
	Quantity  float64
	Price     float64
}

type CreateReceiptInput struct {
	WarehouseID   string
	SupplierID    string
	Status        string // draft or completed; empty defaults to completed
	InvoiceNumber string
	InvoiceDate   *time.Time
	Note          string
	Items         []CreateReceiptItemInput
}

type ReceiptFilters struct {
	WarehouseID string
	SupplierID  string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}
