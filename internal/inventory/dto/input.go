package dto

type CreateInventoryInput struct {
	WarehouseID   string
	ProductID     string
	Quantity      float64
	MinStockLevel float64
	MaxStockLevel float64
}

type StockChangeInput struct {
	Quantity    float64
	Note        string
	ReferenceID string
}
