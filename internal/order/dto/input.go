package dto

import "github.com/fekuna/omnipos-order-service/internal/model"

type CreateOrderItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice float64
}

type CreateOrderInput struct {
	Type           model.OrderType
	ExportMode     model.ExportMode
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	PaymentMethod  string
	DeliveryMethod string
	DeliveryPrice  float64
	Discount       float64
	Items          []CreateOrderItemInput
}

type UpdateOrderInput struct {
	ID             string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	PaymentMethod  string
	DeliveryMethod string
	DeliveryPrice  float64
	Discount       float64
}
