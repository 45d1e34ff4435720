package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeWebsite  OrderType = "website"
	OrderTypeInStore  OrderType = "in_store"
	OrderTypeDelivery OrderType = "delivery"
)

type ExportMode string

const (
	ExportModeQuick  ExportMode = "quick"
	ExportModeNormal ExportMode = "normal"
	ExportModeRecept ExportMode = "recept"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusExported   OrderStatus = "exported"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusOverdue    OrderStatus = "overdue"
)

type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

type Order struct {
	BaseModel
	Type           OrderType       `db:"type" json:"type"`
	ExportMode     ExportMode      `db:"export_mode" json:"export_mode"`
	TrackingNumber string          `db:"tracking_number" json:"tracking_number"`
	CustomerName   string          `db:"customer_name" json:"customer_name"`
	CustomerPhone  string          `db:"customer_phone" json:"customer_phone"`
	CustomerEmail  *string         `db:"customer_email" json:"customer_email"`
	Status         OrderStatus     `db:"status" json:"status"`
	PaymentMethod  string          `db:"payment_method" json:"payment_method"`
	PaymentStatus  PaymentStatus   `db:"payment_status" json:"payment_status"`
	DeliveryMethod *string         `db:"delivery_method" json:"delivery_method"`
	DeliveryPrice  decimal.Decimal `db:"delivery_price" json:"delivery_price"`
	SubTotal       decimal.Decimal `db:"sub_total" json:"sub_total"`
	Taxes          decimal.Decimal `db:"taxes" json:"taxes"`
	Discount       decimal.Decimal `db:"discount" json:"discount"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedBy      *string         `db:"created_by" json:"created_by"`
	Checker        *string         `db:"checker" json:"checker"`
	Cashier        *string         `db:"cashier" json:"cashier"`
	Exporter       *string         `db:"exporter" json:"exporter"`
	DeliveredBy    *string         `db:"delivered_by" json:"delivered_by"`
	DeliveredAt    *time.Time      `db:"delivered_at" json:"delivered_at"`
	Items          []OrderItem     `db:"-" json:"items"`
}

type OrderItem struct {
	ID         string          `db:"id" json:"id"`
	OrderID    string          `db:"order_id" json:"order_id"`
	ProductID  string          `db:"product_id" json:"product_id"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	Status     OrderStatus     `db:"status" json:"status"`
	ExportedBy *string         `db:"exported_by" json:"exported_by"`
	ExportedAt *time.Time      `db:"exported_at" json:"exported_at"`
}

// Terminal reports whether no further transition can leave the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
