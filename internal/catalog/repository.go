package catalog

import (
	"context"

	"github.com/fekuna/omnipos-order-service/internal/model"
)

// ItemQuantity is one product line to debit or credit.
type ItemQuantity struct {
	ProductID string
	Quantity  int
}

// Repository is the order engine's view of the externally owned product
// catalog: price and availability reads, plus the legacy stock counter the
// order lifecycle mutates. Catalog CRUD belongs to the product service.
type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
	BatchGet(ctx context.Context, ids []string) (map[string]model.Product, error)

	// DebitStock decrements the stock counter for every item in one
	// transaction. Any item with insufficient or unavailable stock aborts
	// the whole debit.
	DebitStock(ctx context.Context, items []ItemQuantity) error

	// CreditStock returns previously debited quantities.
	CreditStock(ctx context.Context, items []ItemQuantity) error

	// Upsert refreshes the local projection from a catalog event. Stock is
	// only taken from the event on first insert; after that this service
	// owns the counter.
	Upsert(ctx context.Context, product *model.Product) error
}
