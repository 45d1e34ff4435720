package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/auth"
	"github.com/fekuna/omnipos-order-service/internal/catalog"
	"github.com/fekuna/omnipos-order-service/internal/events"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/pkg/cache"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/fekuna/omnipos-order-service/pkg/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// taxRate is applied to the sub-total regardless of any client-supplied tax
// value; the legacy billing rule this service inherited.
var taxRate = decimal.NewFromFloat(0.08)

const ordersIndex = "orders"

// errLockContention is returned when another request holds the order's lock
// past the retry window. Conflict, not a server fault.
var errLockContention = httperrors.New(httperrors.CodeConflict,
	"order is being processed, please try again", nil)

type orderUseCase struct {
	repo      order.Repository
	catalog   catalog.Repository
	publisher events.Publisher
	cache     *cache.RedisClient
	es        *search.Client
	logger    logger.ZapLogger
}

func NewOrderUseCase(
	repo order.Repository,
	cat catalog.Repository,
	publisher events.Publisher,
	cache *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		catalog:   cat,
		publisher: publisher,
		cache:     cache,
		es:        es,
		logger:    log,
	}
}

func (uc *orderUseCase) Create(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, httperrors.NewValidation("items", "order must contain at least one item")
	}

	productIDs := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, httperrors.NewValidation("items.quantity", "item quantity must be positive")
		}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := uc.catalog.BatchGet(ctx, productIDs)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	status, paymentStatus, debitNow := order.InitialState(input.Type, input.ExportMode)
	now := time.Now()
	actor := auth.Actor(ctx)

	o := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Type:           input.Type,
		ExportMode:     input.ExportMode,
		TrackingNumber: newTrackingNumber(now),
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		Status:         status,
		PaymentMethod:  input.PaymentMethod,
		PaymentStatus:  paymentStatus,
		DeliveryPrice:  decimal.NewFromFloat(input.DeliveryPrice),
		Discount:       decimal.NewFromFloat(input.Discount),
		CreatedBy:      actor,
	}
	if input.CustomerEmail != "" {
		email := input.CustomerEmail
		o.CustomerEmail = &email
	}
	if input.DeliveryMethod != "" {
		method := input.DeliveryMethod
		o.DeliveryMethod = &method
	}
	if status == model.OrderStatusCompleted {
		// Closed at the counter; the creator is also the cashier.
		o.Cashier = actor
	}

	debits := make([]catalog.ItemQuantity, 0, len(input.Items))
	for _, in := range input.Items {
		product, ok := products[in.ProductID]
		if !ok {
			return nil, httperrors.NewNotFound("product", in.ProductID)
		}
		if !product.IsAvailable {
			return nil, httperrors.NewBadRequest(
				fmt.Sprintf("product %s is not available for ordering", in.ProductID))
		}

		unitPrice := product.Price
		if in.UnitPrice > 0 {
			unitPrice = decimal.NewFromFloat(in.UnitPrice)
		}
		o.Items = append(o.Items, model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: unitPrice,
			Status:    status,
		})
		debits = append(debits, catalog.ItemQuantity{ProductID: in.ProductID, Quantity: in.Quantity})
	}

	uc.computeTotals(o)

	if debitNow {
		if err := uc.catalog.DebitStock(ctx, debits); err != nil {
			return nil, uc.debitError(err)
		}
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		if debitNow {
			// Persisting failed after the debit; give the stock back.
			if crErr := uc.catalog.CreditStock(context.Background(), debits); crErr != nil {
				uc.logger.Error("failed to restore stock after create failure",
					zap.String("order_id", o.ID), zap.Error(crErr))
			}
		}
		return nil, httperrors.ParseDBError(err)
	}

	uc.publish(events.OrderCreated, o)
	go uc.syncToSearch(context.Background(), o)

	return o, nil
}

func (uc *orderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if o == nil {
		return nil, httperrors.NewNotFound("order", id)
	}
	return o, nil
}

func (uc *orderUseCase) List(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *orderUseCase) Search(ctx context.Context, query string, page, pageSize int) ([]model.Order, int, error) {
	if query == "" || uc.es == nil {
		return uc.repo.FindAll(ctx, &dto.OrderFilters{Page: page, PageSize: pageSize})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"tracking_number^3", "customer_name", "customer_phone", "customer_email"},
			},
		},
	}
	if pageSize > 0 {
		q["size"] = pageSize
		if page > 1 {
			q["from"] = (page - 1) * pageSize
		}
	}

	res, err := uc.es.Search(ctx, ordersIndex, q)
	if err != nil {
		// The index is an accelerator, not the source of truth.
		uc.logger.Error("order search failed, falling back to DB", zap.Error(err))
		return uc.repo.FindAll(ctx, &dto.OrderFilters{Page: page, PageSize: pageSize})
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	orders := make([]model.Order, 0, len(ids))
	for _, id := range ids {
		o, err := uc.repo.FindByID(ctx, id)
		if err != nil || o == nil {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, res.Hits.Total.Value, nil
}

func (uc *orderUseCase) Update(ctx context.Context, input *dto.UpdateOrderInput) (*model.Order, error) {
	o, err := uc.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if o.Status.Terminal() {
		return nil, httperrors.NewBadRequest(
			fmt.Sprintf("order in status %s can no longer be updated", o.Status))
	}

	o.CustomerName = input.CustomerName
	o.CustomerPhone = input.CustomerPhone
	o.CustomerEmail = nil
	if input.CustomerEmail != "" {
		email := input.CustomerEmail
		o.CustomerEmail = &email
	}
	if input.PaymentMethod != "" {
		o.PaymentMethod = input.PaymentMethod
	}
	o.DeliveryMethod = nil
	if input.DeliveryMethod != "" {
		method := input.DeliveryMethod
		o.DeliveryMethod = &method
	}
	o.DeliveryPrice = decimal.NewFromFloat(input.DeliveryPrice)
	o.Discount = decimal.NewFromFloat(input.Discount)
	uc.computeTotals(o)
	o.UpdatedAt = time.Now()

	if err := uc.repo.UpdateHeader(ctx, o); err != nil {
		return nil, httperrors.ParseDBError(err)
	}

	uc.publish(events.OrderUpdated, o)
	go uc.syncToSearch(context.Background(), o)

	return o, nil
}

func (uc *orderUseCase) Confirm(ctx context.Context, id string) (*model.Order, error) {
	unlock, err := uc.lockOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := order.Next(o.Status, order.ActionConfirm)
	if err != nil {
		return nil, err
	}

	debits := make([]catalog.ItemQuantity, 0, len(o.Items))
	for _, item := range o.Items {
		debits = append(debits, catalog.ItemQuantity{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	// One transaction of conditional decrements: either every item's stock
	// is taken or none is.
	if err := uc.catalog.DebitStock(ctx, debits); err != nil {
		return nil, uc.debitError(err)
	}

	o.Status = next
	o.Checker = auth.Actor(ctx)
	return uc.persistStatus(ctx, o, events.OrderStatusUpdated)
}

func (uc *orderUseCase) Export(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := order.Next(o.Status, order.ActionExport)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exporter := auth.Actor(ctx)
	if err := uc.repo.StampItemsExported(ctx, o.ID, exporter, now); err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	for i := range o.Items {
		o.Items[i].ExportedBy = exporter
		o.Items[i].ExportedAt = &now
	}

	o.Status = next
	o.Exporter = exporter
	return uc.persistStatus(ctx, o, events.OrderStatusUpdated)
}

func (uc *orderUseCase) Deliver(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := order.Next(o.Status, order.ActionDeliver)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	o.Status = next
	o.PaymentStatus = model.PaymentStatusPaid
	o.DeliveredBy = auth.Actor(ctx)
	o.DeliveredAt = &now
	return uc.persistStatus(ctx, o, events.OrderStatusUpdated)
}

func (uc *orderUseCase) Complete(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := order.Next(o.Status, order.ActionComplete)
	if err != nil {
		return nil, err
	}

	o.Status = next
	return uc.persistStatus(ctx, o, events.OrderStatusUpdated)
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, id string, target model.OrderStatus) (*model.Order, error) {
	action, ok := order.ActionForStatus(target)
	if !ok {
		return nil, httperrors.NewBadRequest(
			fmt.Sprintf("status %s cannot be set directly", target))
	}

	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := order.Next(o.Status, action)
	if err != nil {
		return nil, err
	}

	o.Status = next
	return uc.persistStatus(ctx, o, events.OrderStatusUpdated)
}

func (uc *orderUseCase) Cancel(ctx context.Context, id string, target model.OrderStatus) (*model.Order, error) {
	if !order.CancelTarget(target) {
		return nil, httperrors.NewBadRequest(
			fmt.Sprintf("%s is not a valid cancellation status", target))
	}

	unlock, err := uc.lockOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	o, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := order.Next(o.Status, order.ActionCancel); err != nil {
		return nil, err
	}

	// Stock was debited at confirmation; only then is there anything to
	// give back. Orders cancelled before that never touched stock.
	if o.Status == model.OrderStatusConfirmed {
		if err := uc.creditItems(ctx, o); err != nil {
			return nil, err
		}
	}

	o.Status = target
	return uc.persistStatus(ctx, o, events.OrderCancelled)
}

func (uc *orderUseCase) Remove(ctx context.Context, id string) error {
	o, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if !order.Deletable(o.Status) {
		return httperrors.NewBadRequest(
			fmt.Sprintf("order in status %s cannot be deleted", o.Status))
	}

	if o.Status == model.OrderStatusPending {
		if err := uc.creditItems(ctx, o); err != nil {
			return err
		}
	}

	if err := uc.repo.SoftDelete(ctx, id); err != nil {
		return httperrors.ParseDBError(err)
	}

	uc.publish(events.OrderDeleted, o)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), ordersIndex, id); err != nil {
				uc.logger.Error("failed to remove order from index",
					zap.String("order_id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

// persistStatus writes the header and syncs item statuses, then emits the
// event. Item statuses follow the order's except during export, where the
// stamps were already written.
func (uc *orderUseCase) persistStatus(ctx context.Context, o *model.Order, eventType string) (*model.Order, error) {
	o.UpdatedAt = time.Now()
	if err := uc.repo.UpdateHeader(ctx, o); err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	if err := uc.repo.UpdateItemsStatus(ctx, o.ID, o.Status); err != nil {
		return nil, httperrors.ParseDBError(err)
	}
	for i := range o.Items {
		o.Items[i].Status = o.Status
	}

	uc.publish(eventType, o)
	go uc.syncToSearch(context.Background(), o)
	return o, nil
}

func (uc *orderUseCase) creditItems(ctx context.Context, o *model.Order) error {
	credits := make([]catalog.ItemQuantity, 0, len(o.Items))
	for _, item := range o.Items {
		credits = append(credits, catalog.ItemQuantity{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := uc.catalog.CreditStock(ctx, credits); err != nil {
		return httperrors.ParseDBError(err)
	}
	return nil
}

func (uc *orderUseCase) computeTotals(o *model.Order) {
	subTotal := decimal.Zero
	for _, item := range o.Items {
		subTotal = subTotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	o.SubTotal = subTotal
	o.Taxes = subTotal.Mul(taxRate)
	o.TotalAmount = subTotal.Add(o.DeliveryPrice).Add(o.Taxes).Sub(o.Discount)
}

// publish delivers the event to the sink; failures are logged, never
// surfaced, because the write the event describes is already durable.
func (uc *orderUseCase) publish(eventType string, o *model.Order) {
	if uc.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uc.publisher.Publish(ctx, events.NewOrderEvent(eventType, o)); err != nil {
		uc.logger.Error("failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

func (uc *orderUseCase) syncToSearch(ctx context.Context, o *model.Order) {
	if uc.es == nil {
		return
	}
	mapping := `{
		"mappings": {
			"properties": {
				"tracking_number": { "type": "keyword" },
				"customer_name": { "type": "text" },
				"customer_phone": { "type": "keyword" },
				"customer_email": { "type": "keyword" },
				"status": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, ordersIndex, mapping)

	if err := uc.es.Index(ctx, ordersIndex, o.ID, o); err != nil {
		uc.logger.Error("failed to index order", zap.String("order_id", o.ID), zap.Error(err))
	}
}

// lockOrder serializes stock-mutating operations on one order across
// instances. Without it a double-submitted confirm could debit twice.
func (uc *orderUseCase) lockOrder(ctx context.Context, orderID string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	lockKey := "lock:order:" + orderID
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire order lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, errLockContention
	}

	return func() {
		if err := uc.cache.ReleaseLock(context.Background(), lockKey, lockValue); err != nil {
			uc.logger.Error("failed to release order lock", zap.Error(err))
		}
	}, nil
}

func (uc *orderUseCase) debitError(err error) error {
	var restErr *httperrors.RestError
	if errors.As(err, &restErr) {
		return restErr
	}
	return httperrors.ParseDBError(err)
}

func newTrackingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
