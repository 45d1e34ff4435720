package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/order"
	"github.com/fekuna/omnipos-order-service/internal/order/dto"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	uc     order.UseCase
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: log}
}

func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/search", h.Search)
	orders.GET("/:id", h.Get)
	orders.PUT("/:id", h.Update)
	orders.DELETE("/:id", h.Delete)
	orders.PATCH("/:id/confirmed", h.Confirm)
	orders.PATCH("/:id/exported", h.Export)
	orders.PATCH("/:id/delivered", h.Deliver)
	orders.PATCH("/:id/completed", h.Complete)
	orders.PATCH("/:id/status/:status", h.UpdateStatus)
	orders.PATCH("/cancel/:id/:status", h.Cancel)
}

type createOrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price"`
}

type createOrderRequest struct {
	Type           string                   `json:"type" binding:"required,oneof=website in_store delivery"`
	ExportMode     string                   `json:"export_mode" binding:"required,oneof=quick normal recept"`
	CustomerName   string                   `json:"customer_name" binding:"required"`
	CustomerPhone  string                   `json:"customer_phone"`
	CustomerEmail  string                   `json:"customer_email"`
	PaymentMethod  string                   `json:"payment_method"`
	DeliveryMethod string                   `json:"delivery_method"`
	DeliveryPrice  float64                  `json:"delivery_price"`
	Discount       float64                  `json:"discount"`
	Items          []createOrderItemRequest `json:"items" binding:"required,dive"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}

	input := &dto.CreateOrderInput{
		Type:           model.OrderType(req.Type),
		ExportMode:     model.ExportMode(req.ExportMode),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
		DeliveryPrice:  req.DeliveryPrice,
		Discount:       req.Discount,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, dto.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	o, err := h.uc.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) List(c *gin.Context) {
	filters := &dto.OrderFilters{
		Status:        c.Query("status"),
		Type:          c.Query("type"),
		PaymentStatus: c.Query("payment_status"),
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "page_size", 20),
	}
	if v := c.Query("start_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.StartDate = &t
		}
	}
	if v := c.Query("end_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filters.EndDate = &t
		}
	}

	orders, total, err := h.uc.List(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": total})
}

func (h *OrderHandler) Search(c *gin.Context) {
	orders, total, err := h.uc.Search(c.Request.Context(), c.Query("q"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": total})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateOrderRequest struct {
	CustomerName   string  `json:"customer_name" binding:"required"`
	CustomerPhone  string  `json:"customer_phone"`
	CustomerEmail  string  `json:"customer_email"`
	PaymentMethod  string  `json:"payment_method"`
	DeliveryMethod string  `json:"delivery_method"`
	DeliveryPrice  float64 `json:"delivery_price"`
	Discount       float64 `json:"discount"`
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}

	o, err := h.uc.Update(c.Request.Context(), &dto.UpdateOrderInput{
		ID:             c.Param("id"),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
		DeliveryPrice:  req.DeliveryPrice,
		Discount:       req.Discount,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.uc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.uc.Confirm)
}

func (h *OrderHandler) Export(c *gin.Context) {
	h.transition(c, h.uc.Export)
}

func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.uc.Deliver)
}

func (h *OrderHandler) Complete(c *gin.Context) {
	h.transition(c, h.uc.Complete)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	o, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"),
		model.OrderStatus(c.Param("status")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.uc.Cancel(c.Request.Context(), c.Param("id"),
		model.OrderStatus(c.Param("status")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, id string) (*model.Order, error)) {
	o, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) respondError(c *gin.Context, err error) {
	restErr := httperrors.From(err)
	if restErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("order request failed",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(restErr.HTTPStatus(), restErr)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}
