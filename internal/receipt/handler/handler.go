package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/internal/receipt"
	"github.com/fekuna/omnipos-order-service/internal/receipt/dto"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	uc     receipt.UseCase
	logger logger.ZapLogger
}

func NewReceiptHandler(uc receipt.UseCase, log logger.ZapLogger) *ReceiptHandler {
	return &ReceiptHandler{uc: uc, logger: log}
}

func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/goods-receipts")
	receipts.POST("", h.Create)
	receipts.GET("", h.List)
	receipts.GET("/code/:code", h.GetByCode)
	receipts.GET("/:id", h.Get)
	receipts.GET("/:id/items", h.GetItems)
	receipts.PATCH("/:id/status", h.UpdateStatus)
}

type createReceiptItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price"`
}

type createReceiptRequest struct {
	WarehouseID   string                     `json:"warehouse_id" binding:"required"`
	SupplierID    string                     `json:"supplier_id"`
	Status        string                     `json:"status" binding:"omitempty,oneof=draft completed"`
	InvoiceNumber string                     `json:"invoice_number"`
	InvoiceDate   *time.Time                 `json:"invoice_date"`
	Note          string                     `json:"note"`
	Items         []createReceiptItemRequest `json:"items" binding:"required,dive"`
}

func (h *ReceiptHandler) Create(c *gin.Context) {
	var req createReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}

	input := &dto.CreateReceiptInput{
		WarehouseID:   req.WarehouseID,
		SupplierID:    req.SupplierID,
		Status:        req.Status,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		Note:          req.Note,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, dto.CreateReceiptItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	r, err := h.uc.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *ReceiptHandler) List(c *gin.Context) {
	filters := &dto.ReceiptFilters{
		WarehouseID: c.Query("warehouse_id"),
		SupplierID:  c.Query("supplier_id"),
		Status:      c.Query("status"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "page_size", 20),
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

	items, total, err := h.uc.List(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *ReceiptHandler) Get(c *gin.Context) {
	r, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReceiptHandler) GetByCode(c *gin.Context) {
	r, err := h.uc.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReceiptHandler) GetItems(c *gin.Context) {
	r, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": r.Items})
}

type updateReceiptStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft completed cancelled"`
}

func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
	var req updateReceiptStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}

	r, err := h.uc.UpdateStatus(c.Request.Context(), c.Param("id"), model.ReceiptStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *ReceiptHandler) respondError(c *gin.Context, err error) {
	restErr := httperrors.From(err)
	if restErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("goods receipt request failed",
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
