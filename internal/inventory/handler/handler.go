package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-order-service/internal/inventory"
	"github.com/fekuna/omnipos-order-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-order-service/internal/model"
	"github.com/fekuna/omnipos-order-service/pkg/httperrors"
	"github.com/fekuna/omnipos-order-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{uc: uc, logger: log}
}

func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	inv.POST("", h.Create)
	inv.GET("", h.List)
	inv.GET("/low-stock", h.LowStock)
	inv.GET("/high-stock", h.HighStock)
	inv.GET("/:id", h.Get)
	inv.GET("/:id/history", h.History)
	inv.POST("/:id/add-stock", h.AddStock)
	inv.POST("/:id/remove-stock", h.RemoveStock)
	inv.POST("/:id/reserve", h.Reserve)
	inv.POST("/:id/unreserve", h.Unreserve)

	txns := rg.Group("/inventory-transactions")
	txns.GET("", h.ListTransactions)
	txns.GET("/pending", h.PendingApprovals)
	txns.PATCH("/:id/approve", h.Approve)
}

type createInventoryRequest struct {
	WarehouseID   string  `json:"warehouse_id" binding:"required"`
	ProductID     string  `json:"product_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"min=0"`
	MinStockLevel float64 `json:"min_stock_level" binding:"min=0"`
	MaxStockLevel float64 `json:"max_stock_level" binding:"min=0"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req createInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}

	inv, err := h.uc.Create(c.Request.Context(), &dto.CreateInventoryInput{
		WarehouseID:   req.WarehouseID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InventoryHandler) List(c *gin.Context) {
	filters := &dto.InventoryFilters{
		WarehouseID: c.Query("warehouse_id"),
		ProductID:   c.Query("product_id"),
		Page:        queryInt(c, "page", 1),
		PageSize:    queryInt(c, "page_size", 20),
	}

	items, total, err := h.uc.List(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	items, total, err := h.uc.LowStock(c.Request.Context(),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *InventoryHandler) HighStock(c *gin.Context) {
	items, total, err := h.uc.HighStock(c.Request.Context(),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *InventoryHandler) Get(c *gin.Context) {
	inv, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) History(c *gin.Context) {
	items, err := h.uc.History(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 10))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type stockChangeRequest struct {
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	Note        string  `json:"note"`
	ReferenceID string  `json:"reference_id"`
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	h.stockChange(c, h.uc.AddStock)
}

func (h *InventoryHandler) RemoveStock(c *gin.Context) {
	h.stockChange(c, h.uc.RemoveStock)
}

func (h *InventoryHandler) stockChange(c *gin.Context, op func(ctx context.Context, id string, input *dto.StockChangeInput) (*model.Inventory, error)) {
	var req stockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}

	inv, err := op(c.Request.Context(), c.Param("id"), &dto.StockChangeInput{
		Quantity:    req.Quantity,
		Note:        req.Note,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req stockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}
	inv, err := h.uc.Reserve(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) Unreserve(c *gin.Context) {
	var req stockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperrors.New(httperrors.CodeValidation, err.Error(), nil))
		return
	}
	inv, err := h.uc.Unreserve(c.Request.Context(), c.Param("id"), req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	filters := &dto.TransactionFilters{
		InventoryID: c.Query("inventory_id"),
		WarehouseID: c.Query("warehouse_id"),
		Type:        c.Query("type"),
		ReferenceID: c.Query("reference_id"),
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

	items, total, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *InventoryHandler) PendingApprovals(c *gin.Context) {
	items, total, err := h.uc.PendingApprovals(c.Request.Context(),
		queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *InventoryHandler) Approve(c *gin.Context) {
	txn, err := h.uc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

func (h *InventoryHandler) respondError(c *gin.Context, err error) {
	restErr := httperrors.From(err)
	if restErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error("inventory request failed",
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
