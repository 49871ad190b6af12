package handlers

import (
	"net/http"

	"laundryops/internal/common"
	"laundryops/internal/models"
	"laundryops/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// InventoryHandlers handles inventory-related HTTP requests
type InventoryHandlers struct {
	inventoryService services.InventoryService
	exportService    services.ExportService
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventoryService services.InventoryService, exportService services.ExportService) *InventoryHandlers {
	return &InventoryHandlers{
		inventoryService: inventoryService,
		exportService:    exportService,
	}
}

// Register mounts the inventory routes on g.
func (h *InventoryHandlers) Register(g *echo.Group) {
	g.GET("/inventory", h.ListItems)
	g.POST("/inventory", h.CreateItem)
	g.GET("/inventory/low-stock", h.LowStock)
	g.POST("/inventory/export", h.ExportSnapshot)
	g.GET("/inventory/:id", h.GetItem)
	g.PUT("/inventory/:id", h.UpdateItem)
	g.DELETE("/inventory/:id", h.DeleteItem)
	g.POST("/inventory/:id/adjust", h.AdjustItem)
	g.POST("/inventory/:id/consume", h.ConsumeItem)
	g.GET("/inventory/:id/transactions", h.ListTransactions)
	g.POST("/inventory/:id/transactions/export", h.ExportTransactions)
}

// ListItemsRequest represents query parameters for listing inventory items
type ListItemsRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	LowStock bool   `query:"low_stock"`
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
}

// CreateItemRequest represents the item creation payload. Quantity is the starting
// stock and is recorded as the item's initial ledger entry.
type CreateItemRequest struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Category     string           `json:"category" validate:"required"`
	Description  *string          `json:"description"`
	Quantity     *decimal.Decimal `json:"quantity" validate:"required"`
	Unit         string           `json:"unit" validate:"required"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit"`
	Supplier     *string          `json:"supplier"`
	Notes        *string          `json:"notes" validate:"omitempty,max=500"`
}

// UpdateItemRequest is a partial edit. A quantity different from the stored one is
// recorded as an adjustment.
type UpdateItemRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=100"`
	Category     *string          `json:"category"`
	Description  *string          `json:"description"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit"`
	ReorderLevel *decimal.Decimal `json:"reorder_level"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit"`
	Supplier     *string          `json:"supplier"`
	Notes        *string          `json:"notes" validate:"omitempty,max=500"`
}

// AdjustRequest posts one ledger entry. Quantity is a magnitude except for the
// adjustment type, where it is signed.
type AdjustRequest struct {
	TransactionType string           `json:"transaction_type" validate:"required"`
	Quantity        *decimal.Decimal `json:"quantity" validate:"required"`
	ReferenceType   *string          `json:"reference_type" validate:"omitempty,max=50"`
	ReferenceID     *string          `json:"reference_id" validate:"omitempty,max=100"`
	Notes           *string          `json:"notes" validate:"omitempty,max=500"`
}

type ConsumeRequest struct {
	Quantity      *decimal.Decimal `json:"quantity" validate:"required"`
	ReferenceType *string          `json:"reference_type" validate:"omitempty,max=50"`
	ReferenceID   *string          `json:"reference_id" validate:"omitempty,max=100"`
	Notes         *string          `json:"notes" validate:"omitempty,max=500"`
}

type HistoryRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListItems godoc
// @Summary  List inventory items
// @Tags     inventory
// @Param    q         query string false "Name contains"
// @Param    category  query string false "Category"
// @Param    low_stock query bool   false "Only items at or below reorder level"
// @Param    limit     query int    false "Page size (max 100)"
// @Param    offset    query int    false "Offset"
// @Success  200 {object} map[string]any
// @Router   /inventory [get]
func (h *InventoryHandlers) ListItems(c echo.Context) error {
	var req ListItemsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	filter := &models.InventorySearchFilter{
		Query:        req.Query,
		Category:     req.Category,
		LowStockOnly: req.LowStock,
		Limit:        req.Limit,
		Offset:       req.Offset,
	}
	items, err := h.inventoryService.List(c.Request().Context(), filter)
	if err != nil {
		return common.SendError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"items":  items,
		"count":  len(items),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// CreateItem godoc
// @Summary  Create an inventory item
// @Tags     inventory
// @Param    item body CreateItemRequest true "Item"
// @Success  201 {object} models.AdjustmentResult
// @Failure  400 {object} common.ErrorResponse
// @Router   /inventory [post]
func (h *InventoryHandlers) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	item := &models.InventoryItem{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Quantity:    *req.Quantity,
		Unit:        req.Unit,
		Supplier:    req.Supplier,
	}
	if req.ReorderLevel != nil {
		item.ReorderLevel = *req.ReorderLevel
	}
	if req.CostPerUnit != nil {
		item.CostPerUnit = decimal.NewNullDecimal(*req.CostPerUnit)
	}

	result, err := h.inventoryService.Create(c.Request().Context(), item, req.Notes)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// GetItem godoc
// @Summary  Get an inventory item
// @Tags     inventory
// @Param    id path string true "Item ID"
// @Success  200 {object} models.InventoryItem
// @Failure  404 {object} common.ErrorResponse
// @Router   /inventory/{id} [get]
func (h *InventoryHandlers) GetItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	item, err := h.inventoryService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItem godoc
// @Summary  Update an inventory item
// @Tags     inventory
// @Param    id   path string            true "Item ID"
// @Param    item body UpdateItemRequest true "Changes"
// @Success  200 {object} models.AdjustmentResult
// @Failure  400 {object} common.ErrorResponse
// @Failure  404 {object} common.ErrorResponse
// @Router   /inventory/{id} [put]
func (h *InventoryHandlers) UpdateItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req UpdateItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	changes := &models.InventoryItemChanges{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		CostPerUnit:  req.CostPerUnit,
		Supplier:     req.Supplier,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	}
	result, err := h.inventoryService.Update(c.Request().Context(), id, changes)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteItem godoc
// @Summary  Delete an inventory item and its ledger
// @Tags     inventory
// @Param    id path string true "Item ID"
// @Success  204
// @Failure  404 {object} common.ErrorResponse
// @Router   /inventory/{id} [delete]
func (h *InventoryHandlers) DeleteItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	if err := h.inventoryService.Delete(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdjustItem godoc
// @Summary  Post a ledger entry against an item
// @Tags     inventory
// @Param    id         path string        true "Item ID"
// @Param    adjustment body AdjustRequest true "Adjustment"
// @Success  200 {object} models.AdjustmentResult
// @Failure  400 {object} common.ErrorResponse
// @Failure  404 {object} common.ErrorResponse
// @Router   /inventory/{id}/adjust [post]
func (h *InventoryHandlers) AdjustItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req AdjustRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	result, err := h.inventoryService.Adjust(c.Request().Context(), models.Adjustment{
		ItemID:        id,
		Type:          models.TransactionType(req.TransactionType),
		Quantity:      *req.Quantity,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ConsumeItem godoc
// @Summary  Record usage of an item
// @Tags     inventory
// @Param    id    path string         true "Item ID"
// @Param    usage body ConsumeRequest true "Usage"
// @Success  200 {object} models.AdjustmentResult
// @Failure  400 {object} common.ErrorResponse
// @Failure  404 {object} common.ErrorResponse
// @Router   /inventory/{id}/consume [post]
func (h *InventoryHandlers) ConsumeItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req ConsumeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	result, err := h.inventoryService.Consume(c.Request().Context(), models.Adjustment{
		ItemID:        id,
		Quantity:      *req.Quantity,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Notes:         req.Notes,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// LowStock godoc
// @Summary  Items at or below their reorder level
// @Tags     inventory
// @Success  200 {object} map[string]any
// @Router   /inventory/low-stock [get]
func (h *InventoryHandlers) LowStock(c echo.Context) error {
	items, err := h.inventoryService.LowStock(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// ListTransactions godoc
// @Summary  Ledger history of an item, newest first
// @Tags     inventory
// @Param    id     path  string true  "Item ID"
// @Param    limit  query int    false "Page size (max 100)"
// @Param    offset query int    false "Offset"
// @Success  200 {object} map[string]any
// @Failure  404 {object} common.ErrorResponse
// @Router   /inventory/{id}/transactions [get]
func (h *InventoryHandlers) ListTransactions(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req HistoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return common.SendError(c, err)
	}

	entries, err := h.inventoryService.History(c.Request().Context(), id, req.Limit, req.Offset)
	if err != nil {
		return common.SendError(c, err)
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)
	return c.JSON(http.StatusOK, map[string]any{
		"transactions": entries,
		"limit":        limit,
		"offset":       offset,
	})
}

// ExportTransactions godoc
// @Summary  Upload an item's ledger as CSV to object storage
// @Tags     exports
// @Param    id path string true "Item ID"
// @Success  201 {object} models.ExportResult
// @Failure  404 {object} common.ErrorResponse
// @Failure  503 {object} common.ErrorResponse
// @Router   /inventory/{id}/transactions/export [post]
func (h *InventoryHandlers) ExportTransactions(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}

	result, err := h.exportService.ExportItemLedger(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// ExportSnapshot godoc
// @Summary  Upload a CSV snapshot of every item to object storage
// @Tags     exports
// @Success  201 {object} models.ExportResult
// @Failure  503 {object} common.ErrorResponse
// @Router   /inventory/export [post]
func (h *InventoryHandlers) ExportSnapshot(c echo.Context) error {
	result, err := h.exportService.ExportInventorySnapshot(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}
