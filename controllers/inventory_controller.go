package controllers

import (
	"net/http"

	"retail-service/models"
	"retail-service/services"

	"github.com/gin-gonic/gin"
)

// InventoryController handles HTTP requests for items, stores and
// stock transfers.
type InventoryController struct {
	inventoryService services.InventoryService
}

func NewInventoryController(inventoryService services.InventoryService) *InventoryController {
	return &InventoryController{inventoryService: inventoryService}
}

// AddItem handles POST /inventory.
func (ic *InventoryController) AddItem(ctx *gin.Context) {
	var req models.AddInventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	item, svcErr := ic.inventoryService.AddItem(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"item": item})
}

// ListItems handles GET /inventory, optionally filtered by store_id.
func (ic *InventoryController) ListItems(ctx *gin.Context) {
	if storeParam := ctx.Query("store_id"); storeParam != "" {
		storeID, ok := parseUUIDQuery(ctx, "store_id")
		if !ok {
			return
		}
		items, svcErr := ic.inventoryService.ItemsByStore(ctx.Request.Context(), storeID)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"items": items})
		return
	}

	items, svcErr := ic.inventoryService.ListItems(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateItem handles PATCH /inventory/:id.
func (ic *InventoryController) UpdateItem(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateInventoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	item, svcErr := ic.inventoryService.UpdateItem(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateStock handles PUT /inventory/:id/stock.
func (ic *InventoryController) UpdateStock(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	item, svcErr := ic.inventoryService.UpdateStock(ctx.Request.Context(), id, *req.Quantity)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles DELETE /inventory/:id.
func (ic *InventoryController) DeleteItem(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := ic.inventoryService.DeleteItem(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// TransferStock handles POST /inventory/transfer.
func (ic *InventoryController) TransferStock(ctx *gin.Context) {
	var req models.TransferStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := ic.inventoryService.TransferStock(ctx.Request.Context(), &req); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Stock transferred"})
}

// ListTransfers handles GET /inventory/transfers.
func (ic *InventoryController) ListTransfers(ctx *gin.Context) {
	transfers, svcErr := ic.inventoryService.ListTransfers(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"transfers": transfers})
}

// StockAlerts handles GET /inventory/alerts.
func (ic *InventoryController) StockAlerts(ctx *gin.Context) {
	alerts, svcErr := ic.inventoryService.StockAlerts(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

// InventoryValue handles GET /inventory/value.
func (ic *InventoryController) InventoryValue(ctx *gin.Context) {
	total, svcErr := ic.inventoryService.TotalInventoryValue(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"total_value": total})
}

// AddStore handles POST /stores.
func (ic *InventoryController) AddStore(ctx *gin.Context) {
	var req models.AddStoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	store, svcErr := ic.inventoryService.AddStore(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"store": store})
}

// ListStores handles GET /stores.
func (ic *InventoryController) ListStores(ctx *gin.Context) {
	stores, svcErr := ic.inventoryService.ListStores(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stores": stores})
}

// DeleteStore handles DELETE /stores/:id.
func (ic *InventoryController) DeleteStore(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := ic.inventoryService.DeleteStore(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Store deleted"})
}
