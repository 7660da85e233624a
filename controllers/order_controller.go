package controllers

import (
	"net/http"
	"time"

	"retail-service/models"
	"retail-service/services"

	"github.com/gin-gonic/gin"
)

// OrderController handles HTTP requests for the order lifecycle.
type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles POST /orders.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders handles GET /orders with pagination, optionally filtered
// by status or customer_id.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	if status := ctx.Query("status"); status != "" {
		orders, svcErr := oc.orderService.OrdersByStatus(ctx.Request.Context(), status)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"orders": orders})
		return
	}
	if ctx.Query("customer_id") != "" {
		customerID, ok := parseUUIDQuery(ctx, "customer_id")
		if !ok {
			return
		}
		orders, svcErr := oc.orderService.OrdersByCustomer(ctx.Request.Context(), customerID)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"orders": orders})
		return
	}

	page, limit := parsePaginationParams(ctx)
	resp, svcErr := oc.orderService.ListOrders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateStatus handles PUT /orders/:id/status.
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.UpdateOrderStatus(ctx.Request.Context(), id, req.Status)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder handles POST /orders/:id/cancel.
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.CancelOrder(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// Revenue handles GET /orders/revenue, with optional from/to dates in
// RFC 3339 or YYYY-MM-DD form.
func (oc *OrderController) Revenue(ctx *gin.Context) {
	fromParam := ctx.Query("from")
	toParam := ctx.Query("to")

	if fromParam == "" && toParam == "" {
		total, svcErr := oc.orderService.Revenue(ctx.Request.Context())
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"revenue": total})
		return
	}

	from, err := parseDate(fromParam)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
		return
	}
	to, err := parseDate(toParam)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
		return
	}

	total, svcErr := oc.orderService.RevenueByDateRange(ctx.Request.Context(), from, to)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"revenue": total, "from": from, "to": to})
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
