package controllers

import (
	"net/http"
	"strconv"

	"retail-service/services"

	"github.com/gin-gonic/gin"
)

// InsightsController exposes the heuristic analytics over HTTP.
type InsightsController struct {
	insightsService services.InsightsService
}

func NewInsightsController(insightsService services.InsightsService) *InsightsController {
	return &InsightsController{insightsService: insightsService}
}

// SalesPredictions handles GET /insights/sales.
func (ic *InsightsController) SalesPredictions(ctx *gin.Context) {
	predictions, svcErr := ic.insightsService.SalesPredictions(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

// TopSellers handles GET /insights/top-sellers.
func (ic *InsightsController) TopSellers(ctx *gin.Context) {
	sellers, svcErr := ic.insightsService.TopSellers(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"top_sellers": sellers})
}

// DemandForecast handles GET /insights/demand/:itemId.
func (ic *InsightsController) DemandForecast(ctx *gin.Context) {
	itemID, ok := parseUUIDParam(ctx, "itemId")
	if !ok {
		return
	}
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	forecast, svcErr := ic.insightsService.DemandForecast(ctx.Request.Context(), itemID, days)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"forecast": forecast})
}

// RevenueSpikes handles GET /insights/revenue-spikes.
func (ic *InsightsController) RevenueSpikes(ctx *gin.Context) {
	spikes, svcErr := ic.insightsService.RevenueSpikes(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"spikes": spikes})
}

// StockProjection handles GET /insights/stock-projection/:itemId.
func (ic *InsightsController) StockProjection(ctx *gin.Context) {
	itemID, ok := parseUUIDParam(ctx, "itemId")
	if !ok {
		return
	}
	horizon, _ := strconv.Atoi(ctx.DefaultQuery("horizon", "14"))

	projection, svcErr := ic.insightsService.StockProjection(ctx.Request.Context(), itemID, horizon)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"projection": projection})
}

// PricingRecommendation handles GET /insights/pricing/:itemId.
func (ic *InsightsController) PricingRecommendation(ctx *gin.Context) {
	itemID, ok := parseUUIDParam(ctx, "itemId")
	if !ok {
		return
	}

	rec, svcErr := ic.insightsService.PricingRecommendation(ctx.Request.Context(), itemID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, rec)
}

// RestockPlan handles GET /insights/restock.
func (ic *InsightsController) RestockPlan(ctx *gin.Context) {
	plan, svcErr := ic.insightsService.RestockPlan(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"recommendations": plan})
}

// ChurnPredictions handles GET /insights/churn.
func (ic *InsightsController) ChurnPredictions(ctx *gin.Context) {
	predictions, svcErr := ic.insightsService.ChurnPredictions(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

// CustomerValue handles GET /insights/customer-value.
func (ic *InsightsController) CustomerValue(ctx *gin.Context) {
	values, svcErr := ic.insightsService.CustomerValue(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"segments": values})
}

// Offers handles GET /insights/offers/:customerId.
func (ic *InsightsController) Offers(ctx *gin.Context) {
	customerID, ok := parseUUIDParam(ctx, "customerId")
	if !ok {
		return
	}

	offers, svcErr := ic.insightsService.OffersForCustomer(ctx.Request.Context(), customerID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"offers": offers})
}
