package controllers

import (
	"net/http"

	"retail-service/models"
	"retail-service/services"

	"github.com/gin-gonic/gin"
)

// CustomerController handles HTTP requests for CRM operations.
type CustomerController struct {
	customerService services.CustomerService
}

func NewCustomerController(customerService services.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// Register handles POST /customers.
func (cc *CustomerController) Register(ctx *gin.Context) {
	var req models.RegisterCustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	customer, svcErr := cc.customerService.Register(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// ListCustomers handles GET /customers, optionally filtered by tier.
func (cc *CustomerController) ListCustomers(ctx *gin.Context) {
	if tier := ctx.Query("tier"); tier != "" {
		customers, svcErr := cc.customerService.CustomersByTier(ctx.Request.Context(), tier)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"customers": customers})
		return
	}

	customers, svcErr := cc.customerService.ListCustomers(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GetCustomer handles GET /customers/:id.
func (cc *CustomerController) GetCustomer(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	customer, svcErr := cc.customerService.GetCustomer(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"customer": customer})
}

// UpdateCustomer handles PATCH /customers/:id.
func (cc *CustomerController) UpdateCustomer(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateCustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	customer, svcErr := cc.customerService.UpdateCustomer(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"customer": customer})
}

// DeleteCustomer handles DELETE /customers/:id.
func (cc *CustomerController) DeleteCustomer(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := cc.customerService.DeleteCustomer(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// AddFeedback handles POST /customers/:id/feedback.
func (cc *CustomerController) AddFeedback(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.AddFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	feedback, svcErr := cc.customerService.AddFeedback(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

// RedeemPoints handles POST /customers/:id/redeem.
func (cc *CustomerController) RedeemPoints(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.RedeemPointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	customer, svcErr := cc.customerService.RedeemPoints(ctx.Request.Context(), id, req.Points)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"customer": customer})
}

// ChurnRisk handles GET /customers/:id/churn-risk.
func (cc *CustomerController) ChurnRisk(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	summary, svcErr := cc.customerService.ChurnRisk(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// Analytics handles GET /customers/analytics.
func (cc *CustomerController) Analytics(ctx *gin.Context) {
	out, svcErr := cc.customerService.Analytics(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, out)
}
