package controllers

import (
	"net/http"

	"retail-service/models"
	"retail-service/services"

	"github.com/gin-gonic/gin"
)

// PaymentController handles HTTP requests for payments.
type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

// RecordPayment handles POST /payments.
func (pc *PaymentController) RecordPayment(ctx *gin.Context) {
	var req models.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	payment, svcErr := pc.paymentService.RecordPayment(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// CreateIntent handles POST /payments/intent.
func (pc *PaymentController) CreateIntent(ctx *gin.Context) {
	var req models.CreateIntentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	intentID, svcErr := pc.paymentService.CreatePaymentIntent(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"payment_intent_id": intentID})
}

// StripeWebhook handles POST /payments/webhook.
func (pc *PaymentController) StripeWebhook(ctx *gin.Context) {
	if svcErr := pc.paymentService.HandleStripeWebhook(ctx.Request.Context(), ctx.Request); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "received"})
}

// ListPayments handles GET /payments, optionally filtered by order_id
// or method.
func (pc *PaymentController) ListPayments(ctx *gin.Context) {
	if ctx.Query("order_id") != "" {
		orderID, ok := parseUUIDQuery(ctx, "order_id")
		if !ok {
			return
		}
		payments, svcErr := pc.paymentService.PaymentsByOrder(ctx.Request.Context(), orderID)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"payments": payments})
		return
	}
	if method := ctx.Query("method"); method != "" {
		payments, svcErr := pc.paymentService.PaymentsByMethod(ctx.Request.Context(), method)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"payments": payments})
		return
	}

	payments, svcErr := pc.paymentService.ListPayments(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payments": payments})
}

// Stats handles GET /payments/stats.
func (pc *PaymentController) Stats(ctx *gin.Context) {
	stats, svcErr := pc.paymentService.Stats(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
