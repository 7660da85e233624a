package controllers

import (
	"net/http"

	"retail-service/models"
	"retail-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeliveryController handles HTTP requests for delivery logistics.
type DeliveryController struct {
	deliveryService services.DeliveryService
}

func NewDeliveryController(deliveryService services.DeliveryService) *DeliveryController {
	return &DeliveryController{deliveryService: deliveryService}
}

// AddAgent handles POST /delivery/agents.
func (dc *DeliveryController) AddAgent(ctx *gin.Context) {
	var req models.AddAgentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	agent, svcErr := dc.deliveryService.AddAgent(ctx.Request.Context(), &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"agent": agent})
}

// UpdateAgent handles PATCH /delivery/agents/:id.
func (dc *DeliveryController) UpdateAgent(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateAgentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	agent, svcErr := dc.deliveryService.UpdateAgent(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"agent": agent})
}

// DeleteAgent handles DELETE /delivery/agents/:id.
func (dc *DeliveryController) DeleteAgent(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := dc.deliveryService.DeleteAgent(ctx.Request.Context(), id); svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Agent removed"})
}

// ListAgents handles GET /delivery/agents.
func (dc *DeliveryController) ListAgents(ctx *gin.Context) {
	agents, svcErr := dc.deliveryService.ListAgents(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"agents": agents})
}

// ListTasks handles GET /delivery/tasks.
func (dc *DeliveryController) ListTasks(ctx *gin.Context) {
	tasks, svcErr := dc.deliveryService.ListTasks(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask handles GET /delivery/tasks/:id.
func (dc *DeliveryController) GetTask(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	task, svcErr := dc.deliveryService.GetTask(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateStatus handles PUT /delivery/tasks/:id/status.
func (dc *DeliveryController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.UpdateDeliveryStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	task, svcErr := dc.deliveryService.UpdateDeliveryStatus(ctx.Request.Context(), id, req.Status)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"task": task})
}

// Reassign handles PUT /delivery/tasks/:id/reassign.
func (dc *DeliveryController) Reassign(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.ReassignDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid agent_id format"})
		return
	}

	task, svcErr := dc.deliveryService.Reassign(ctx.Request.Context(), id, agentID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"task": task})
}

// Analytics handles GET /delivery/analytics.
func (dc *DeliveryController) Analytics(ctx *gin.Context) {
	out, svcErr := dc.deliveryService.Analytics(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// AgentPerformance handles GET /delivery/agents/:id/performance.
func (dc *DeliveryController) AgentPerformance(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	perf, svcErr := dc.deliveryService.AgentPerformance(ctx.Request.Context(), id)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, perf)
}
