package routes

import (
	"net/http"

	"retail-service/controllers"
	"retail-service/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every controller onto the router. The Stripe
// webhook and health check stay outside the auth group; everything
// else goes through the supplied authentication middleware, with
// mutations on stores and deletions restricted to admins.
func RegisterRoutes(
	r *gin.Engine,
	authn gin.HandlerFunc,
	ic *controllers.InventoryController,
	oc *controllers.OrderController,
	cc *controllers.CustomerController,
	dc *controllers.DeliveryController,
	pc *controllers.PaymentController,
	insights *controllers.InsightsController,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/payments/webhook", pc.StripeWebhook)

	api := r.Group("")
	api.Use(authn)

	inventory := api.Group("/inventory")
	inventory.GET("", ic.ListItems)
	inventory.POST("", ic.AddItem)
	inventory.GET("/alerts", ic.StockAlerts)
	inventory.GET("/value", ic.InventoryValue)
	inventory.GET("/transfers", ic.ListTransfers)
	inventory.POST("/transfer", ic.TransferStock)
	inventory.PATCH("/:id", ic.UpdateItem)
	inventory.PUT("/:id/stock", ic.UpdateStock)
	inventory.DELETE("/:id", middleware.AdminOnly(), ic.DeleteItem)

	stores := api.Group("/stores")
	stores.GET("", ic.ListStores)
	stores.POST("", middleware.AdminOnly(), ic.AddStore)
	stores.DELETE("/:id", middleware.AdminOnly(), ic.DeleteStore)

	orders := api.Group("/orders")
	orders.POST("", oc.CreateOrder)
	orders.GET("", oc.ListOrders)
	orders.GET("/revenue", oc.Revenue)
	orders.GET("/:id", oc.GetOrder)
	orders.PUT("/:id/status", oc.UpdateStatus)
	orders.POST("/:id/cancel", oc.CancelOrder)

	customers := api.Group("/customers")
	customers.POST("", cc.Register)
	customers.GET("", cc.ListCustomers)
	customers.GET("/analytics", cc.Analytics)
	customers.GET("/:id", cc.GetCustomer)
	customers.PATCH("/:id", cc.UpdateCustomer)
	customers.DELETE("/:id", middleware.AdminOnly(), cc.DeleteCustomer)
	customers.POST("/:id/feedback", cc.AddFeedback)
	customers.POST("/:id/redeem", cc.RedeemPoints)
	customers.GET("/:id/churn-risk", cc.ChurnRisk)

	delivery := api.Group("/delivery")
	delivery.POST("/agents", middleware.AdminOnly(), dc.AddAgent)
	delivery.GET("/agents", dc.ListAgents)
	delivery.PATCH("/agents/:id", middleware.AdminOnly(), dc.UpdateAgent)
	delivery.DELETE("/agents/:id", middleware.AdminOnly(), dc.DeleteAgent)
	delivery.GET("/agents/:id/performance", dc.AgentPerformance)
	delivery.GET("/tasks", dc.ListTasks)
	delivery.GET("/tasks/:id", dc.GetTask)
	delivery.PUT("/tasks/:id/status", dc.UpdateStatus)
	delivery.PUT("/tasks/:id/reassign", dc.Reassign)
	delivery.GET("/analytics", dc.Analytics)

	payments := api.Group("/payments")
	payments.POST("", pc.RecordPayment)
	payments.GET("", pc.ListPayments)
	payments.POST("/intent", pc.CreateIntent)
	payments.GET("/stats", pc.Stats)

	insightsGroup := api.Group("/insights")
	insightsGroup.GET("/sales", insights.SalesPredictions)
	insightsGroup.GET("/top-sellers", insights.TopSellers)
	insightsGroup.GET("/demand/:itemId", insights.DemandForecast)
	insightsGroup.GET("/revenue-spikes", insights.RevenueSpikes)
	insightsGroup.GET("/stock-projection/:itemId", insights.StockProjection)
	insightsGroup.GET("/pricing/:itemId", insights.PricingRecommendation)
	insightsGroup.GET("/restock", insights.RestockPlan)
	insightsGroup.GET("/churn", insights.ChurnPredictions)
	insightsGroup.GET("/customer-value", insights.CustomerValue)
	insightsGroup.GET("/offers/:customerId", insights.Offers)
}
