package analytics

import (
	"math"
	"sort"
	"time"

	"retail-service/models"
)

// Restocking urgency labels.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// defaultDaysOfStock is assumed when no demand estimate exists for an
// item (or the estimate is zero), so a missing prediction never
// produces an infinite or NaN runway.
const defaultDaysOfStock = 30

// RestockRecommendation is one line of the replenishment plan.
type RestockRecommendation struct {
	SKU                  string    `json:"sku"`
	ProductName          string    `json:"product_name"`
	CurrentStock         int       `json:"current_stock"`
	PredictedDailyDemand float64   `json:"predicted_daily_demand"`
	DaysOfStockLeft      int       `json:"days_of_stock_left"`
	Urgency              string    `json:"urgency"`
	RecommendedOrderQty  int       `json:"recommended_order_qty"`
	SuggestedOrderDate   time.Time `json:"suggested_order_date"`
}

// OptimizeRestocking ranks inventory by how soon each item runs out at
// its predicted daily demand, most urgent first. Items without a usable
// demand estimate default to a 30-day runway.
func OptimizeRestocking(inventory []models.InventoryItem, predictions []SalesPrediction, now time.Time) []RestockRecommendation {
	demandBySKU := make(map[string]float64, len(predictions))
	for _, p := range predictions {
		demandBySKU[p.SKU] = float64(p.PredictedSales)
	}

	plan := make([]RestockRecommendation, 0, len(inventory))
	for _, item := range inventory {
		demand := demandBySKU[item.SKU]

		daysOfStock := float64(defaultDaysOfStock)
		if demand > 0 {
			daysOfStock = float64(item.Quantity) / demand
		}

		urgency := UrgencyLow
		switch {
		case daysOfStock < 7:
			urgency = UrgencyHigh
		case daysOfStock < 14:
			urgency = UrgencyMedium
		}

		plan = append(plan, RestockRecommendation{
			SKU:                  item.SKU,
			ProductName:          item.ProductName,
			CurrentStock:         item.Quantity,
			PredictedDailyDemand: demand,
			DaysOfStockLeft:      int(math.Round(daysOfStock)),
			Urgency:              urgency,
			RecommendedOrderQty:  int(math.Ceil(demand * 30)),
			SuggestedOrderDate:   now.Add(time.Duration((daysOfStock - 5) * 24 * float64(time.Hour))),
		})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].DaysOfStockLeft < plan[j].DaysOfStockLeft
	})
	return plan
}
