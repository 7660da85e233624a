package analytics

import (
	"math"
	"time"

	"retail-service/models"
)

// Churn risk labels.
const (
	ChurnRiskHigh   = "high"
	ChurnRiskMedium = "medium"
	ChurnRiskLow    = "low"
)

// noPurchaseDays is reported for customers with no order history.
const noPurchaseDays = 999

// ChurnPrediction is the heuristic churn estimate for one customer.
type ChurnPrediction struct {
	CustomerID            string    `json:"customer_id"`
	CustomerName          string    `json:"customer_name"`
	ChurnScore            float64   `json:"churn_score"`
	ChurnRisk             string    `json:"churn_risk"`
	DaysSinceLastPurchase int       `json:"days_since_last_purchase"`
	TotalOrders           int       `json:"total_orders"`
	AvgOrderValue         float64   `json:"avg_order_value"`
	PredictedChurnDate    time.Time `json:"predicted_churn_date"`
	RetentionProbability  float64   `json:"retention_probability"`
	RecommendedActions    []string  `json:"recommended_actions"`
}

// PredictChurn scores how likely a customer is to stop purchasing.
// Three additive penalty bands feed the score: purchase recency,
// purchase frequency and average order value. A customer with no
// orders is treated as high risk outright.
func PredictChurn(customer models.Customer, orders []models.Order, now time.Time) ChurnPrediction {
	var customerOrders []models.Order
	for _, o := range orders {
		if o.CustomerID == customer.ID {
			customerOrders = append(customerOrders, o)
		}
	}

	if len(customerOrders) == 0 {
		return ChurnPrediction{
			CustomerID:            customer.ID.String(),
			CustomerName:          customer.Name,
			ChurnScore:            0.8,
			ChurnRisk:             ChurnRiskHigh,
			DaysSinceLastPurchase: noPurchaseDays,
			PredictedChurnDate:    now,
			RetentionProbability:  0.2,
			RecommendedActions:    []string{"Send welcome offer", "Assign account manager"},
		}
	}

	first, last := customerOrders[0].CreatedAt, customerOrders[0].CreatedAt
	totalSpent := 0.0
	for _, o := range customerOrders {
		if o.CreatedAt.Before(first) {
			first = o.CreatedAt
		}
		if o.CreatedAt.After(last) {
			last = o.CreatedAt
		}
		totalSpent += o.TotalAmount
	}

	daysSinceLast := int(now.Sub(last).Hours() / 24)
	avgOrderValue := totalSpent / float64(len(customerOrders))
	lifetimeDays := math.Max(1, now.Sub(first).Hours()/24)
	perMonth := float64(len(customerOrders)) / (lifetimeDays / 30)

	score := 0.0
	switch {
	case daysSinceLast > 90:
		score += 0.4
	case daysSinceLast > 60:
		score += 0.25
	case daysSinceLast > 30:
		score += 0.1
	}
	switch {
	case perMonth < 0.5:
		score += 0.3
	case perMonth < 1:
		score += 0.15
	}
	switch {
	case avgOrderValue < 100:
		score += 0.2
	case avgOrderValue < 300:
		score += 0.1
	}
	score = math.Min(score, 1)

	risk := ChurnRiskLow
	switch {
	case score > 0.6:
		risk = ChurnRiskHigh
	case score > 0.3:
		risk = ChurnRiskMedium
	}

	return ChurnPrediction{
		CustomerID:            customer.ID.String(),
		CustomerName:          customer.Name,
		ChurnScore:            score,
		ChurnRisk:             risk,
		DaysSinceLastPurchase: daysSinceLast,
		TotalOrders:           len(customerOrders),
		AvgOrderValue:         math.Round(avgOrderValue*100) / 100,
		PredictedChurnDate:    now.AddDate(0, 0, 120-daysSinceLast),
		RetentionProbability:  1 - score,
		RecommendedActions:    retentionActions(risk),
	}
}

func retentionActions(risk string) []string {
	switch risk {
	case ChurnRiskHigh:
		return []string{
			"Send personalized 20% discount offer",
			"Schedule VIP customer service call",
			"Offer free shipping for next 3 orders",
		}
	case ChurnRiskMedium:
		return []string{
			"Send re-engagement email with new products",
			"Offer 10% loyalty discount",
			"Invite to exclusive preview sale",
		}
	default:
		return []string{
			"Continue regular communication",
			"Offer loyalty points bonus",
		}
	}
}
