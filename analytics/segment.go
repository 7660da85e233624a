package analytics

import (
	"math"
	"sort"

	"retail-service/models"
)

// Customer value segment labels.
const (
	SegmentVIP    = "VIP"
	SegmentHigh   = "High-Value"
	SegmentMedium = "Medium-Value"
	SegmentLow    = "Low-Value"
)

// segmentTable maps value-score lower bounds to segments, highest
// first. Kept as a single ordered table so CRM and analytics views
// can never disagree on thresholds.
var segmentTable = []struct {
	lower float64
	label string
}{
	{2.0, SegmentVIP},
	{1.2, SegmentHigh},
	{0.7, SegmentMedium},
	{0, SegmentLow},
}

// CustomerValue is one customer's value classification.
type CustomerValue struct {
	CustomerID           string  `json:"customer_id"`
	CustomerName         string  `json:"customer_name"`
	Segment              string  `json:"segment"`
	ValueScore           float64 `json:"value_score"`
	LifetimeValue        float64 `json:"lifetime_value"`
	TotalOrders          int     `json:"total_orders"`
	AvgOrderValue        float64 `json:"avg_order_value"`
	PredictedFutureValue float64 `json:"predicted_future_value"`
}

// ClassifyCustomerValue segments customers by a blend of their spend
// relative to the average customer (60%) and their purchase count
// against a 5-order baseline (40%). Spend and counts are recomputed
// from the actual order history, not the stored rollups. The result is
// sorted by lifetime spend, highest first.
func ClassifyCustomerValue(customers []models.Customer, orders []models.Order) []CustomerValue {
	type rollup struct {
		spent     float64
		purchases int
	}
	byCustomer := make(map[string]rollup, len(customers))
	for _, o := range orders {
		r := byCustomer[o.CustomerID.String()]
		r.spent += o.TotalAmount
		r.purchases++
		byCustomer[o.CustomerID.String()] = r
	}

	totalSpent := 0.0
	for _, c := range customers {
		totalSpent += byCustomer[c.ID.String()].spent
	}
	avgSpent := totalSpent / math.Max(1, float64(len(customers)))

	result := make([]CustomerValue, 0, len(customers))
	for _, c := range customers {
		r := byCustomer[c.ID.String()]

		spentRatio := 1.0
		if avgSpent > 0 {
			spentRatio = r.spent / avgSpent
		}
		score := spentRatio*0.6 + float64(r.purchases)/5*0.4

		cv := CustomerValue{
			CustomerID:           c.ID.String(),
			CustomerName:         c.Name,
			Segment:              SegmentForScore(score),
			ValueScore:           math.Round(score*100) / 100,
			LifetimeValue:        r.spent,
			TotalOrders:          r.purchases,
			PredictedFutureValue: math.Round(r.spent * (1 + 0.15*score)),
		}
		if r.purchases > 0 {
			cv.AvgOrderValue = math.Round(r.spent/float64(r.purchases)*100) / 100
		}
		result = append(result, cv)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].LifetimeValue > result[j].LifetimeValue
	})
	return result
}

// SegmentForScore resolves a value score against the segment table.
func SegmentForScore(score float64) string {
	for _, t := range segmentTable {
		if score >= t.lower {
			return t.label
		}
	}
	return SegmentLow
}
