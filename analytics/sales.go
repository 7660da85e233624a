// Package analytics computes derived reporting metrics from snapshots of
// orders, inventory and customers. Every function is pure and
// deterministic for a given input: callers pass the current snapshot
// (and a reference time) and re-invoke whenever source data changes.
// Degenerate inputs degrade to conservative defaults, never to errors.
package analytics

import (
	"math"
	"sort"
	"time"

	"retail-service/models"
)

// UnknownSKU is the sentinel bucket for line items with an empty SKU.
const UnknownSKU = "unknown"

// Trend labels for sales predictions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendUnknown    = "unknown"
)

// ProductSales aggregates historical line items for a single SKU.
type ProductSales struct {
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	OrderCount    int     `json:"order_count"`
	ProductName   string  `json:"product_name"`
}

// SalesPrediction is the weekly sales estimate for one product.
type SalesPrediction struct {
	SKU                string  `json:"sku"`
	ProductName        string  `json:"product_name"`
	Category           string  `json:"category"`
	CurrentStock       int     `json:"current_stock"`
	PredictedSales     int     `json:"predicted_sales"`
	Confidence         float64 `json:"confidence"`
	Trend              string  `json:"trend"`
	AvgPerOrder        float64 `json:"avg_per_order"`
	OrdersPerWeek      float64 `json:"orders_per_week"`
	RecommendedRestock int     `json:"recommended_restock"`
}

// TopSeller ranks a product by its historical sales volume.
type TopSeller struct {
	SKU           string  `json:"sku"`
	ProductName   string  `json:"product_name"`
	Category      string  `json:"category"`
	TotalQuantity int     `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
	Confidence    float64 `json:"confidence"`
}

// AggregateHistoricalSales scans every order's line items and buckets
// quantity, revenue and occurrence count by SKU. The result is
// associative over order-list concatenation, so partial aggregates can
// be merged element-wise.
func AggregateHistoricalSales(orders []models.Order) map[string]ProductSales {
	sales := make(map[string]ProductSales)

	for _, order := range orders {
		for _, item := range order.Items {
			sku := item.SKU
			if sku == "" {
				sku = UnknownSKU
			}

			s := sales[sku]
			s.TotalQuantity += item.Quantity
			s.TotalRevenue += float64(item.Quantity) * item.Price
			s.OrderCount++
			if s.ProductName == "" {
				s.ProductName = item.ProductName
			}
			sales[sku] = s
		}
	}

	return sales
}

// PredictSales estimates next-week sales for a product from its
// aggregated history and the overall order cadence. Without history the
// estimate falls back to 10% of current stock at low confidence.
func PredictSales(item models.InventoryItem, sales map[string]ProductSales, orders []models.Order, now time.Time) SalesPrediction {
	p := SalesPrediction{
		SKU:          item.SKU,
		ProductName:  item.ProductName,
		Category:     item.Category,
		CurrentStock: item.Quantity,
	}

	history, ok := sales[item.SKU]
	if !ok || history.TotalQuantity == 0 {
		p.PredictedSales = int(math.Round(float64(item.Quantity) * 0.1))
		p.Confidence = 0.45
		p.Trend = TrendUnknown
		return p
	}

	avgPerOrder := float64(history.TotalQuantity) / float64(history.OrderCount)

	// Orders-per-week estimated over the span from the earliest order to
	// now, floored at 7 days so a brand-new history does not blow up the
	// rate.
	days := 7.0
	if len(orders) > 0 {
		earliest := orders[0].CreatedAt
		for _, o := range orders[1:] {
			if o.CreatedAt.Before(earliest) {
				earliest = o.CreatedAt
			}
		}
		if span := now.Sub(earliest).Hours() / 24; span > days {
			days = span
		}
	}
	ordersPerWeek := float64(len(orders)) / days * 7

	p.AvgPerOrder = avgPerOrder
	p.OrdersPerWeek = ordersPerWeek
	p.PredictedSales = int(math.Round(avgPerOrder * ordersPerWeek))
	p.Confidence = math.Min(0.95, 0.5+float64(history.OrderCount)*0.05)
	p.Trend = recentTrend(item.SKU, avgPerOrder, orders)

	if p.PredictedSales > item.Quantity {
		p.RecommendedRestock = p.PredictedSales - item.Quantity
	}
	return p
}

// recentTrend compares the quantity sold in the last 5 orders against
// the long-run average per order.
func recentTrend(sku string, avgPerOrder float64, orders []models.Order) string {
	recent := orders
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	recentSales := 0
	for _, o := range recent {
		for _, item := range o.Items {
			if item.SKU == sku {
				recentSales += item.Quantity
			}
		}
	}

	if float64(recentSales) > avgPerOrder {
		return TrendIncreasing
	}
	return TrendDecreasing
}

// RankTopSellers returns up to 10 products ordered by historical sales
// volume. The sort is stable so ties keep the input ordering.
func RankTopSellers(items []models.InventoryItem, orders []models.Order) []TopSeller {
	sales := AggregateHistoricalSales(orders)

	sellers := make([]TopSeller, 0, len(items))
	for _, item := range items {
		ts := TopSeller{
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Category:    item.Category,
			Confidence:  0.3,
		}
		if history, ok := sales[item.SKU]; ok {
			ts.TotalQuantity = history.TotalQuantity
			ts.TotalRevenue = history.TotalRevenue
			ts.Confidence = math.Min(0.95, 0.6+float64(history.OrderCount)*0.05)
		}
		sellers = append(sellers, ts)
	}

	sort.SliceStable(sellers, func(i, j int) bool {
		return sellers[i].TotalQuantity > sellers[j].TotalQuantity
	})

	if len(sellers) > 10 {
		sellers = sellers[:10]
	}
	return sellers
}
