package analytics_test

import (
	"testing"
	"time"

	"retail-service/analytics"
	"retail-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecastDemand_ExactDayCountAndIncreasingDates(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 100}
	cust := uuid.New()
	orders := []models.Order{
		orderWith(cust, testNow.AddDate(0, 0, -7), 30, line("A1", 3, 10)),
		orderWith(cust, testNow.AddDate(0, 0, -3), 50, line("A1", 5, 10)),
	}

	for _, days := range []int{1, 7, 30} {
		forecast := analytics.ForecastDemand(item, days, orders, testNow)

		require.Len(t, forecast, days)
		for i := 1; i < len(forecast); i++ {
			assert.True(t, forecast[i].Date.After(forecast[i-1].Date))
		}
	}
}

func TestForecastDemand_BoundsBracketPrediction(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 100}
	cust := uuid.New()
	orders := []models.Order{
		orderWith(cust, testNow.AddDate(0, 0, -14), 80, line("A1", 8, 10)),
		orderWith(cust, testNow.AddDate(0, 0, -10), 20, line("A1", 2, 10)),
		orderWith(cust, testNow.AddDate(0, 0, -6), 40, line("A1", 4, 10)),
		orderWith(cust, testNow.AddDate(0, 0, -2), 60, line("A1", 6, 10)),
	}

	forecast := analytics.ForecastDemand(item, 30, orders, testNow)

	for _, point := range forecast {
		assert.LessOrEqual(t, point.LowerBound, point.Predicted)
		assert.LessOrEqual(t, point.Predicted, point.UpperBound)
		assert.GreaterOrEqual(t, point.LowerBound, 0)
	}
}

func TestForecastDemand_ConfidenceByOrderSupport(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 100}
	cust := uuid.New()

	few := []models.Order{
		orderWith(cust, testNow.AddDate(0, 0, -5), 30, line("A1", 3, 10)),
	}
	forecast := analytics.ForecastDemand(item, 5, few, testNow)
	assert.Equal(t, 0.5, forecast[0].Confidence)

	var many []models.Order
	for i := 0; i < 4; i++ {
		many = append(many, orderWith(cust, testNow.AddDate(0, 0, -i-1), 30, line("A1", 3, 10)))
	}
	forecast = analytics.ForecastDemand(item, 5, many, testNow)
	assert.Equal(t, 0.75, forecast[0].Confidence)
}

func TestForecastDemand_NoHistoryUsesDefaultBase(t *testing.T) {
	item := models.InventoryItem{SKU: "NEW", Quantity: 100}

	forecast := analytics.ForecastDemand(item, 7, nil, testNow)

	require.Len(t, forecast, 7)
	// Base value 5, flat weekday profile, 1%/day growth.
	assert.Equal(t, 5, forecast[0].Predicted)
	for _, point := range forecast {
		assert.GreaterOrEqual(t, point.Predicted, 0)
	}
}

func TestPredictRevenueSpikes_Deterministic(t *testing.T) {
	cust := uuid.New()
	var orders []models.Order
	for i := 0; i < 8; i++ {
		orders = append(orders, orderWith(cust, testNow.AddDate(0, 0, -i*7), 500, line("A1", 5, 100)))
	}

	first := analytics.PredictRevenueSpikes(orders, testNow)
	second := analytics.PredictRevenueSpikes(orders, testNow)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first) // weekends and month-end always flagged
	for _, s := range first {
		assert.True(t, s.Date.After(testNow))
		assert.Contains(t, []float64{0.6, 0.8}, s.Probability)
	}
}

func TestProjectStockLevels_DrawdownAndRestock(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 40, MinThreshold: 10}

	projections := analytics.ProjectStockLevels(item, 14, 5, testNow)

	require.Len(t, projections, 14)
	for _, p := range projections {
		assert.GreaterOrEqual(t, p.PredictedStock, 0)
		assert.Contains(t, []string{"low", "high", "critical"}, p.StockoutRisk)
	}
}

func TestProjectStockLevels_ZeroDemandDefaults(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 100, MinThreshold: 10}

	projections := analytics.ProjectStockLevels(item, 3, 0, testNow)

	require.Len(t, projections, 3)
	assert.Greater(t, projections[0].PredictedSales, 0)
}

func TestOptimizePricing_Strategies(t *testing.T) {
	forecast := []analytics.DemandForecastPoint{
		{Predicted: 10}, {Predicted: 10}, {Predicted: 10},
	}

	overstocked := models.InventoryItem{SKU: "A1", Quantity: 500, Price: 100}
	rec := analytics.OptimizePricing(overstocked, forecast)
	assert.Equal(t, "clearance", rec.Strategy)
	assert.Equal(t, 85.0, rec.RecommendedPrice)

	scarce := models.InventoryItem{SKU: "A1", Quantity: 50, Price: 100}
	rec = analytics.OptimizePricing(scarce, forecast)
	assert.Equal(t, "premium", rec.Strategy)
	assert.InDelta(t, 110.0, rec.RecommendedPrice, 0.001)

	balanced := models.InventoryItem{SKU: "A1", Quantity: 150, Price: 100}
	rec = analytics.OptimizePricing(balanced, forecast)
	assert.Equal(t, "maintain", rec.Strategy)
	assert.Equal(t, 100.0, rec.RecommendedPrice)
}

func TestOptimizePricing_EmptyForecast(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 10, Price: 100}
	rec := analytics.OptimizePricing(item, nil)
	assert.Equal(t, "maintain", rec.Strategy)
	assert.Equal(t, 100.0, rec.RecommendedPrice)
}

func TestForecastDemand_HorizonStartsToday(t *testing.T) {
	item := models.InventoryItem{SKU: "A1", Quantity: 10}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	forecast := analytics.ForecastDemand(item, 2, nil, now)

	require.Len(t, forecast, 2)
	assert.Equal(t, now, forecast[0].Date)
	assert.Equal(t, now.AddDate(0, 0, 1), forecast[1].Date)
}
