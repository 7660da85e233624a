package analytics_test

import (
	"testing"

	"retail-service/analytics"
	"retail-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segmentRank(segment string) int {
	switch segment {
	case analytics.SegmentVIP:
		return 3
	case analytics.SegmentHigh:
		return 2
	case analytics.SegmentMedium:
		return 1
	default:
		return 0
	}
}

func TestClassifyCustomerValue_SortedByLifetimeSpend(t *testing.T) {
	big := models.Customer{ID: uuid.New(), Name: "Big"}
	small := models.Customer{ID: uuid.New(), Name: "Small"}
	orders := []models.Order{
		orderWith(small.ID, testNow.AddDate(0, 0, -5), 100, line("A1", 1, 100)),
		orderWith(big.ID, testNow.AddDate(0, 0, -4), 5000, line("B2", 5, 1000)),
	}

	result := analytics.ClassifyCustomerValue([]models.Customer{small, big}, orders)

	require.Len(t, result, 2)
	assert.Equal(t, "Big", result[0].CustomerName)
	assert.Equal(t, 5000.0, result[0].LifetimeValue)
}

// Raising spend while holding purchase count fixed never downgrades the
// segment.
func TestClassifyCustomerValue_MonotonicInSpend(t *testing.T) {
	target := models.Customer{ID: uuid.New(), Name: "Target"}
	peer := models.Customer{ID: uuid.New(), Name: "Peer"}
	customers := []models.Customer{target, peer}

	peerOrder := orderWith(peer.ID, testNow.AddDate(0, 0, -10), 1000, line("B2", 1, 1000))

	previousRank := -1
	for _, spend := range []float64{100, 500, 1000, 2000, 5000, 10000} {
		orders := []models.Order{
			peerOrder,
			orderWith(target.ID, testNow.AddDate(0, 0, -5), spend, line("A1", 1, spend)),
		}
		result := analytics.ClassifyCustomerValue(customers, orders)

		var rank int
		for _, cv := range result {
			if cv.CustomerName == "Target" {
				rank = segmentRank(cv.Segment)
			}
		}
		assert.GreaterOrEqual(t, rank, previousRank, "spend %v downgraded segment", spend)
		previousRank = rank
	}
}

func TestClassifyCustomerValue_SegmentThresholds(t *testing.T) {
	assert.Equal(t, analytics.SegmentVIP, analytics.SegmentForScore(2.0))
	assert.Equal(t, analytics.SegmentHigh, analytics.SegmentForScore(1.2))
	assert.Equal(t, analytics.SegmentMedium, analytics.SegmentForScore(0.7))
	assert.Equal(t, analytics.SegmentLow, analytics.SegmentForScore(0.69))
	assert.Equal(t, analytics.SegmentLow, analytics.SegmentForScore(0))
}

func TestClassifyCustomerValue_EmptyOrders(t *testing.T) {
	c := models.Customer{ID: uuid.New(), Name: "Fresh"}

	result := analytics.ClassifyCustomerValue([]models.Customer{c}, nil)

	require.Len(t, result, 1)
	assert.Equal(t, analytics.SegmentLow, result[0].Segment)
	assert.Equal(t, 0.0, result[0].LifetimeValue)
}

func TestTierForSpend_Thresholds(t *testing.T) {
	assert.Equal(t, models.TierBronze, analytics.TierForSpend(0))
	assert.Equal(t, models.TierBronze, analytics.TierForSpend(2999))
	assert.Equal(t, models.TierSilver, analytics.TierForSpend(3000))
	assert.Equal(t, models.TierGold, analytics.TierForSpend(7000))
	assert.Equal(t, models.TierPlatinum, analytics.TierForSpend(15000))
}

func TestPersonalizedOffers_CategoryAffinityAndTierDiscount(t *testing.T) {
	customer := models.Customer{ID: uuid.New(), Name: "Shopper", Tier: models.TierGold}
	items := []models.InventoryItem{
		{SKU: "E1", ProductName: "Phone", Category: "Electronics", Price: 500},
		{SKU: "E2", ProductName: "Laptop", Category: "Electronics", Price: 1200},
		{SKU: "H1", ProductName: "Chair", Category: "Home", Price: 80},
	}
	orders := []models.Order{
		orderWith(customer.ID, testNow.AddDate(0, 0, -10), 500, line("E1", 1, 500)),
	}

	offers := analytics.PersonalizedOffers(customer, items, orders)

	require.Len(t, offers, 2) // only Electronics
	for _, o := range offers {
		assert.Equal(t, "Electronics", o.Category)
		assert.Equal(t, 15, o.DiscountPct)
		assert.LessOrEqual(t, o.Confidence, 0.95)
	}
}

func TestPersonalizedOffers_NoHistoryNoOffers(t *testing.T) {
	customer := models.Customer{ID: uuid.New(), Tier: models.TierBronze}
	items := []models.InventoryItem{{SKU: "E1", Category: "Electronics", Price: 10}}

	offers := analytics.PersonalizedOffers(customer, items, nil)

	assert.Empty(t, offers)
}
