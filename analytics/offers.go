package analytics

import (
	"fmt"
	"math"
	"sort"

	"retail-service/models"
)

// Offer is a personalized product recommendation with a tier discount.
type Offer struct {
	SKU         string  `json:"sku"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	DiscountPct int     `json:"discount_pct"`
	Reason      string  `json:"reason"`
	Confidence  float64 `json:"confidence"`
}

// PersonalizedOffers recommends up to 5 catalog items from the
// categories a customer has already purchased in, discounted by
// loyalty tier. Confidence grows with how often the customer has
// ordered in the item's category.
func PersonalizedOffers(customer models.Customer, items []models.InventoryItem, orders []models.Order) []Offer {
	categoryBySKU := make(map[string]string, len(items))
	for _, item := range items {
		categoryBySKU[item.SKU] = item.Category
	}

	// How many of the customer's orders touch each category.
	categoryOrders := make(map[string]int)
	for _, o := range orders {
		if o.CustomerID != customer.ID {
			continue
		}
		seen := make(map[string]bool)
		for _, line := range o.Items {
			cat := categoryBySKU[line.SKU]
			if cat == "" {
				cat = "General"
			}
			if !seen[cat] {
				categoryOrders[cat]++
				seen[cat] = true
			}
		}
	}

	discount := TierDiscountPct(customer.Tier)

	var offers []Offer
	for _, item := range items {
		support, ok := categoryOrders[item.Category]
		if !ok {
			continue
		}
		offers = append(offers, Offer{
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Category:    item.Category,
			Price:       item.Price,
			DiscountPct: discount,
			Reason:      fmt.Sprintf("Based on your interest in %s", item.Category),
			Confidence:  math.Min(0.95, 0.7+0.05*float64(support)),
		})
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Confidence > offers[j].Confidence
	})
	if len(offers) > 5 {
		offers = offers[:5]
	}
	return offers
}
