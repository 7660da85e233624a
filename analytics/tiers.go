package analytics

import "retail-service/models"

// tierTable maps total-spend lower bounds to loyalty tiers, highest
// first. The CRM layer and every analytics view consult this table
// through TierForSpend so thresholds live in exactly one place.
var tierTable = []struct {
	lower float64
	label string
}{
	{15000, models.TierPlatinum},
	{7000, models.TierGold},
	{3000, models.TierSilver},
	{0, models.TierBronze},
}

// TierForSpend returns the loyalty tier earned by a lifetime spend.
func TierForSpend(totalSpent float64) string {
	for _, t := range tierTable {
		if totalSpent >= t.lower {
			return t.label
		}
	}
	return models.TierBronze
}

// TierDiscountPct is the personalized-offer discount granted per tier.
func TierDiscountPct(tier string) int {
	switch tier {
	case models.TierPlatinum:
		return 20
	case models.TierGold:
		return 15
	case models.TierSilver:
		return 10
	default:
		return 5
	}
}
