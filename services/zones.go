package services

import "strings"

// DefaultZone is assigned when no keyword matches the shipping address.
const DefaultZone = "Downtown"

// Zones lists every delivery zone the fleet covers.
var Zones = []string{"Downtown", "Uptown", "Suburb", "Industrial Area", "Coastal"}

// zoneKeywords maps address keywords to zones, checked in order.
var zoneKeywords = []struct {
	zone     string
	keywords []string
}{
	{"Downtown", []string{"downtown", "central"}},
	{"Uptown", []string{"uptown", "north"}},
	{"Suburb", []string{"suburb", "residential"}},
	{"Industrial Area", []string{"industrial", "warehouse"}},
	{"Coastal", []string{"coastal", "beach"}},
}

// DetermineZone resolves a delivery zone from the free-text shipping
// address by case-insensitive substring match.
func DetermineZone(address string) string {
	if address == "" {
		return DefaultZone
	}

	lower := strings.ToLower(address)
	for _, z := range zoneKeywords {
		for _, kw := range z.keywords {
			if strings.Contains(lower, kw) {
				return z.zone
			}
		}
	}
	return DefaultZone
}
