package services_test

import (
	"testing"

	"retail-service/services"

	"github.com/stretchr/testify/assert"
)

func TestDetermineZone_KeywordMatching(t *testing.T) {
	cases := []struct {
		address string
		zone    string
	}{
		{"12 Downtown Plaza", "Downtown"},
		{"Central Market Street", "Downtown"},
		{"Uptown Heights, Flat 4B", "Uptown"},
		{"88 North Ridge", "Uptown"},
		{"Green Suburb Lane", "Suburb"},
		{"Residential Block C", "Suburb"},
		{"Industrial Estate Gate 2", "Industrial Area"},
		{"Old Warehouse Compound", "Industrial Area"},
		{"Coastal Highway 7", "Coastal"},
		{"Beach View Apartments", "Coastal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.zone, services.DetermineZone(tc.address), "address %q", tc.address)
	}
}

func TestDetermineZone_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "Coastal", services.DetermineZone("near the BEACH road"))
	assert.Equal(t, "Industrial Area", services.DetermineZone("WAREHOUSE 9"))
}

func TestDetermineZone_DefaultsToDowntown(t *testing.T) {
	assert.Equal(t, services.DefaultZone, services.DetermineZone("42 Nowhere Street"))
	assert.Equal(t, services.DefaultZone, services.DetermineZone(""))
}
