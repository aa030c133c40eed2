package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

func TestResolveTermsExactMatch(t *testing.T) {
	terms := []models.ContractTerms{
		{CampaignName: "Summer Push", Budget: 5000},
		{CampaignName: "Spring Sale", Budget: 12000},
	}

	got, ok := ResolveTerms(terms, "spring sale")
	require.True(t, ok)
	assert.Equal(t, float64(12000), got.Budget)
}

func TestResolveTermsFuzzyMatch(t *testing.T) {
	terms := []models.ContractTerms{
		{CampaignName: "ACME_Spring-Sale_2025", Budget: 12000},
	}

	// Upstream systems format the same campaign inconsistently.
	got, ok := ResolveTerms(terms, "ACME Spring Sale")
	require.True(t, ok)
	assert.Equal(t, float64(12000), got.Budget)

	// And the other direction: stored name is the shorter one.
	terms = []models.ContractTerms{{CampaignName: "Spring Sale", Budget: 7000}}
	got, ok = ResolveTerms(terms, "ACME Spring Sale 2025")
	require.True(t, ok)
	assert.Equal(t, float64(7000), got.Budget)
}

func TestResolveTermsMissReturnsZeroBudget(t *testing.T) {
	got, ok := ResolveTerms([]models.ContractTerms{
		{CampaignName: "Something Else", Budget: 9000},
	}, "Spring Sale")
	assert.False(t, ok)
	assert.Equal(t, float64(0), got.Budget)
}

func TestResolveTermsEmptyInputs(t *testing.T) {
	_, ok := ResolveTerms(nil, "Spring Sale")
	assert.False(t, ok)

	_, ok = ResolveTerms([]models.ContractTerms{{CampaignName: "X"}}, "---")
	assert.False(t, ok)
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name     string
		daysInto float64
		daysLeft float64
		want     float64
	}{
		{"mid flight", 5, 5, 50},
		{"one quarter in", 5, 15, 25},
		{"elapsed flight forced to 100", 5, 0, 100},
		{"both zero means unknown", 0, 0, 0},
		{"first day", 1, 9, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Completion(tt.daysInto, tt.daysLeft), 1e-9)
		})
	}
}
