package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberCoercion(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1234", 1234},
		{"$1,234.56", 1234.56},
		{" 42 ", 42},
		{"12%", 12},
		{"(500)", -500},
		{"", 0},
		{"n/a", 0},
		{"—", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(tt.in))
		})
	}
}

func TestReadDeliveryRows(t *testing.T) {
	csvData := `CAMPAIGN ORDER NAME,DATE,IMPRESSIONS,CLICKS,SPEND,REVENUE,TRANSACTIONS
Spring Sale,2025-06-01,"1,000",10,$100.00,$300.00,3
Spring Sale,Totals,"1,000",10,$100.00,$300.00,3
,2025-06-01,50,1,5,10,0
Summer Push,2025-06-01,2000,junk,250.50,,1
`
	rows, err := ReadDeliveryRows(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 3) // empty campaign name dropped

	assert.Equal(t, "Spring Sale", rows[0].CampaignName)
	assert.Equal(t, float64(1000), rows[0].Impressions)
	assert.Equal(t, float64(100), rows[0].Spend)

	// Summary rows pass through; exclusion is scoring policy.
	assert.True(t, rows[1].IsTotals())

	assert.Equal(t, float64(0), rows[2].Clicks) // junk coerces to 0
	assert.Equal(t, float64(0), rows[2].Revenue)
	assert.Equal(t, 250.50, rows[2].Spend)
}

func TestReadDeliveryRowsSynonymHeaders(t *testing.T) {
	csvData := `Campaign Name,Day,Imps,Total Clicks,Media Cost,Total Revenue,Orders
Spring Sale,2025-06-01,1000,10,100,300,3
`
	rows, err := ReadDeliveryRows(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1000), rows[0].Impressions)
	assert.Equal(t, float64(3), rows[0].Transactions)
}

func TestReadDeliveryRowsRejectsUnusableHeader(t *testing.T) {
	_, err := ReadDeliveryRows(strings.NewReader("foo,bar\n1,2\n"))
	assert.Error(t, err)
}

func TestNormalizeTermsUploadShape(t *testing.T) {
	n := NewNormalizer()

	terms, ok := n.NormalizeTerms(map[string]string{
		"Campaign Name":    "Spring Sale",
		"Total Budget":     "$12,000",
		"CPM":              "4.50",
		"Impressions Goal": "2,000,000",
		"Start Date":       "06/01/2025",
		"End Date":         "2025-06-30",
	})
	require.True(t, ok)
	assert.Equal(t, "Spring Sale", terms.CampaignName)
	assert.Equal(t, float64(12000), terms.Budget)
	assert.Equal(t, 4.5, terms.CPM)
	assert.Equal(t, float64(2000000), terms.ImpressionsGoal)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), terms.StartDate)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), terms.EndDate)
}

func TestNormalizeTermsDatabaseShape(t *testing.T) {
	n := NewNormalizer()

	terms, ok := n.NormalizeTerms(map[string]string{
		"NAME":   "Summer Push",
		"BUDGET": "5000",
	})
	require.True(t, ok)
	assert.Equal(t, "Summer Push", terms.CampaignName)
	assert.Equal(t, float64(5000), terms.Budget)
}

func TestNormalizeTermsBudgetHeuristic(t *testing.T) {
	n := NewNormalizer()

	// No recognized budget column; the only unclaimed numeric in the
	// plausible range wins.
	terms, ok := n.NormalizeTerms(map[string]string{
		"Campaign":        "Spring Sale",
		"Spend Committed": "$45,000",
		"Notes":           "renewal",
	})
	require.True(t, ok)
	assert.Equal(t, float64(45000), terms.Budget)
}

func TestNormalizeTermsMissingBudgetDefaultsZero(t *testing.T) {
	n := NewNormalizer()

	terms, ok := n.NormalizeTerms(map[string]string{
		"Campaign": "Spring Sale",
		"Notes":    "no numbers here",
	})
	require.True(t, ok)
	assert.Equal(t, float64(0), terms.Budget)
}

func TestNormalizeTermsNoNameIsUnusable(t *testing.T) {
	n := NewNormalizer()
	_, ok := n.NormalizeTerms(map[string]string{"Budget": "5000"})
	assert.False(t, ok)
}

func TestReadContractTerms(t *testing.T) {
	csvData := `Campaign Name,Total Budget,Impressions Goal,Start Date,End Date
Spring Sale,"$12,000","2,000,000",2025-06-01,2025-06-30
,"$5,000",,,
Summer Push,,500000,2025-07-01,2025-07-31
`
	n := NewNormalizer()
	terms, err := n.ReadContractTerms(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, terms, 2) // nameless row dropped

	assert.Equal(t, "Spring Sale", terms[0].CampaignName)
	assert.Equal(t, float64(12000), terms[0].Budget)
	assert.Equal(t, "Summer Push", terms[1].CampaignName)
	// Goal 500000 sits inside the plausible budget range but the goal
	// column claims it first; budget stays 0.
	assert.Equal(t, float64(500000), terms[1].ImpressionsGoal)
	assert.Equal(t, float64(0), terms[1].Budget)
}
