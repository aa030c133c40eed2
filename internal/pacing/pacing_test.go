package pacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func terms(start, end time.Time, goal float64) models.ContractTerms {
	return models.ContractTerms{
		CampaignName:    "Spring Sale",
		StartDate:       start,
		EndDate:         end,
		ImpressionsGoal: goal,
	}
}

func TestComputeMidFlight(t *testing.T) {
	// 30-day flight, observed on day 10.
	tm := terms(date(2025, 6, 1), date(2025, 6, 30), 3_000_000)
	pm := Compute(tm, 1_000_000, date(2025, 6, 10))
	require.NotNil(t, pm)

	assert.Equal(t, float64(10), pm.DaysIntoFlight)
	assert.Equal(t, float64(20), pm.DaysLeft)
	// Expected to date: 3M * 10/30 = 1M, delivered exactly that.
	assert.InDelta(t, 1.0, pm.CurrentPacing, 1e-9)
}

func TestComputeBeforeFlight(t *testing.T) {
	tm := terms(date(2025, 6, 10), date(2025, 6, 30), 1000)
	pm := Compute(tm, 0, date(2025, 6, 1))
	require.NotNil(t, pm)

	assert.Equal(t, float64(0), pm.DaysIntoFlight)
	assert.Equal(t, float64(29), pm.DaysLeft)
	assert.Equal(t, float64(0), pm.CurrentPacing)
}

func TestComputeAfterFlight(t *testing.T) {
	tm := terms(date(2025, 6, 1), date(2025, 6, 10), 1000)
	pm := Compute(tm, 1000, date(2025, 6, 15))
	require.NotNil(t, pm)

	assert.Equal(t, float64(10), pm.DaysIntoFlight) // capped at flight length
	assert.Equal(t, float64(-5), pm.DaysLeft)
}

func TestComputeRequiresFlightDates(t *testing.T) {
	assert.Nil(t, Compute(models.ContractTerms{CampaignName: "X"}, 0, date(2025, 6, 1)))
	assert.Nil(t, Compute(terms(date(2025, 6, 10), date(2025, 6, 1), 0), 0, date(2025, 6, 5)))
}

func TestComputeNoGoalNoPacingRatio(t *testing.T) {
	tm := terms(date(2025, 6, 1), date(2025, 6, 30), 0)
	pm := Compute(tm, 500, date(2025, 6, 10))
	require.NotNil(t, pm)
	assert.Equal(t, float64(0), pm.CurrentPacing)
}
