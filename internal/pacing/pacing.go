// Package pacing derives flight-progress metrics from contract terms and
// delivered totals. It is the projection collaborator the health engine
// consumes; campaigns without usable flight dates simply get no metrics
// and the engine degrades on its own.
package pacing

import (
	"math"
	"time"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

const day = 24 * time.Hour

// Compute returns the flight snapshot for a campaign as of now. Both
// flight dates are required; nil means no projection is possible.
// DaysLeft goes negative once the flight has ended, which is how the
// engine knows an overspend projection is no longer meaningful.
func Compute(terms models.ContractTerms, actualImpressions float64, now time.Time) *models.PacingMetrics {
	if terms.StartDate.IsZero() || terms.EndDate.IsZero() || terms.EndDate.Before(terms.StartDate) {
		return nil
	}

	totalDays := terms.EndDate.Sub(terms.StartDate).Hours()/24 + 1

	daysInto := math.Floor(now.Sub(terms.StartDate).Hours()/24) + 1
	if daysInto < 0 {
		daysInto = 0
	}
	if daysInto > totalDays {
		daysInto = totalDays
	}

	daysLeft := math.Ceil(terms.EndDate.Sub(now).Hours() / 24)

	pm := &models.PacingMetrics{
		CampaignName:   terms.CampaignName,
		DaysIntoFlight: daysInto,
		DaysLeft:       daysLeft,
	}

	// Pacing ratio against the goal prorated to elapsed flight.
	if terms.ImpressionsGoal > 0 && totalDays > 0 && daysInto > 0 {
		expectedToDate := terms.ImpressionsGoal * daysInto / totalDays
		if expectedToDate > 0 {
			pm.CurrentPacing = actualImpressions / expectedToDate
		}
	}
	return pm
}
