package models

import (
	"errors"
	"strings"
	"time"
)

// TotalsSentinel marks pre-aggregated summary rows injected by upstream
// ingestion. Such rows must never enter per-day math — they would
// double-count the campaign.
const TotalsSentinel = "Totals"

// DeliveryRow is one day of delivery for one campaign, as reported by the
// upstream row provider. Numeric fields are already coerced at the ingest
// boundary; unparseable values arrive as 0.
type DeliveryRow struct {
	CampaignName string  `json:"campaign_name"`
	Date         string  `json:"date"` // YYYY-MM-DD, or TotalsSentinel
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Spend        float64 `json:"spend"`
	Revenue      float64 `json:"revenue"`
	Transactions float64 `json:"transactions"`
}

// IsTotals reports whether the row is an upstream summary row.
func (r DeliveryRow) IsTotals() bool {
	return strings.EqualFold(strings.TrimSpace(r.Date), TotalsSentinel)
}

// Day parses the row date. The boolean is false for summary rows and
// unparseable dates.
func (r DeliveryRow) Day() (time.Time, bool) {
	if r.IsTotals() {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/2006", time.RFC3339} {
		if t, err := time.Parse(layout, strings.TrimSpace(r.Date)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r DeliveryRow) Validate() error {
	if r.CampaignName == "" {
		return errors.New("campaign_name is required")
	}
	if r.Date == "" {
		return errors.New("date is required")
	}
	return nil
}

// ContractTerms is the canonical contract record for a campaign. Upload
// spreadsheets and database rows are normalized into this shape by the
// ingest adapter; absent or unparseable numeric fields arrive as 0.
type ContractTerms struct {
	CampaignName    string    `json:"campaign_name"`
	StartDate       time.Time `json:"start_date,omitempty"`
	EndDate         time.Time `json:"end_date,omitempty"`
	Budget          float64   `json:"budget"`
	CPM             float64   `json:"cpm"`
	ImpressionsGoal float64   `json:"impressions_goal"`
}

func (t ContractTerms) Validate() error {
	if t.CampaignName == "" {
		return errors.New("campaign_name is required")
	}
	return nil
}

// PacingMetrics is the flight-progress snapshot supplied by the pacing
// calculator. It is optional input to the health engine; when absent the
// engine degrades to its zero/unknown fallbacks.
type PacingMetrics struct {
	CampaignName   string  `json:"campaign_name"`
	DaysIntoFlight float64 `json:"days_into_flight"`
	DaysLeft       float64 `json:"days_left"`
	CurrentPacing  float64 `json:"current_pacing"` // ratio, 1.0 = on pace
}
