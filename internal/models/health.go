package models

// Confidence labels how much trailing history backed a burn-rate estimate.
type Confidence string

const (
	ConfidenceSevenDay Confidence = "7-day"
	ConfidenceThreeDay Confidence = "3-day"
	ConfidenceOneDay   Confidence = "1-day"
	ConfidenceOverall  Confidence = "overall-average"
	ConfidenceNoData   Confidence = "no-data"

	// CappedSuffix is appended to a spend-burn confidence tag when the
	// selected rate was clamped by the anomaly ceiling.
	CappedSuffix = "-capped"
)

// HealthStatus disambiguates a genuinely unhealthy campaign from one with
// no delivery data at all; both report a numeric health score of 0.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"
	StatusNoData   HealthStatus = "no-data"
)

// CampaignTotals holds summed delivery metrics for a campaign with the
// derived CTR and ROAS rates.
type CampaignTotals struct {
	Rows         int     `json:"rows"`
	Impressions  float64 `json:"impressions"`
	Clicks       float64 `json:"clicks"`
	Spend        float64 `json:"spend"`
	Revenue      float64 `json:"revenue"`
	Transactions float64 `json:"transactions"`
	CTR          float64 `json:"ctr"`  // percent
	ROAS         float64 `json:"roas"` // ratio
}

// BurnRateData holds trailing impression-delivery velocity at each window
// plus the window each rate covers as a fraction of required daily delivery.
type BurnRateData struct {
	OneDayRate         float64    `json:"one_day_rate"`
	ThreeDayRate       float64    `json:"three_day_rate"`
	SevenDayRate       float64    `json:"seven_day_rate"`
	OneDayPercentage   float64    `json:"one_day_percentage"`
	ThreeDayPercentage float64    `json:"three_day_percentage"`
	SevenDayPercentage float64    `json:"seven_day_percentage"`
	Confidence         Confidence `json:"confidence"`
}

// Best returns the impression rate at the highest available confidence
// tier, preferring 7-day over 3-day over 1-day.
func (b BurnRateData) Best() float64 {
	switch {
	case b.SevenDayRate > 0:
		return b.SevenDayRate
	case b.ThreeDayRate > 0:
		return b.ThreeDayRate
	case b.OneDayRate > 0:
		return b.OneDayRate
	}
	return 0
}

// SpendBurnRate is the anomaly-damped daily spend velocity that feeds the
// overspend projection. Confidence carries the "-capped" suffix when the
// rate was clamped.
type SpendBurnRate struct {
	DailyRate         float64 `json:"daily_rate"`
	AverageDailySpend float64 `json:"average_daily_spend"`
	Confidence        string  `json:"confidence"`
	Capped            bool    `json:"capped"`
}

// CampaignHealthResult is the full scoring record for one campaign. It is
// recomputed from scratch on every call; callers read it directly with no
// further transformation.
type CampaignHealthResult struct {
	CampaignName string         `json:"campaign_name"`
	Totals       CampaignTotals `json:"totals"`

	// Sub-scores, each on its documented band scale.
	ROASScore           float64 `json:"roas_score"`
	DeliveryPacingScore float64 `json:"delivery_pacing_score"`
	BurnRateScore       float64 `json:"burn_rate_score"`
	CTRScore            float64 `json:"ctr_score"`
	OverspendScore      float64 `json:"overspend_score"`

	// Composite, 0-10 at one decimal.
	HealthScore float64      `json:"health_score"`
	Status      HealthStatus `json:"status"`

	BurnRateData  BurnRateData  `json:"burn_rate_data"`
	SpendBurnRate SpendBurnRate `json:"spend_burn_rate"`

	// Presentation fields consumed as-is by dashboard cards and tables.
	CompletionPercentage     float64 `json:"completion_percentage"`
	DeliveryPacing           float64 `json:"delivery_pacing"` // actual/expected pct
	RequiredDailyImpressions float64 `json:"required_daily_impressions"`
	BurnRate                 float64 `json:"burn_rate"`            // best-tier impression rate
	BurnRatePercentage       float64 `json:"burn_rate_percentage"` // best rate / required pct
	ProjectedTotalSpend      float64 `json:"projected_total_spend"`
	Overspend                float64 `json:"overspend"` // projected overspend, currency
	Budget                   float64 `json:"budget"`
	DaysLeft                 float64 `json:"days_left"`
}
