package scoring

import (
	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// trailingWindow returns the last n rows, or all rows when fewer exist.
func trailingWindow(rows []models.DeliveryRow, n int) []models.DeliveryRow {
	if len(rows) <= n {
		return rows
	}
	return rows[len(rows)-n:]
}

func meanImpressions(rows []models.DeliveryRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += r.Impressions
	}
	return sum / float64(len(rows))
}

func meanSpend(rows []models.DeliveryRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += r.Spend
	}
	return sum / float64(len(rows))
}

// ImpressionBurnRate computes trailing 1/3/7-day impression velocity from
// the campaign's per-day rows (already sorted ascending, summary rows
// excluded). Each window rate is only computed when enough trailing days
// exist; the confidence tag names the widest window that was available.
// Percentages express each rate against the required daily delivery.
func (c Config) ImpressionBurnRate(rows []models.DeliveryRow, requiredDaily float64) models.BurnRateData {
	window := trailingWindow(rows, 7)

	data := models.BurnRateData{Confidence: models.ConfidenceNoData}
	switch {
	case len(window) >= 7:
		data.Confidence = models.ConfidenceSevenDay
	case len(window) >= 3:
		data.Confidence = models.ConfidenceThreeDay
	case len(window) >= 1:
		data.Confidence = models.ConfidenceOneDay
	}

	if len(window) >= 1 {
		data.OneDayRate = window[len(window)-1].Impressions
	}
	if len(window) >= 3 {
		data.ThreeDayRate = meanImpressions(window[len(window)-3:])
	}
	if len(window) >= 7 {
		data.SevenDayRate = meanImpressions(window)
	}

	if requiredDaily > 0 {
		data.OneDayPercentage = data.OneDayRate / requiredDaily * 100
		data.ThreeDayPercentage = data.ThreeDayRate / requiredDaily * 100
		data.SevenDayPercentage = data.SevenDayRate / requiredDaily * 100
	}
	return data
}

// SpendEstimate is the anomaly-damped daily spend velocity backing the
// overspend projection.
type SpendEstimate struct {
	DailyRate         float64
	AverageDailySpend float64
	Confidence        models.Confidence
	Capped            bool
}

// Tag returns the confidence label with the capped suffix applied.
func (s SpendEstimate) Tag() string {
	tag := string(s.Confidence)
	if s.Capped {
		tag += models.CappedSuffix
	}
	return tag
}

// confidenceMultiplier discounts the overspend score by estimate quality.
func (s SpendEstimate) confidenceMultiplier() float64 {
	var m float64
	switch s.Confidence {
	case models.ConfidenceSevenDay:
		m = 1.0
	case models.ConfidenceOverall:
		m = 0.9
	case models.ConfidenceThreeDay:
		m = 0.8
	case models.ConfidenceOneDay:
		m = 0.6
	default:
		return 0
	}
	if s.Capped {
		m *= 0.7
	}
	return m
}

// SpendBurnRate computes the daily spend velocity for the overspend
// projection. Trailing-window averages are checked against the overall
// average (total spend over days into flight): a window deviating by more
// than the anomaly factor times the overall average is discarded in favor
// of the overall average, which keeps one corrupted reporting day from
// projecting a runaway total. The selected rate is finally clamped at the
// cap factor times the overall average, marking the estimate as capped.
func (c Config) SpendBurnRate(rows []models.DeliveryRow, totalSpend, daysIntoFlight float64) SpendEstimate {
	est := SpendEstimate{Confidence: models.ConfidenceNoData}
	if daysIntoFlight > 0 {
		est.AverageDailySpend = totalSpend / daysIntoFlight
	}

	window := trailingWindow(rows, 7)
	switch {
	case len(window) >= 7:
		est.Confidence = models.ConfidenceSevenDay
		est.DailyRate = c.dampened(meanSpend(window), est.AverageDailySpend, c.SpendAnomalyFactor)
	case len(window) >= 3:
		est.Confidence = models.ConfidenceThreeDay
		est.DailyRate = c.dampened(meanSpend(window[len(window)-3:]), est.AverageDailySpend, c.SpendAnomalyFactor)
	case len(window) >= 1:
		est.Confidence = models.ConfidenceOneDay
		est.DailyRate = c.dampened(window[len(window)-1].Spend, est.AverageDailySpend, c.SpendAnomalyFactorOneDay)
	case est.AverageDailySpend > 0:
		est.Confidence = models.ConfidenceOverall
		est.DailyRate = est.AverageDailySpend
	}

	if est.AverageDailySpend > 0 && est.DailyRate > c.SpendCapFactor*est.AverageDailySpend {
		est.DailyRate = c.SpendCapFactor * est.AverageDailySpend
		est.Capped = true
	}
	return est
}

// dampened falls back to the overall average when the trailing value
// deviates from it by more than factor times the average. A zero average
// (no flight information) leaves the trailing value untouched.
func (c Config) dampened(trailing, average, factor float64) float64 {
	if average <= 0 {
		return trailing
	}
	deviation := trailing - average
	if deviation < 0 {
		deviation = -deviation
	}
	if deviation > factor*average {
		return average
	}
	return trailing
}
