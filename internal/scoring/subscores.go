package scoring

import "math"

// round1 rounds to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ROASScore maps return-on-ad-spend to a 0-10 band.
func (c Config) ROASScore(roas float64) float64 {
	switch {
	case roas >= 4.0:
		return 10
	case roas >= 3.0:
		return 7.5
	case roas >= 2.0:
		return 5
	case roas >= 1.0:
		return 2.5
	case roas > 0:
		return 1
	}
	return 0
}

// DeliveryPacingScore maps actual vs expected impressions to a 0-10 band.
// An unknown expectation scores 0. Outside [80,120] percent the score floors
// at 3 rather than 0; severely off-pace delivery is still delivery.
func (c Config) DeliveryPacingScore(actualImpressions, expectedImpressions float64) float64 {
	if expectedImpressions <= 0 {
		return 0
	}
	pct := actualImpressions / expectedImpressions * 100
	switch {
	case pct >= 95 && pct <= 105:
		return 10
	case (pct >= 90 && pct < 95) || (pct > 105 && pct <= 110):
		return 8
	case (pct >= 80 && pct < 90) || (pct > 110 && pct <= 120):
		return 6
	}
	return 3
}

// CTRScore scores click-through rate by relative deviation from the
// benchmark. The bands are coarse and asymmetric on purpose: above
// benchmark is a clear win, on benchmark is fine, below is a 5 with no
// middle ground short of the zero guard.
func (c Config) CTRScore(ctr float64) float64 {
	if ctr == 0 || c.CTRBenchmark == 0 {
		return 0
	}
	deviation := (ctr - c.CTRBenchmark) / c.CTRBenchmark
	switch {
	case deviation > c.CTRDeviationBand:
		return 10
	case deviation >= -c.CTRDeviationBand:
		return 8
	}
	return 5
}

// BurnRateScore maps the highest-confidence daily impression rate against
// the required daily rate. No confidence tier or no requirement scores 0.
func (c Config) BurnRateScore(rate, requiredDaily float64) float64 {
	if requiredDaily <= 0 || rate <= 0 {
		return 0
	}
	ratio := rate / requiredDaily
	switch {
	case ratio >= 0.95 && ratio <= 1.05:
		return 10
	case (ratio >= 0.85 && ratio < 0.95) || (ratio > 1.05 && ratio <= 1.15):
		return 8
	}
	return 5
}

// OverspendScore bands the projected overspend percentage and discounts the
// result by how much trailing history backed the spend estimate. A missing
// budget or an already-finished flight makes any projection meaningless and
// scores 0 outright.
func (c Config) OverspendScore(overspendPct float64, budget, daysLeft float64, spend SpendEstimate) float64 {
	if budget <= 0 || daysLeft < 0 {
		return 0
	}
	var base float64
	switch {
	case overspendPct <= 0:
		base = 10
	case overspendPct <= 5:
		base = 8
	case overspendPct <= 10:
		base = 6
	case overspendPct <= 20:
		base = 3
	default:
		base = 0
	}
	return round1(base * spend.confidenceMultiplier())
}
