package scoring

// Weights are the fixed contributions of each sub-score to the composite
// health score. They must sum to 1.0.
type Weights struct {
	ROAS           float64 `json:"roas"`
	DeliveryPacing float64 `json:"delivery_pacing"`
	BurnRate       float64 `json:"burn_rate"`
	CTR            float64 `json:"ctr"`
	Overspend      float64 `json:"overspend"`
}

// Sum returns the total of all five weights.
func (w Weights) Sum() float64 {
	return w.ROAS + w.DeliveryPacing + w.BurnRate + w.CTR + w.Overspend
}

// Config collects every policy constant of the health engine: banding
// thresholds, the CTR benchmark, anomaly damping multipliers and the
// expected-delivery headroom. The bands encode product policy and are
// deliberately step functions — no interpolation between them.
type Config struct {
	Weights Weights

	// CTRBenchmark is the reference click-through rate in percent.
	CTRBenchmark float64

	// CTRDeviationBand is the relative deviation from the benchmark that
	// still counts as "on benchmark".
	CTRDeviationBand float64

	// ExpectedHeadroom is the multiplier applied to actual impressions to
	// synthesize an expected-delivery target when no impressions goal is
	// known. 1.1 assumes a 10% headroom target.
	ExpectedHeadroom float64

	// SpendAnomalyFactor discards a multi-day trailing spend average when
	// it deviates from the overall average by more than this many times
	// the overall average. SpendAnomalyFactorOneDay is the looser bound
	// applied to the single-day window.
	SpendAnomalyFactor       float64
	SpendAnomalyFactorOneDay float64

	// SpendCapFactor clamps the selected daily spend rate to this multiple
	// of the overall average, so a single spike cannot corrupt the
	// overspend projection.
	SpendCapFactor float64

	// PlausibleBudgetMin/Max bound the last-resort budget heuristic used
	// by the ingest normalizer when no recognized budget column exists.
	PlausibleBudgetMin float64
	PlausibleBudgetMax float64
}

// DefaultConfig returns the production banding policy.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			ROAS:           0.40,
			DeliveryPacing: 0.30,
			BurnRate:       0.15,
			CTR:            0.10,
			Overspend:      0.05,
		},
		CTRBenchmark:             0.5,
		CTRDeviationBand:         0.10,
		ExpectedHeadroom:         1.1,
		SpendAnomalyFactor:       2.0,
		SpendAnomalyFactorOneDay: 3.0,
		SpendCapFactor:           2.0,
		PlausibleBudgetMin:       100,
		PlausibleBudgetMax:       1_000_000,
	}
}
