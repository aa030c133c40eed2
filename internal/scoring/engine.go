package scoring

import (
	"go.uber.org/zap"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// Engine computes campaign health scores. It is stateless and safe for
// concurrent use; every call recomputes the result from scratch from the
// rows and terms it is handed. The logger defaults to a no-op.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

// NewEngine constructs an Engine. A nil logger disables diagnostics.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine's banding policy.
func (e *Engine) Config() Config {
	return e.cfg
}

// noDataResult is the canonical terminal state for a campaign with no
// matching delivery rows. Every score is zero and the confidence tag is the
// only way to tell it apart from a genuinely failing campaign.
func noDataResult(campaignName string) models.CampaignHealthResult {
	return models.CampaignHealthResult{
		CampaignName: campaignName,
		Status:       models.StatusNoData,
		BurnRateData: models.BurnRateData{Confidence: models.ConfidenceNoData},
		SpendBurnRate: models.SpendBurnRate{
			Confidence: string(models.ConfidenceNoData),
		},
	}
}

// CalculateCampaignHealth scores one campaign from its delivery history,
// contract terms and flight-pacing snapshot. Both terms and pacing are
// optional; missing inputs degrade to defined zero states rather than
// erroring. See the package documentation for the banding policy.
func (e *Engine) CalculateCampaignHealth(
	rows []models.DeliveryRow,
	campaignName string,
	terms []models.ContractTerms,
	pacing *models.PacingMetrics,
) models.CampaignHealthResult {
	matched := campaignRows(rows, campaignName)
	if len(matched) == 0 {
		e.logger.Debug("no delivery rows for campaign", zap.String("campaign", campaignName))
		return noDataResult(campaignName)
	}

	totals := Aggregate(matched)

	var daysInto, daysLeft float64
	if pacing != nil {
		daysInto = pacing.DaysIntoFlight
		daysLeft = pacing.DaysLeft
	}

	term, haveTerms := ResolveTerms(terms, campaignName)
	completion := Completion(daysInto, daysLeft)

	expected := e.expectedImpressions(totals.Impressions, term, completion)
	required := e.requiredDailyImpressions(totals.Impressions, term, daysLeft)

	burn := e.cfg.ImpressionBurnRate(matched, required)
	spendEst := e.cfg.SpendBurnRate(matched, totals.Spend, daysInto)

	projected := totals.Spend + spendEst.DailyRate*maxf(0, daysLeft)
	overspendAmt := maxf(0, projected-term.Budget)
	var overspendPct float64
	if term.Budget > 0 {
		overspendPct = overspendAmt / term.Budget * 100
	}

	roasScore := e.cfg.ROASScore(totals.ROAS)
	pacingScore := e.cfg.DeliveryPacingScore(totals.Impressions, expected)
	burnScore := e.cfg.BurnRateScore(burn.Best(), required)
	ctrScore := e.cfg.CTRScore(totals.CTR)
	overspendScore := e.cfg.OverspendScore(overspendPct, term.Budget, daysLeft, spendEst)

	w := e.cfg.Weights
	health := round1(w.ROAS*roasScore +
		w.DeliveryPacing*pacingScore +
		w.BurnRate*burnScore +
		w.CTR*ctrScore +
		w.Overspend*overspendScore)

	var pace float64
	if expected > 0 {
		pace = totals.Impressions / expected * 100
	}
	var burnPct float64
	if required > 0 {
		burnPct = burn.Best() / required * 100
	}

	result := models.CampaignHealthResult{
		CampaignName:        campaignName,
		Totals:              totals,
		ROASScore:           roasScore,
		DeliveryPacingScore: pacingScore,
		BurnRateScore:       burnScore,
		CTRScore:            ctrScore,
		OverspendScore:      overspendScore,
		HealthScore:         health,
		Status:              statusFor(health),
		BurnRateData:        burn,
		SpendBurnRate: models.SpendBurnRate{
			DailyRate:         spendEst.DailyRate,
			AverageDailySpend: spendEst.AverageDailySpend,
			Confidence:        spendEst.Tag(),
			Capped:            spendEst.Capped,
		},
		CompletionPercentage:     completion,
		DeliveryPacing:           pace,
		RequiredDailyImpressions: required,
		BurnRate:                 burn.Best(),
		BurnRatePercentage:       burnPct,
		ProjectedTotalSpend:      projected,
		Overspend:                overspendAmt,
		Budget:                   term.Budget,
		DaysLeft:                 daysLeft,
	}

	e.logger.Debug("computed campaign health",
		zap.String("campaign", campaignName),
		zap.Float64("health_score", health),
		zap.String("burn_confidence", string(burn.Confidence)),
		zap.Bool("have_terms", haveTerms),
	)
	return result
}

// expectedImpressions derives the delivery target for the pacing score.
// With a contracted impressions goal and flight progress the target is the
// goal prorated by completion; without either, the engine assumes delivery
// should sit just under actual by the configured headroom, which is the
// degraded mode for campaigns whose contract never reached us.
func (e *Engine) expectedImpressions(actual float64, term models.ContractTerms, completion float64) float64 {
	if term.ImpressionsGoal > 0 && completion > 0 {
		return term.ImpressionsGoal * completion / 100
	}
	return actual * e.cfg.ExpectedHeadroom
}

// requiredDailyImpressions is the delivery rate needed to finish the goal.
// Preferred: remaining goal spread over the days left. When the pacing feed
// is absent but the contract carries flight dates, the flat goal-per-day
// rate stands in. No goal means no requirement.
func (e *Engine) requiredDailyImpressions(actual float64, term models.ContractTerms, daysLeft float64) float64 {
	if term.ImpressionsGoal <= 0 {
		return 0
	}
	if daysLeft > 0 {
		return maxf(0, term.ImpressionsGoal-actual) / daysLeft
	}
	if !term.StartDate.IsZero() && !term.EndDate.IsZero() {
		flightDays := term.EndDate.Sub(term.StartDate).Hours() / 24
		if flightDays > 0 {
			return term.ImpressionsGoal / flightDays
		}
	}
	return 0
}

// statusFor buckets the composite score for dashboard badges. Only the
// no-data terminal state may report StatusNoData; a computed zero is
// critical, not missing.
func statusFor(health float64) models.HealthStatus {
	switch {
	case health >= 7:
		return models.StatusHealthy
	case health >= 4:
		return models.StatusWarning
	}
	return models.StatusCritical
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
