package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

func TestROASScoreBands(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		roas float64
		want float64
	}{
		{"excellent at boundary", 4.0, 10},
		{"just under excellent", 3.999, 7.5},
		{"strong", 3.0, 7.5},
		{"good", 2.0, 5},
		{"break even", 1.0, 2.5},
		{"below break even", 0.5, 1},
		{"zero", 0, 0},
		{"negative guard", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ROASScore(tt.roas))
		})
	}
}

func TestDeliveryPacingScoreBands(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		actual   float64
		expected float64
		want     float64
	}{
		{"on pace", 1000, 1000, 10},
		{"lower edge of ideal", 950, 1000, 10},
		{"upper edge of ideal", 1050, 1000, 10},
		{"slightly under", 900, 1000, 8},
		{"slightly over", 1100, 1000, 8},
		{"under delivering", 800, 1000, 6},
		{"over delivering", 1200, 1000, 6},
		{"badly under", 790, 1000, 3},
		{"badly over", 1210, 1000, 3},
		{"no expectation", 1000, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.DeliveryPacingScore(tt.actual, tt.expected))
		})
	}
}

func TestCTRScoreBands(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		ctr  float64
		want float64
	}{
		{"well above benchmark", 1.0, 10},
		{"just above band", 0.56, 10},
		{"at benchmark", 0.5, 8},
		{"within band above", 0.54, 8},
		{"at lower band edge", 0.45, 8},
		{"below band", 0.44, 5},
		{"zero ctr", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.CTRScore(tt.ctr))
		})
	}
}

func TestCTRScoreZeroBenchmark(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CTRBenchmark = 0
	assert.Equal(t, float64(0), cfg.CTRScore(1.0))
}

func TestBurnRateScoreBands(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		rate     float64
		required float64
		want     float64
	}{
		{"on target", 100, 100, 10},
		{"lower ideal edge", 95, 100, 10},
		{"upper ideal edge", 105, 100, 10},
		{"slightly slow", 90, 100, 8},
		{"slightly fast", 110, 100, 8},
		{"way off", 50, 100, 5},
		{"double speed", 200, 100, 5},
		{"no requirement", 100, 0, 0},
		{"no rate", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.BurnRateScore(tt.rate, tt.required))
		})
	}
}

func TestOverspendScoreBands(t *testing.T) {
	cfg := DefaultConfig()
	sevenDay := SpendEstimate{Confidence: models.ConfidenceSevenDay}

	tests := []struct {
		name     string
		pct      float64
		budget   float64
		daysLeft float64
		est      SpendEstimate
		want     float64
	}{
		{"no overspend", 0, 1000, 5, sevenDay, 10},
		{"small overspend", 3, 1000, 5, sevenDay, 8},
		{"moderate overspend", 8, 1000, 5, sevenDay, 6},
		{"large overspend", 15, 1000, 5, sevenDay, 3},
		{"runaway overspend", 25, 1000, 5, sevenDay, 0},
		{"zero budget", 0, 0, 5, sevenDay, 0},
		{"flight already over", 0, 1000, -1, sevenDay, 0},
		{"three day confidence discount", 3, 1000, 5, SpendEstimate{Confidence: models.ConfidenceThreeDay}, 6.4},
		{"one day confidence discount", 0, 1000, 5, SpendEstimate{Confidence: models.ConfidenceOneDay}, 6},
		{"overall average discount", 0, 1000, 5, SpendEstimate{Confidence: models.ConfidenceOverall}, 9},
		{"capped seven day", 0, 1000, 5, SpendEstimate{Confidence: models.ConfidenceSevenDay, Capped: true}, 7},
		{"no confidence at all", 0, 1000, 5, SpendEstimate{Confidence: models.ConfidenceNoData}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.OverspendScore(tt.pct, tt.budget, tt.daysLeft, tt.est))
		})
	}
}

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultConfig().Weights.Sum(), 1e-9)
}
