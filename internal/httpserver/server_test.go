package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulsegrid/campaign-pulse/internal/config"
	"github.com/pulsegrid/campaign-pulse/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth:      config.AuthConfig{Enabled: false},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Metrics:   config.MetricsConfig{Enabled: false},
		Cache:     config.CacheConfig{Enabled: false},
		Scoring: config.ScoringConfig{
			CTRBenchmark:     0.5,
			ExpectedHeadroom: 1.1,
		},
	}
}

func testHandler(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	return NewServer(&Dependencies{
		Config: cfg,
		Logger: zap.NewNop(),
	})
}

const deliveryCSV = `Campaign Order Name,Date,Impressions,Clicks,Spend,Revenue
Spring Sale,2025-06-01,1000,10,"$100.00",300
Spring Sale,2025-06-02,1200,12,"$120.00",360
Spring Sale,Totals,2200,22,"$220.00",660
`

func TestIngestAndHealthFlow(t *testing.T) {
	handler := testHandler(t, testConfig())

	// Ingest a CSV export.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rows", strings.NewReader(deliveryCSV))
	req.Header.Set("Content-Type", "text/csv")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var accepted map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, 3, accepted["accepted"]) // summary row stored, excluded at scoring time

	// Contract terms as JSON records with freeform keys.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/contract-terms",
		strings.NewReader(`[{"Campaign Name":"Spring Sale","Total Budget":"$10,000","CPM":"5.00"}]`))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Campaign listing.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"Spring Sale"}, names)

	// Health for one campaign.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/Spring%20Sale/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.CampaignHealthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Spring Sale", result.CampaignName)
	assert.Equal(t, 2, result.Totals.Rows)
	assert.InDelta(t, 2200, result.Totals.Impressions, 0.001)
	assert.InDelta(t, 3.0, result.Totals.ROAS, 0.001)
	assert.InDelta(t, 10000, result.Budget, 0.001)
	assert.Greater(t, result.HealthScore, 0.0)
	assert.NotEqual(t, models.StatusNoData, result.Status)
}

func TestHealthReportWorstFirst(t *testing.T) {
	handler := testHandler(t, testConfig())

	csv := "Campaign,Date,Impressions,Clicks,Spend,Revenue\n" +
		"Good,2025-06-01,1000,15,100,500\n" +
		"Bad,2025-06-01,1000,1,100,10\n"
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rows", strings.NewReader(csv))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health-report", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report []models.CampaignHealthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report, 2)
	assert.Equal(t, "Bad", report[0].CampaignName)
	assert.LessOrEqual(t, report[0].HealthScore, report[1].HealthScore)
}

func TestUnknownCampaignReportsNoData(t *testing.T) {
	handler := testHandler(t, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/nobody/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.CampaignHealthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, models.StatusNoData, result.Status)
	assert.Zero(t, result.HealthScore)
}

func TestIngestRejectsGarbage(t *testing.T) {
	handler := testHandler(t, testConfig())

	// Header without campaign/date columns.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rows", strings.NewReader("a,b\n1,2\n"))
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rows", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestIngestJSONRows(t *testing.T) {
	handler := testHandler(t, testConfig())

	body := `[
		{"campaign_name":"Fall Promo","date":"2025-09-01","impressions":500,"clicks":5,"spend":50,"revenue":100},
		{"campaign_name":"","date":"2025-09-01","impressions":10}
	]`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rows", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var accepted map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, 1, accepted["accepted"]) // nameless row dropped
}

func TestAuthRequiredWhenEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.AuthConfig{
		Enabled:   true,
		MasterKey: "secret-key",
		SkipPaths: []string{"/health"},
	}
	handler := testHandler(t, cfg)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	req.Header.Set("X-API-Key", "secret-key")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Skip paths stay open.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFlightAwareHealthUsesPacing(t *testing.T) {
	handler := testHandler(t, testConfig())

	// Ten days of steady delivery inside a live 20-day flight.
	var b strings.Builder
	b.WriteString("Campaign,Date,Impressions,Clicks,Spend,Revenue\n")
	for i := 0; i < 10; i++ {
		day := time.Now().AddDate(0, 0, -9+i).Format("2006-01-02")
		b.WriteString("Steady," + day + ",1000,10,100,300\n")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rows", strings.NewReader(b.String())))
	require.Equal(t, http.StatusOK, rec.Code)

	start := time.Now().AddDate(0, 0, -9).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	termsJSON := `[{"Name":"Steady","Budget":"4000","Start Date":"` + start + `","End Date":"` + end + `","Impressions Goal":"20000"}]`
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contract-terms", strings.NewReader(termsJSON))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns/Steady/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.CampaignHealthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Greater(t, result.DaysLeft, 0.0)
	assert.Greater(t, result.CompletionPercentage, 0.0)
	assert.Greater(t, result.RequiredDailyImpressions, 0.0)
	assert.Equal(t, models.ConfidenceSevenDay, result.BurnRateData.Confidence)
}
