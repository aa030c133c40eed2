package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pulsegrid/campaign-pulse/internal/config"
	"github.com/pulsegrid/campaign-pulse/internal/database"
	"github.com/pulsegrid/campaign-pulse/internal/ingest"
	"github.com/pulsegrid/campaign-pulse/internal/metrics"
	"github.com/pulsegrid/campaign-pulse/internal/middleware"
	"github.com/pulsegrid/campaign-pulse/internal/models"
	"github.com/pulsegrid/campaign-pulse/internal/pacing"
	"github.com/pulsegrid/campaign-pulse/internal/scoring"
	"github.com/pulsegrid/campaign-pulse/internal/storage"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	DB         *database.PostgresDB
	Redis      *database.RedisDB
	ClickHouse *database.ClickHouseDB
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server wires storage, the scoring engine and the ingest adapter behind
// the HTTP API.
type Server struct {
	rows       storage.DeliveryStore
	terms      storage.ContractTermsRepo
	cache      *storage.HealthCache
	engine     *scoring.Engine
	normalizer *ingest.Normalizer
	logger     *zap.Logger
	config     *config.Config
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewServer constructs the full http.Handler with routes and middleware.
func NewServer(deps *Dependencies) http.Handler {
	s := newServer(deps)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Ingest
	mux.HandleFunc("/api/rows", s.handleIngestRows)
	mux.HandleFunc("/api/contract-terms", s.handleContractTerms)

	// Scoring
	mux.HandleFunc("/api/campaigns", s.handleCampaigns)
	mux.HandleFunc("/api/campaigns/", s.handleCampaignSubtree)
	mux.HandleFunc("/api/health-report", s.handleHealthReport)

	var handler http.Handler = mux

	auth := middleware.NewAuthMiddleware(deps.Config.Auth, deps.Logger)
	handler = auth.Handler(handler)

	ratelimit := middleware.NewRateLimitMiddleware(deps.Config.RateLimit, deps.Logger)
	ratelimit.SetMetrics(deps.Metrics)
	handler = ratelimit.Handler(handler)

	logging := middleware.NewLoggingMiddleware(deps.Logger)
	handler = logging.Handler(handler)

	recovery := middleware.NewRecoveryMiddleware(deps.Logger)
	return recovery.Handler(handler)
}

// newServer builds the Server with storage backends chosen from what is
// actually connected. ClickHouse wins for rows when enabled, then
// PostgreSQL, then in-memory; contract terms live in PostgreSQL or memory.
func newServer(deps *Dependencies) *Server {
	var rows storage.DeliveryStore
	switch {
	case deps.ClickHouse != nil:
		rows = storage.NewClickHouseDeliveryStore(deps.ClickHouse.Conn)
	case deps.DB != nil:
		rows = storage.NewPostgresDeliveryStore(deps.DB.Pool)
	default:
		rows = storage.NewInMemoryDeliveryStore()
	}

	var terms storage.ContractTermsRepo
	if deps.DB != nil {
		terms = storage.NewPostgresContractTermsRepo(deps.DB.Pool)
	} else {
		terms = storage.NewInMemoryContractTermsRepo()
	}

	var cache *storage.HealthCache
	if deps.Redis != nil && deps.Config.Cache.Enabled {
		cache = storage.NewHealthCache(deps.Redis.Client, deps.Config.Cache.TTL)
	}

	scoringCfg := scoring.DefaultConfig()
	scoringCfg.CTRBenchmark = deps.Config.Scoring.CTRBenchmark
	scoringCfg.ExpectedHeadroom = deps.Config.Scoring.ExpectedHeadroom

	return &Server{
		rows:       rows,
		terms:      terms,
		cache:      cache,
		engine:     scoring.NewEngine(scoringCfg, deps.Logger),
		normalizer: ingest.NewNormalizer(),
		logger:     deps.Logger,
		config:     deps.Config,
		metrics:    deps.Metrics,
		now:        time.Now,
	}
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Ingest ----

func isJSONRequest(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "json")
}

func (s *Server) handleIngestRows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var rows []models.DeliveryRow
	var err error
	format := "csv"

	if isJSONRequest(r) {
		format = "json"
		if err = json.NewDecoder(r.Body).Decode(&rows); err == nil {
			kept := rows[:0]
			for _, row := range rows {
				if row.Validate() == nil {
					kept = append(kept, row)
				}
			}
			rows = kept
		}
	} else {
		rows, err = ingest.ReadDeliveryRows(r.Body)
	}
	if err != nil {
		s.recordIngestError("parse")
		s.errorResponse(w, "failed to parse rows: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		s.recordIngestError("empty")
		s.errorResponse(w, "no usable rows", http.StatusBadRequest)
		return
	}

	if err := s.rows.InsertRows(r.Context(), rows); err != nil {
		s.logger.Error("failed to insert rows", zap.Error(err))
		s.recordIngestError("store")
		s.errorResponse(w, "failed to store rows", http.StatusInternalServerError)
		return
	}

	s.invalidateCampaigns(r, distinctCampaigns(rows))

	if s.metrics != nil {
		s.metrics.RecordRowsIngested(format, len(rows))
		if names, err := s.rows.ListCampaigns(r.Context()); err == nil {
			s.metrics.UpdateKnownCampaigns(len(names))
		}
	}

	s.logger.Info("delivery rows ingested",
		zap.Int("rows", len(rows)),
		zap.String("format", format),
	)
	s.jsonResponse(w, map[string]int{"accepted": len(rows)})
}

func (s *Server) handleContractTerms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var terms []models.ContractTerms
	if isJSONRequest(r) {
		var records []map[string]string
		if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
			s.recordIngestError("parse")
			s.errorResponse(w, "invalid json", http.StatusBadRequest)
			return
		}
		for _, record := range records {
			if t, ok := s.normalizer.NormalizeTerms(record); ok {
				terms = append(terms, t)
			}
		}
	} else {
		parsed, err := s.normalizer.ReadContractTerms(r.Body)
		if err != nil {
			s.recordIngestError("parse")
			s.errorResponse(w, "failed to parse terms: "+err.Error(), http.StatusBadRequest)
			return
		}
		terms = parsed
	}
	if len(terms) == 0 {
		s.recordIngestError("empty")
		s.errorResponse(w, "no usable contract terms", http.StatusBadRequest)
		return
	}

	if err := s.terms.UpsertTerms(r.Context(), terms); err != nil {
		s.logger.Error("failed to upsert contract terms", zap.Error(err))
		s.recordIngestError("store")
		s.errorResponse(w, "failed to store terms", http.StatusInternalServerError)
		return
	}

	names := make([]string, 0, len(terms))
	for _, t := range terms {
		names = append(names, t.CampaignName)
	}
	s.invalidateCampaigns(r, names)

	if s.metrics != nil {
		s.metrics.RecordTermsUpserted(len(terms))
	}

	s.logger.Info("contract terms upserted", zap.Int("terms", len(terms)))
	s.jsonResponse(w, map[string]int{"accepted": len(terms)})
}

// ---- Scoring ----

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names, err := s.rows.ListCampaigns(r.Context())
	if err != nil {
		s.logger.Error("failed to list campaigns", zap.Error(err))
		s.errorResponse(w, "failed to list campaigns", http.StatusInternalServerError)
		return
	}
	sort.Strings(names)
	s.jsonResponse(w, names)
}

// handleCampaignSubtree serves GET /api/campaigns/{name}/health.
func (s *Server) handleCampaignSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/campaigns/")
	if !strings.HasSuffix(rest, "/health") {
		http.NotFound(w, r)
		return
	}
	name, err := url.PathUnescape(strings.TrimSuffix(rest, "/health"))
	if err != nil || name == "" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	if s.cache != nil {
		if result, ok := s.cache.Get(r.Context(), name); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit("health", time.Since(start))
			}
			s.jsonResponse(w, result)
			return
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("health")
		}
	}

	rows, err := s.rows.ListRowsByCampaign(r.Context(), name)
	if err != nil {
		s.logger.Error("failed to load rows", zap.Error(err), zap.String("campaign", name))
		s.errorResponse(w, "failed to load rows", http.StatusInternalServerError)
		return
	}
	terms, err := s.terms.ListTerms(r.Context())
	if err != nil {
		s.logger.Error("failed to load contract terms", zap.Error(err))
		s.errorResponse(w, "failed to load contract terms", http.StatusInternalServerError)
		return
	}

	result := s.computeHealth(name, rows, terms, start)

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), result); err != nil {
			s.logger.Warn("failed to cache health result", zap.Error(err))
		}
	}
	s.jsonResponse(w, result)
}

func (s *Server) handleHealthReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names, err := s.rows.ListCampaigns(r.Context())
	if err != nil {
		s.errorResponse(w, "failed to list campaigns", http.StatusInternalServerError)
		return
	}
	rows, err := s.rows.ListRows(r.Context())
	if err != nil {
		s.errorResponse(w, "failed to load rows", http.StatusInternalServerError)
		return
	}
	terms, err := s.terms.ListTerms(r.Context())
	if err != nil {
		s.errorResponse(w, "failed to load contract terms", http.StatusInternalServerError)
		return
	}

	report := make([]models.CampaignHealthResult, 0, len(names))
	for _, name := range names {
		report = append(report, s.computeHealth(name, rows, terms, time.Now()))
	}

	// Worst campaigns first; that is what the dashboard triages.
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].HealthScore < report[j].HealthScore
	})
	s.jsonResponse(w, report)
}

// computeHealth runs the pacing calculator and the scoring engine for one
// campaign and records the outcome.
func (s *Server) computeHealth(name string, rows []models.DeliveryRow, terms []models.ContractTerms, start time.Time) models.CampaignHealthResult {
	var pm *models.PacingMetrics
	if term, ok := scoring.ResolveTerms(terms, name); ok {
		pm = pacingSnapshot(term, rows, name, s.now())
	} else if s.metrics != nil {
		s.metrics.RecordUnmatchedTerms(name)
	}

	result := s.engine.CalculateCampaignHealth(rows, name, terms, pm)

	if s.metrics != nil {
		s.metrics.RecordHealthComputation(
			result.CampaignName,
			string(result.BurnRateData.Confidence),
			string(result.Status),
			result.HealthScore,
			time.Since(start),
		)
		s.metrics.RecordOverspend(result.CampaignName, result.Overspend)
	}
	return result
}

// pacingSnapshot feeds delivered-to-date impressions into the flight
// calculator. Summary rows stay out of the sum.
func pacingSnapshot(term models.ContractTerms, rows []models.DeliveryRow, name string, now time.Time) *models.PacingMetrics {
	var actual float64
	for _, r := range rows {
		if r.IsTotals() {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(r.CampaignName), strings.TrimSpace(name)) {
			actual += r.Impressions
		}
	}
	return pacing.Compute(term, actual, now)
}

func (s *Server) invalidateCampaigns(r *http.Request, names []string) {
	if s.cache == nil || len(names) == 0 {
		return
	}
	if err := s.cache.Invalidate(r.Context(), names...); err != nil {
		s.logger.Warn("failed to invalidate health cache", zap.Error(err))
	}
}

func (s *Server) recordIngestError(reason string) {
	if s.metrics != nil {
		s.metrics.RecordIngestError(reason)
	}
}

func distinctCampaigns(rows []models.DeliveryRow) []string {
	seen := make(map[string]bool, len(rows))
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.CampaignName))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, r.CampaignName)
	}
	return names
}

// ---- Helper Methods ----

func (s *Server) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
