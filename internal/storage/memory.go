package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// InMemoryDeliveryStore keeps delivery rows in memory. Used in tests and
// when no database is reachable.
type InMemoryDeliveryStore struct {
	mu   sync.RWMutex
	rows []models.DeliveryRow
}

// NewInMemoryDeliveryStore creates an empty in-memory store.
func NewInMemoryDeliveryStore() *InMemoryDeliveryStore {
	return &InMemoryDeliveryStore{}
}

func (s *InMemoryDeliveryStore) InsertRows(ctx context.Context, rows []models.DeliveryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *InMemoryDeliveryStore) ListRows(ctx context.Context) ([]models.DeliveryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DeliveryRow, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *InMemoryDeliveryStore) ListRowsByCampaign(ctx context.Context, campaignName string) ([]models.DeliveryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.DeliveryRow
	for _, r := range s.rows {
		if strings.EqualFold(r.CampaignName, campaignName) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryDeliveryStore) ListCampaigns(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]string)
	for _, r := range s.rows {
		key := strings.ToLower(r.CampaignName)
		if _, ok := seen[key]; !ok {
			seen[key] = r.CampaignName
		}
	}
	names := make([]string, 0, len(seen))
	for _, name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// InMemoryContractTermsRepo keeps contract terms in memory keyed by
// lower-cased campaign name.
type InMemoryContractTermsRepo struct {
	mu    sync.RWMutex
	terms map[string]models.ContractTerms
}

// NewInMemoryContractTermsRepo creates an empty in-memory repo.
func NewInMemoryContractTermsRepo() *InMemoryContractTermsRepo {
	return &InMemoryContractTermsRepo{terms: make(map[string]models.ContractTerms)}
}

func (r *InMemoryContractTermsRepo) UpsertTerms(ctx context.Context, terms []models.ContractTerms) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range terms {
		if t.CampaignName == "" {
			continue
		}
		r.terms[strings.ToLower(t.CampaignName)] = t
	}
	return nil
}

func (r *InMemoryContractTermsRepo) ListTerms(ctx context.Context) ([]models.ContractTerms, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.ContractTerms, 0, len(r.terms))
	for _, t := range r.terms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CampaignName < out[j].CampaignName })
	return out, nil
}
