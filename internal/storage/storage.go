package storage

import (
	"context"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// DeliveryStore persists daily delivery rows. Implementations: in-memory
// (tests/dev), PostgreSQL and ClickHouse.
type DeliveryStore interface {
	// InsertRows appends a batch of delivery rows.
	InsertRows(ctx context.Context, rows []models.DeliveryRow) error

	// ListRows returns every stored row.
	ListRows(ctx context.Context) ([]models.DeliveryRow, error)

	// ListRowsByCampaign returns rows for one campaign, summary rows
	// included; filtering them is scoring policy.
	ListRowsByCampaign(ctx context.Context, campaignName string) ([]models.DeliveryRow, error)

	// ListCampaigns returns the distinct campaign names present.
	ListCampaigns(ctx context.Context) ([]string, error)
}

// ContractTermsRepo persists canonical contract-terms records keyed by
// campaign name.
type ContractTermsRepo interface {
	UpsertTerms(ctx context.Context, terms []models.ContractTerms) error
	ListTerms(ctx context.Context) ([]models.ContractTerms, error)
}
