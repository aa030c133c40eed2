package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// PostgresDeliveryStore implements DeliveryStore using PostgreSQL.
type PostgresDeliveryStore struct {
	pool *pgxpool.Pool
}

func NewPostgresDeliveryStore(pool *pgxpool.Pool) *PostgresDeliveryStore {
	return &PostgresDeliveryStore{pool: pool}
}

func (s *PostgresDeliveryStore) InsertRows(ctx context.Context, rows []models.DeliveryRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO delivery_rows (campaign_name, date, impressions, clicks, spend, revenue, transactions)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, r.CampaignName, r.Date, r.Impressions, r.Clicks, r.Spend, r.Revenue, r.Transactions)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert delivery rows: %w", err)
		}
	}
	return nil
}

func (s *PostgresDeliveryStore) ListRows(ctx context.Context) ([]models.DeliveryRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT campaign_name, date, impressions, clicks, spend, revenue, transactions
		FROM delivery_rows ORDER BY campaign_name, date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery rows: %w", err)
	}
	defer rows.Close()
	return scanDeliveryRows(rows)
}

func (s *PostgresDeliveryStore) ListRowsByCampaign(ctx context.Context, campaignName string) ([]models.DeliveryRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT campaign_name, date, impressions, clicks, spend, revenue, transactions
		FROM delivery_rows WHERE lower(campaign_name) = lower($1) ORDER BY date
	`, campaignName)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign rows: %w", err)
	}
	defer rows.Close()
	return scanDeliveryRows(rows)
}

func (s *PostgresDeliveryStore) ListCampaigns(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT campaign_name FROM delivery_rows ORDER BY campaign_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanDeliveryRows(rows pgx.Rows) ([]models.DeliveryRow, error) {
	var out []models.DeliveryRow
	for rows.Next() {
		var r models.DeliveryRow
		if err := rows.Scan(&r.CampaignName, &r.Date, &r.Impressions, &r.Clicks, &r.Spend, &r.Revenue, &r.Transactions); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PostgresContractTermsRepo implements ContractTermsRepo using PostgreSQL.
type PostgresContractTermsRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresContractTermsRepo(pool *pgxpool.Pool) *PostgresContractTermsRepo {
	return &PostgresContractTermsRepo{pool: pool}
}

func (r *PostgresContractTermsRepo) UpsertTerms(ctx context.Context, terms []models.ContractTerms) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range terms {
		if t.CampaignName == "" {
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO contract_terms (campaign_name, start_date, end_date, budget, cpm, impressions_goal)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (campaign_name) DO UPDATE SET
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				budget = EXCLUDED.budget,
				cpm = EXCLUDED.cpm,
				impressions_goal = EXCLUDED.impressions_goal
		`, t.CampaignName, t.StartDate, t.EndDate, t.Budget, t.CPM, t.ImpressionsGoal)
		if err != nil {
			return fmt.Errorf("failed to upsert contract terms: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresContractTermsRepo) ListTerms(ctx context.Context) ([]models.ContractTerms, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT campaign_name, start_date, end_date, budget, cpm, impressions_goal
		FROM contract_terms ORDER BY campaign_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contract terms: %w", err)
	}
	defer rows.Close()

	var out []models.ContractTerms
	for rows.Next() {
		var t models.ContractTerms
		if err := rows.Scan(&t.CampaignName, &t.StartDate, &t.EndDate, &t.Budget, &t.CPM, &t.ImpressionsGoal); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
