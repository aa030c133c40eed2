package storage

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// ClickHouseDeliveryStore implements DeliveryStore on ClickHouse. Daily
// delivery facts are append-only and read back whole per campaign, which
// is exactly the workload a MergeTree table is built for.
type ClickHouseDeliveryStore struct {
	conn driver.Conn
}

func NewClickHouseDeliveryStore(conn driver.Conn) *ClickHouseDeliveryStore {
	return &ClickHouseDeliveryStore{conn: conn}
}

func (s *ClickHouseDeliveryStore) InsertRows(ctx context.Context, rows []models.DeliveryRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO delivery_rows (campaign_name, date, impressions, clicks, spend, revenue, transactions)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}
	for _, r := range rows {
		if err := batch.Append(r.CampaignName, r.Date, r.Impressions, r.Clicks, r.Spend, r.Revenue, r.Transactions); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

func (s *ClickHouseDeliveryStore) ListRows(ctx context.Context) ([]models.DeliveryRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT campaign_name, date, impressions, clicks, spend, revenue, transactions
		FROM delivery_rows ORDER BY campaign_name, date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery rows: %w", err)
	}
	defer rows.Close()
	return scanClickHouseRows(rows)
}

func (s *ClickHouseDeliveryStore) ListRowsByCampaign(ctx context.Context, campaignName string) ([]models.DeliveryRow, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT campaign_name, date, impressions, clicks, spend, revenue, transactions
		FROM delivery_rows WHERE lowerUTF8(campaign_name) = lowerUTF8(?) ORDER BY date
	`, campaignName)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign rows: %w", err)
	}
	defer rows.Close()
	return scanClickHouseRows(rows)
}

func (s *ClickHouseDeliveryStore) ListCampaigns(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `
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

func scanClickHouseRows(rows driver.Rows) ([]models.DeliveryRow, error) {
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
