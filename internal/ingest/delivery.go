package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// Column synonym tables for delivery exports. Matching is case-insensitive
// on the trimmed header cell; first hit wins.
var (
	campaignColumns     = []string{"CAMPAIGN ORDER NAME", "CAMPAIGN NAME", "CAMPAIGN", "ORDER NAME", "NAME"}
	dateColumns         = []string{"DATE", "DAY", "REPORT DATE"}
	impressionsColumns  = []string{"IMPRESSIONS", "IMPS", "DELIVERED IMPRESSIONS"}
	clicksColumns       = []string{"CLICKS", "TOTAL CLICKS"}
	spendColumns        = []string{"SPEND", "COST", "MEDIA COST", "MEDIA SPEND"}
	revenueColumns      = []string{"REVENUE", "ATTRIBUTED REVENUE", "TOTAL REVENUE"}
	transactionsColumns = []string{"TRANSACTIONS", "ORDERS", "CONVERSIONS"}
)

// columnIndex finds the position of the first matching synonym, or -1.
func columnIndex(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// ReadDeliveryRows parses a delivery CSV export into canonical rows. The
// header row decides column positions via the synonym tables; a file
// without recognizable campaign and date columns is rejected, everything
// else coerces leniently. Rows with an empty campaign name are skipped,
// "Totals" summary rows are kept as-is — exclusion is the scoring engine's
// job, not the reader's.
func ReadDeliveryRows(r io.Reader) ([]models.DeliveryRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	campaignIdx := columnIndex(header, campaignColumns)
	dateIdx := columnIndex(header, dateColumns)
	if campaignIdx < 0 || dateIdx < 0 {
		return nil, fmt.Errorf("no campaign/date columns in header %v", header)
	}
	impsIdx := columnIndex(header, impressionsColumns)
	clicksIdx := columnIndex(header, clicksColumns)
	spendIdx := columnIndex(header, spendColumns)
	revenueIdx := columnIndex(header, revenueColumns)
	txIdx := columnIndex(header, transactionsColumns)

	var rows []models.DeliveryRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		name := strings.TrimSpace(cell(record, campaignIdx))
		if name == "" {
			continue
		}
		rows = append(rows, models.DeliveryRow{
			CampaignName: name,
			Date:         strings.TrimSpace(cell(record, dateIdx)),
			Impressions:  Number(cell(record, impsIdx)),
			Clicks:       Number(cell(record, clicksIdx)),
			Spend:        Number(cell(record, spendIdx)),
			Revenue:      Number(cell(record, revenueIdx)),
			Transactions: Number(cell(record, txIdx)),
		})
	}
	return rows, nil
}
