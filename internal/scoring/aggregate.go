package scoring

import (
	"sort"
	"strings"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// campaignRows returns the per-day rows for the named campaign, excluding
// upstream "Totals" summary rows, sorted ascending by date. Rows whose date
// cannot be parsed keep their input order at the front.
func campaignRows(rows []models.DeliveryRow, campaignName string) []models.DeliveryRow {
	matched := make([]models.DeliveryRow, 0, 16)
	for _, r := range rows {
		if r.IsTotals() {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(r.CampaignName), strings.TrimSpace(campaignName)) {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		di, iok := matched[i].Day()
		dj, jok := matched[j].Day()
		if !iok || !jok {
			return !iok && jok
		}
		return di.Before(dj)
	})
	return matched
}

// Aggregate sums the campaign's per-day rows and derives CTR and ROAS.
// Divisions are guarded: zero impressions yields CTR 0, zero spend yields
// ROAS 0, never NaN or Inf.
func Aggregate(rows []models.DeliveryRow) models.CampaignTotals {
	t := models.CampaignTotals{Rows: len(rows)}
	for _, r := range rows {
		t.Impressions += r.Impressions
		t.Clicks += r.Clicks
		t.Spend += r.Spend
		t.Revenue += r.Revenue
		t.Transactions += r.Transactions
	}
	if t.Impressions > 0 {
		t.CTR = t.Clicks / t.Impressions * 100
	}
	if t.Spend > 0 {
		t.ROAS = t.Revenue / t.Spend
	}
	return t
}
