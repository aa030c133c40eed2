package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// Field synonym tables for contract-terms sources. Upload spreadsheets and
// normalized database rows spell the same field a dozen ways; this table is
// the single place that knowledge lives. The scoring engine only ever sees
// the canonical ContractTerms schema.
var (
	termsNameKeys = []string{
		"Name", "NAME", "Campaign", "CAMPAIGN", "Campaign Name", "CAMPAIGN NAME",
		"Campaign Order Name", "CAMPAIGN ORDER NAME", "Order Name", "IO Name",
	}
	termsBudgetKeys = []string{
		"Budget", "BUDGET", "Total Budget", "TOTAL BUDGET", "Media Budget",
		"Contracted Budget", "IO Budget", "Budget Amount",
	}
	termsStartKeys = []string{
		"Start Date", "START DATE", "Flight Start", "Start", "Campaign Start",
	}
	termsEndKeys = []string{
		"End Date", "END DATE", "Flight End", "End", "Campaign End",
	}
	termsCPMKeys = []string{
		"CPM", "Cpm", "CPM Rate", "Contracted CPM", "Rate",
	}
	termsGoalKeys = []string{
		"Impressions Goal", "IMPRESSIONS GOAL", "Impression Goal",
		"Contracted Impressions", "Impressions Contracted", "Goal",
	}
)

// Normalizer maps freeform contract-terms records onto the canonical
// schema. BudgetMin/BudgetMax bound the last-resort heuristic that accepts
// any unclaimed numeric field as the budget.
type Normalizer struct {
	BudgetMin float64
	BudgetMax float64
}

// NewNormalizer returns a Normalizer with the production plausible-budget
// range.
func NewNormalizer() *Normalizer {
	return &Normalizer{BudgetMin: 100, BudgetMax: 1_000_000}
}

// lookup returns the value of the first candidate key present in the
// record, comparing keys case-insensitively, plus the matched raw key.
func lookup(record map[string]string, candidates []string) (string, string, bool) {
	for _, want := range candidates {
		for k, v := range record {
			if strings.EqualFold(strings.TrimSpace(k), want) && strings.TrimSpace(v) != "" {
				return v, k, true
			}
		}
	}
	return "", "", false
}

// NormalizeTerms converts one raw record (spreadsheet row or database row
// rendered as strings) into canonical ContractTerms. Nothing raises:
// missing or unparseable numerics land as 0 and a missing budget falls
// back to scanning unclaimed fields for a value in the plausible range.
// Only a record with no recognizable campaign name is unusable.
func (n *Normalizer) NormalizeTerms(record map[string]string) (models.ContractTerms, bool) {
	name, nameKey, ok := lookup(record, termsNameKeys)
	if !ok {
		return models.ContractTerms{}, false
	}

	terms := models.ContractTerms{CampaignName: strings.TrimSpace(name)}
	claimed := map[string]bool{nameKey: true}

	if v, k, ok := lookup(record, termsBudgetKeys); ok {
		terms.Budget = Number(v)
		claimed[k] = true
	}
	if v, k, ok := lookup(record, termsCPMKeys); ok {
		terms.CPM = Number(v)
		claimed[k] = true
	}
	if v, k, ok := lookup(record, termsGoalKeys); ok {
		terms.ImpressionsGoal = Number(v)
		claimed[k] = true
	}
	if v, k, ok := lookup(record, termsStartKeys); ok {
		if t, parsed := Date(v); parsed {
			terms.StartDate = t
		}
		claimed[k] = true
	}
	if v, k, ok := lookup(record, termsEndKeys); ok {
		if t, parsed := Date(v); parsed {
			terms.EndDate = t
		}
		claimed[k] = true
	}

	if terms.Budget == 0 {
		terms.Budget = n.guessBudget(record, claimed)
	}
	return terms, true
}

// guessBudget scans unclaimed fields in stable key order for a numeric
// value inside the plausible budget range. Last resort for sheets whose
// budget column defeated the synonym table entirely.
func (n *Normalizer) guessBudget(record map[string]string, claimed map[string]bool) float64 {
	keys := make([]string, 0, len(record))
	for k := range record {
		if !claimed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := Number(record[k])
		if v >= n.BudgetMin && v <= n.BudgetMax {
			return v
		}
	}
	return 0
}

// ReadContractTerms parses a freeform contract-terms CSV (header plus one
// row per campaign) and normalizes every row. Rows without a recognizable
// campaign name are dropped rather than failing the upload.
func (n *Normalizer) ReadContractTerms(r io.Reader) ([]models.ContractTerms, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var out []models.ContractTerms
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(record) {
				row[strings.TrimSpace(h)] = record[i]
			}
		}
		if terms, ok := n.NormalizeTerms(row); ok {
			out = append(out, terms)
		}
	}
	return out, nil
}
