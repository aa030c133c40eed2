package scoring

import (
	"strings"

	"github.com/pulsegrid/campaign-pulse/internal/models"
)

// normalizeName lowercases a campaign name and strips everything but
// letters and digits, so "Q3 - Brand_Awareness" and "q3 brand awareness"
// compare equal. Upstream systems format the same campaign inconsistently.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveTerms locates the contract record for a campaign. It tries an
// exact case-insensitive match first, then a fuzzy match on normalized
// substrings in either direction. A miss is not an error: the caller
// proceeds with zero budget and the overspend score degrades to 0.
func ResolveTerms(terms []models.ContractTerms, campaignName string) (models.ContractTerms, bool) {
	want := strings.TrimSpace(campaignName)
	for _, t := range terms {
		if strings.EqualFold(strings.TrimSpace(t.CampaignName), want) {
			return t, true
		}
	}

	norm := normalizeName(want)
	if norm == "" {
		return models.ContractTerms{}, false
	}
	for _, t := range terms {
		candidate := normalizeName(t.CampaignName)
		if candidate == "" {
			continue
		}
		if strings.Contains(candidate, norm) || strings.Contains(norm, candidate) {
			return t, true
		}
	}
	return models.ContractTerms{}, false
}

// Completion resolves flight completion percentage from pacing-derived day
// counts. A flight with zero days left but real elapsed days is forced to
// 100 even when the pacing feed lags; two zeros mean unknown, not "just
// started".
func Completion(daysIntoFlight, daysLeft float64) float64 {
	if daysLeft == 0 && daysIntoFlight > 1 {
		return 100
	}
	total := daysIntoFlight + daysLeft
	if total <= 0 {
		return 0
	}
	pct := daysIntoFlight / total * 100
	if pct > 100 {
		return 100
	}
	return pct
}
