// Package scoring turns raw daily delivery rows and contract terms into a
// weighted 0-10 campaign health score.
//
// Five sub-scores feed the composite: ROAS (weight 0.40), delivery pacing
// (0.30), burn rate (0.15), CTR (0.10) and overspend risk (0.05). Each
// sub-score is a pure step function over banding thresholds held in Config;
// the bands encode product policy and are reproduced exactly, including
// their asymmetries. All divisions are guarded, so malformed or missing
// input degrades to defined zero states instead of NaN or an error. A
// campaign with no delivery rows at all short-circuits to the canonical
// no-data result; callers distinguish it from a genuinely failing campaign
// via the burn-rate confidence tag and the Status field, never the numeric
// score alone.
package scoring
