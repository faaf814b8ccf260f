package planner

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

// TierEvalOptions controls the documented mode switches of gap evaluation.
type TierEvalOptions struct {
	// FallbackAllModels makes a tier with no assigned models evaluate every
	// outlook row instead of none. Call sites opt in explicitly; it is never
	// implied.
	FallbackAllModels bool
}

// ModelTierKey normalizes a model name the way the assignment map is keyed.
func ModelTierKey(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}

// EvaluateTierGaps applies one tier's rule to the outlook rows and returns
// the positive-gap recommendations, largest gap first, ties in input order.
// A row short on both time bases yields two rows, one per basis.
func EvaluateTierGaps(rows []domain.DealerModelOutlook, modelTiers map[string]string, rule domain.TierRule, tier string, opts TierEvalOptions) []domain.TierGapRow {
	inTier := tierMembership(rows, modelTiers, tier, opts)
	if inTier == nil {
		return nil
	}

	gaps := make([]domain.TierGapRow, 0)
	for _, r := range rows {
		if !inTier(r.Model) {
			continue
		}
		capacity := decimal.NewFromInt(int64(r.CapacityNow))

		required6 := rule.Handover6mMultiplier.Mul(decimal.NewFromInt(int64(r.Handover6mStock)))
		if gap := ceilGap(required6, capacity); gap > 0 {
			gaps = append(gaps, domain.TierGapRow{
				DealerModelOutlook: r,
				Tier:               tier,
				Basis:              domain.BasisHandover6m,
				Required:           required6,
				Gap:                gap,
			})
		}

		required3 := rule.Handover3mMultiplier.Mul(decimal.NewFromInt(int64(r.Handover3mStock)))
		if gap := ceilGap(required3, capacity); gap > 0 {
			gaps = append(gaps, domain.TierGapRow{
				DealerModelOutlook: r,
				Tier:               tier,
				Basis:              domain.BasisHandover3m,
				Required:           required3,
				Gap:                gap,
			})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Gap > gaps[j].Gap })
	return gaps
}

// EvaluateAllTiers runs every enabled tier rule and merges the results into
// one ranked list.
func EvaluateAllTiers(rows []domain.DealerModelOutlook, modelTiers map[string]string, rules map[string]domain.TierRule, opts TierEvalOptions) []domain.TierGapRow {
	merged := make([]domain.TierGapRow, 0)
	for _, tier := range domain.TierNames {
		rule, ok := rules[tier]
		if !ok || !rule.Enabled {
			continue
		}
		merged = append(merged, EvaluateTierGaps(rows, modelTiers, rule, tier, opts)...)
	}
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Gap > merged[j].Gap })
	return merged
}

// EvaluateTierDebug returns the full evaluation of every row in the tier,
// gap or no gap, for the troubleshooting view.
func EvaluateTierDebug(rows []domain.DealerModelOutlook, modelTiers map[string]string, rule domain.TierRule, tier string, opts TierEvalOptions) []domain.TierDebugRow {
	inTier := tierMembership(rows, modelTiers, tier, opts)
	if inTier == nil {
		return nil
	}

	out := make([]domain.TierDebugRow, 0)
	for _, r := range rows {
		if !inTier(r.Model) {
			continue
		}
		capacity := decimal.NewFromInt(int64(r.CapacityNow))
		required6 := rule.Handover6mMultiplier.Mul(decimal.NewFromInt(int64(r.Handover6mStock)))
		required3 := rule.Handover3mMultiplier.Mul(decimal.NewFromInt(int64(r.Handover3mStock)))
		out = append(out, domain.TierDebugRow{
			DealerModelOutlook: r,
			Tier:               tier,
			RequiredBy6m:       required6,
			RequiredBy3m:       required3,
			GapBy6m:            ceilGap(required6, capacity),
			GapBy3m:            ceilGap(required3, capacity),
		})
	}
	return out
}

// tierMembership resolves which models the pass covers. nil means the tier
// is empty and the caller declined the all-models fallback.
func tierMembership(rows []domain.DealerModelOutlook, modelTiers map[string]string, tier string, opts TierEvalOptions) func(model string) bool {
	assigned := make(map[string]bool)
	for model, t := range modelTiers {
		if t == tier {
			assigned[ModelTierKey(model)] = true
		}
	}
	if len(assigned) == 0 {
		if !opts.FallbackAllModels {
			return nil
		}
		return func(string) bool { return true }
	}
	return func(model string) bool { return assigned[ModelTierKey(model)] }
}

// ceilGap rounds a partial-unit shortfall up to a whole unit to order.
func ceilGap(required, capacity decimal.Decimal) int {
	return int(required.Sub(capacity).Ceil().IntPart())
}
