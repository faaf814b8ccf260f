package planner

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dealernetworks/opsboard-backend/internal/dates"
	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/identity"
)

var oneHundred = decimal.NewFromInt(100)

// ProductionCounts holds per-dealer production-confirmed order counts
// bucketed by model range, plus the dealer's total across all models.
type ProductionCounts struct {
	ByRange map[string]map[string]int // dealer slug -> rangeKey -> count
	Total   map[string]int            // dealer slug -> all production-confirmed orders
}

// rangeKey normalizes a range name for lookups. Operators type range names
// free-hand in the focus list; the stored config casing must not matter.
func rangeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CountProductionByRange buckets the order book per dealer and model range.
// An order is production-confirmed once it carries a parseable forecast
// production date; orders with no chassis still count here, they are
// planning volume even before a unit is allocated.
func CountProductionByRange(orders domain.OrdersSnapshot, ranges []domain.ModelRange, cfg Config) ProductionCounts {
	rangeOf := make(map[string]string)
	for _, mr := range ranges {
		for _, m := range mr.Models {
			rangeOf[ModelTierKey(m)] = rangeKey(mr.Name)
		}
	}

	counts := ProductionCounts{
		ByRange: make(map[string]map[string]int),
		Total:   make(map[string]int),
	}
	for _, order := range orders {
		if !hasParseableDate(order, cfg.ForecastDateAliases) {
			continue
		}
		dealer := identity.SlugifyDealerName(order.String(cfg.DealerAliases...))
		if dealer == "" {
			continue
		}
		counts.Total[dealer]++

		model := ModelTierKey(order.String(cfg.ModelAliases...))
		key, ok := rangeOf[model]
		if !ok {
			continue
		}
		if counts.ByRange[dealer] == nil {
			counts.ByRange[dealer] = make(map[string]int)
		}
		counts.ByRange[dealer][key]++
	}
	return counts
}

// EvaluateRangeTargets compares every active dealer against the target for
// each focus range under the selected comparison mode. Rows come back with
// the dealers furthest from target first.
func EvaluateRangeTargets(counts ProductionCounts, dealers []domain.DealerConfig, targets []domain.RangeTarget, focus []string, mode string) []domain.TargetComparisonRow {
	targetPct := make(map[string]decimal.Decimal, len(targets))
	for _, t := range targets {
		targetPct[rangeKey(t.Range)] = decimal.NewFromFloat(t.TargetPercent)
	}

	rows := make([]domain.TargetComparisonRow, 0)
	for _, rangeName := range focus {
		pct, ok := targetPct[rangeKey(rangeName)]
		if !ok {
			// No target configured yet is a valid state; the range simply
			// produces no comparison rows.
			continue
		}
		for _, dealer := range dealers {
			if !dealer.Active {
				continue
			}
			// Store slugs are already canonical; only stream-delivered dealer
			// keys carry access-code suffixes.
			slug := strings.ToLower(strings.TrimSpace(dealer.Slug))
			actual := counts.ByRange[slug][rangeKey(rangeName)]
			total := counts.Total[slug]
			row := domain.TargetComparisonRow{
				Range:       rangeName,
				Dealer:      slug,
				Mode:        mode,
				Actual:      actual,
				DealerTotal: total,
			}

			actualDec := decimal.NewFromInt(int64(actual))
			switch mode {
			case domain.ModeAbsoluteVsYearlyTarget:
				row.Target = decimal.NewFromInt(int64(dealer.YearlyTarget)).Mul(pct).Div(oneHundred)
				row.Difference = actualDec.Sub(row.Target)
			case domain.ModePercentagePointDiff:
				row.Target = pct
				if total > 0 {
					share := actualDec.Mul(oneHundred).Div(decimal.NewFromInt(int64(total)))
					row.Difference = share.Sub(pct)
				} else {
					row.Difference = pct.Neg()
				}
			default: // domain.ModeShareOfDealerTotal
				row.Target = decimal.NewFromInt(int64(total)).Mul(pct).Div(oneHundred)
				row.Difference = actualDec.Sub(row.Target)
			}
			rows = append(rows, row)
		}
	}

	// Count modes surface the biggest shortfall first; the percentage-point
	// mode is the over/under highlight view and leads with the overshoot.
	descending := mode == domain.ModePercentagePointDiff
	sort.SliceStable(rows, func(i, j int) bool {
		if descending {
			return rows[i].Difference.GreaterThan(rows[j].Difference)
		}
		return rows[i].Difference.LessThan(rows[j].Difference)
	})
	return rows
}

func hasParseableDate(rec domain.Record, aliases []string) bool {
	raw, ok := rec.Lookup(aliases...)
	if !ok {
		return false
	}
	_, ok = dates.Parse(raw)
	return ok
}
