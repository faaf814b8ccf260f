package planner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

func targetFixture() (ProductionCounts, []domain.DealerConfig, []domain.RangeTarget) {
	counts := ProductionCounts{
		ByRange: map[string]map[string]int{
			"riverside-motors": {"adventure": 2},
			"hilltop-4x4":      {"adventure": 8},
		},
		Total: map[string]int{
			"riverside-motors": 20,
			"hilltop-4x4":      20,
		},
	}
	dealers := []domain.DealerConfig{
		{Slug: "riverside-motors", Name: "Riverside Motors", Active: true, YearlyTarget: 40},
		{Slug: "hilltop-4x4", Name: "Hilltop 4x4", Active: true, YearlyTarget: 40},
		{Slug: "closed-yard", Name: "Closed Yard", Active: false},
	}
	targets := []domain.RangeTarget{{Range: "Adventure", TargetPercent: 25}}
	return counts, dealers, targets
}

func TestCountProductionByRange(t *testing.T) {
	cfg := DefaultConfig()
	orders := domain.OrdersSnapshot{
		{"Dealer": "Riverside Motors", "Model": "X1", "Forecast Production Date": "01/03/2026"},
		{"Dealer": "Riverside Motors", "Model": "X1", "Forecast Production Date": "05/03/2026", "chassisNo": "AAA111"},
		{"Dealer": "Riverside Motors", "Model": "Y5", "Forecast Production Date": "07/03/2026"},
		{"Dealer": "Riverside Motors", "Model": "X1"}, // not production-confirmed
	}
	ranges := []domain.ModelRange{{Name: "Adventure", Models: []string{"X1", "X2"}}}

	counts := CountProductionByRange(orders, ranges, cfg)
	// Orders without a chassis still count toward volume statistics.
	assert.Equal(t, 3, counts.Total["riverside-motors"])
	assert.Equal(t, 2, counts.ByRange["riverside-motors"]["adventure"])
}

func TestEvaluateRangeTargetsFocusCaseInsensitive(t *testing.T) {
	counts, dealers, targets := targetFixture()

	// The operator's spelling of the focus range must not change the counts
	// it resolves to.
	for _, focus := range []string{"Adventure", "adventure", "ADVENTURE"} {
		rows := EvaluateRangeTargets(counts, dealers, targets, []string{focus}, domain.ModeShareOfDealerTotal)
		require.Len(t, rows, 2, focus)
		assert.Equal(t, "riverside-motors", rows[0].Dealer, focus)
		assert.Equal(t, 2, rows[0].Actual, focus)
	}
}

func TestEvaluateRangeTargetsShareOfTotal(t *testing.T) {
	counts, dealers, targets := targetFixture()
	rows := EvaluateRangeTargets(counts, dealers, targets, []string{"Adventure"}, domain.ModeShareOfDealerTotal)
	require.Len(t, rows, 2) // inactive dealer excluded

	// target = 20 * 25% = 5 for both; riverside is 3 under, hilltop 3 over.
	// Ascending difference puts the shortfall first.
	assert.Equal(t, "riverside-motors", rows[0].Dealer)
	assert.True(t, decimal.NewFromInt(-3).Equal(rows[0].Difference), rows[0].Difference.String())
	assert.Equal(t, "hilltop-4x4", rows[1].Dealer)
	assert.True(t, decimal.NewFromInt(3).Equal(rows[1].Difference))
}

func TestEvaluateRangeTargetsAbsoluteVsYearly(t *testing.T) {
	counts, dealers, targets := targetFixture()
	rows := EvaluateRangeTargets(counts, dealers, targets, []string{"Adventure"}, domain.ModeAbsoluteVsYearlyTarget)
	require.Len(t, rows, 2)

	// target = 40 * 25% = 10 units of Adventure for the year.
	assert.Equal(t, "riverside-motors", rows[0].Dealer)
	assert.True(t, decimal.NewFromInt(10).Equal(rows[0].Target))
	assert.True(t, decimal.NewFromInt(-8).Equal(rows[0].Difference))
}

func TestEvaluateRangeTargetsPercentagePoints(t *testing.T) {
	counts, dealers, targets := targetFixture()
	rows := EvaluateRangeTargets(counts, dealers, targets, []string{"Adventure"}, domain.ModePercentagePointDiff)
	require.Len(t, rows, 2)

	// Highlight mode leads with the overshoot: hilltop runs 40% against a
	// 25% target, +15 percentage points.
	assert.Equal(t, "hilltop-4x4", rows[0].Dealer)
	assert.True(t, decimal.NewFromInt(15).Equal(rows[0].Difference), rows[0].Difference.String())
	assert.True(t, decimal.NewFromInt(-15).Equal(rows[1].Difference))
}

func TestEvaluateRangeTargetsMissingConfigYieldsEmpty(t *testing.T) {
	counts, dealers, _ := targetFixture()
	rows := EvaluateRangeTargets(counts, dealers, nil, []string{"Adventure"}, domain.ModeShareOfDealerTotal)
	assert.Empty(t, rows)
}
