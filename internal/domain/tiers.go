package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TierNames is the fixed set of replenishment tiers, in display order.
var TierNames = []string{"tier1", "tier2", "tier3", "tier4"}

// TierRule is the operator-editable replenishment rule for one tier. The
// multipliers scale the trailing handover counts into a required stock level;
// they are rationals because operators tune them in fractional steps.
type TierRule struct {
	Tier                 string          `json:"tier" db:"tier"`
	Handover6mMultiplier decimal.Decimal `json:"handover_6m_multiplier" db:"handover_6m_multiplier"`
	Handover3mMultiplier decimal.Decimal `json:"handover_3m_multiplier" db:"handover_3m_multiplier"`
	Enabled              bool            `json:"enabled" db:"enabled"`
}

// ParseTier returns the canonical tier name for a label (case-insensitive),
// or false when the label names no known tier.
func ParseTier(label string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(label))
	for _, t := range TierNames {
		if t == needle {
			return t, true
		}
	}
	return "", false
}

// Time bases a gap recommendation can be triggered by.
const (
	BasisHandover6m = "handover6m"
	BasisHandover3m = "handover3m"
)

// Target comparison modes supported by the highlight evaluator.
const (
	ModeShareOfDealerTotal     = "share_of_dealer_total"
	ModeAbsoluteVsYearlyTarget = "absolute_vs_yearly_target"
	ModePercentagePointDiff    = "percentage_point_diff"
)

// ParseComparisonMode validates a mode label, defaulting to share-of-total.
func ParseComparisonMode(label string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", ModeShareOfDealerTotal:
		return ModeShareOfDealerTotal, true
	case ModeAbsoluteVsYearlyTarget:
		return ModeAbsoluteVsYearlyTarget, true
	case ModePercentagePointDiff:
		return ModePercentagePointDiff, true
	}
	return "", false
}
