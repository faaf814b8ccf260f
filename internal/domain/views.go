package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealerModelOutlook is one derived row per (dealer, model): what the dealer
// holds, what is inbound within the horizon, and how fast stock units have
// been handed over. Rows where every count is zero are never materialized.
type DealerModelOutlook struct {
	Dealer          string `json:"dealer"`
	Model           string `json:"model"`
	Yard            int    `json:"yard"`
	Incoming        int    `json:"incoming"`
	Handover3mStock int    `json:"handover_3m_stock"`
	Handover6mStock int    `json:"handover_6m_stock"`
	CapacityNow     int    `json:"capacity_now"`
}

// TierGapRow is a ranked replenishment recommendation: order Gap more units
// of Model for Dealer. Basis records which trailing window triggered it.
type TierGapRow struct {
	DealerModelOutlook
	Tier     string          `json:"tier"`
	Basis    string          `json:"basis"`
	Required decimal.Decimal `json:"required"`
	Gap      int             `json:"gap"`
}

// TierDebugRow is the unfiltered evaluation of one outlook row against a tier
// rule, including rows that produced no gap. Used for troubleshooting views.
type TierDebugRow struct {
	DealerModelOutlook
	Tier         string          `json:"tier"`
	RequiredBy6m decimal.Decimal `json:"required_by_6m"`
	RequiredBy3m decimal.Decimal `json:"required_by_3m"`
	GapBy6m      int             `json:"gap_by_6m"`
	GapBy3m      int             `json:"gap_by_3m"`
}

// TargetComparisonRow is one dealer's standing against a focus range target.
type TargetComparisonRow struct {
	Range       string          `json:"range"`
	Dealer      string          `json:"dealer"`
	Mode        string          `json:"mode"`
	Actual      int             `json:"actual"`
	DealerTotal int             `json:"dealer_total"`
	Target      decimal.Decimal `json:"target"`
	Difference  decimal.Decimal `json:"difference"`
}

// InTransitRow is a dispatched unit that has not yet appeared in any yard
// snapshot: somewhere between the factory gate and the dealer's lot.
type InTransitRow struct {
	Dealer        string    `json:"dealer"`
	Model         string    `json:"model"`
	Chassis       string    `json:"chassis"`
	DispatchedAt  time.Time `json:"dispatched_at"`
	DaysInTransit int       `json:"days_in_transit"`
}

// GapReport is the archived artifact of one recompute pass.
type GapReport struct {
	ComputedAt time.Time               `json:"computed_at"`
	Tier       string                  `json:"tier"`
	Rows       []TierGapRow            `json:"rows"`
	Outlook    []DealerModelOutlook    `json:"outlook"`
	Streams    map[string]SnapshotMeta `json:"streams"`
}
