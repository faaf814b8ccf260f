// internal/domain/models.go
package domain

import "time"

// Record is a single raw row from one of the upstream streams. The upstream
// systems do not agree on field names or casing (chassis alone appears under
// at least four spellings), so values are addressed through ordered alias
// lookups instead of struct fields.
type Record map[string]any

// Lookup returns the first present value among the given field aliases.
func (r Record) Lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the first non-empty string value among the given aliases.
// Non-string values are skipped; numeric epochs go through Lookup instead.
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// OrdersSnapshot is the full order book as last delivered by the schedule
// stream. Records without a chassis are unallocated planning slots.
type OrdersSnapshot []Record

// YardSnapshot maps dealer slug -> chassis -> yard entry.
type YardSnapshot map[string]map[string]Record

// HandoverSnapshot maps dealer slug -> record key -> handover record.
type HandoverSnapshot map[string]map[string]Record

// PGISnapshot maps chassis -> factory dispatch record.
type PGISnapshot map[string]Record

// DealerConfig is the operator-maintained master record for one dealer.
type DealerConfig struct {
	Slug         string `json:"slug" db:"slug"`
	Name         string `json:"name" db:"name"`
	Active       bool   `json:"active" db:"active"`
	YearlyTarget int    `json:"yearly_target" db:"yearly_target"`
}

// ModelRange is a named grouping of models used for target tracking.
type ModelRange struct {
	Name   string   `json:"name" db:"name"`
	Models []string `json:"models"`
}

// RangeTarget is the operator-set percentage-of-volume target for one range.
type RangeTarget struct {
	Range         string  `json:"range" db:"range_name"`
	TargetPercent float64 `json:"target_percent" db:"target_percent"`
}

// ConfigSnapshot bundles everything read from the configuration store. The
// planner treats it as read-only; operator writes arrive as a new snapshot.
type ConfigSnapshot struct {
	Dealers      []DealerConfig      `json:"dealers"`
	TierRules    map[string]TierRule `json:"tier_rules"`
	ModelTiers   map[string]string   `json:"model_tiers"` // normalized model -> tier
	ModelRanges  []ModelRange        `json:"model_ranges"`
	RangeTargets []RangeTarget       `json:"range_targets"`
}

// ActiveDealers returns the dealers flagged active, in stored order.
func (c ConfigSnapshot) ActiveDealers() []DealerConfig {
	out := make([]DealerConfig, 0, len(c.Dealers))
	for _, d := range c.Dealers {
		if d.Active {
			out = append(out, d)
		}
	}
	return out
}

// SnapshotSet is one internally consistent capture of every stream and the
// configuration, taken at the start of an aggregation pass. The planner never
// mixes data from two captures.
type SnapshotSet struct {
	Orders    OrdersSnapshot          `json:"orders"`
	Yard      YardSnapshot            `json:"yard"`
	Handovers HandoverSnapshot        `json:"handovers"`
	PGI       PGISnapshot             `json:"pgi"`
	Config    ConfigSnapshot          `json:"config"`
	Version   uint64                  `json:"version"`
	Meta      map[string]SnapshotMeta `json:"meta"`
}

// OutlookFilter restricts the derived outlook rows returned to a caller.
type OutlookFilter struct {
	Dealer string `json:"dealer"`
	Model  string `json:"model"`
}

// SnapshotMeta records when a stream snapshot was last replaced.
type SnapshotMeta struct {
	Stream     string    `json:"stream"`
	ReceivedAt time.Time `json:"received_at"`
	Records    int       `json:"records"`
}
