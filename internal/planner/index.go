package planner

import (
	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/identity"
)

// ScheduleIndex is the chassis -> order lookup built from the order book.
// Yard, handover and PGI records that lack a model or customer are enriched
// through it. Exact keys are tried first; loose keys absorb the punctuation
// and casing drift between sources.
type ScheduleIndex struct {
	exact map[string]domain.Record
	loose map[string]domain.Record
}

// BuildScheduleIndex registers every order under each chassis alias present
// on it. Later orders overwrite earlier ones sharing a normalized key: the
// snapshot is delivered oldest-first, so last write wins matches
// most-recent-snapshot-wins semantics.
func BuildScheduleIndex(orders domain.OrdersSnapshot, cfg Config) *ScheduleIndex {
	ix := &ScheduleIndex{
		exact: make(map[string]domain.Record, len(orders)),
		loose: make(map[string]domain.Record, len(orders)),
	}
	for _, order := range orders {
		for _, alias := range cfg.ChassisAliases {
			raw := order.String(alias)
			if raw == "" {
				continue
			}
			if k := identity.NormalizeChassisExact(raw); k != "" {
				ix.exact[k] = order
			}
			if k := identity.NormalizeChassisLoose(raw); k != "" {
				ix.loose[k] = order
			}
		}
	}
	return ix
}

// FindScheduleMatch resolves a chassis-like value, exact first then loose.
// A double miss returns ok=false; callers proceed with the record's own
// fields and never treat a miss as an error.
func (ix *ScheduleIndex) FindScheduleMatch(chassisLike string) (domain.Record, bool) {
	if k := identity.NormalizeChassisExact(chassisLike); k != "" {
		if rec, ok := ix.exact[k]; ok {
			return rec, true
		}
	}
	if k := identity.NormalizeChassisLoose(chassisLike); k != "" {
		if rec, ok := ix.loose[k]; ok {
			return rec, true
		}
	}
	return nil, false
}

// Len returns the number of distinct exact keys registered.
func (ix *ScheduleIndex) Len() int {
	return len(ix.exact)
}
