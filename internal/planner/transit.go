package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/dealernetworks/opsboard-backend/internal/dates"
	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/identity"
)

// BuildInTransit reconciles the dispatch stream against yard stock: a
// dispatched chassis that has not surfaced in any dealer's yard is still in
// transit. Presence is checked under both exact and loose normalization so
// identifier drift between the two streams does not produce phantom rows.
// Rows come back longest in transit first.
func BuildInTransit(set domain.SnapshotSet, cfg Config, now time.Time) []domain.InTransitRow {
	ix := BuildScheduleIndex(set.Orders, cfg)

	arrivedExact := make(map[string]bool)
	arrivedLoose := make(map[string]bool)
	for _, entries := range set.Yard {
		for chassisKey := range entries {
			if isSentinelKey(cfg, chassisKey) {
				continue
			}
			if k := identity.NormalizeChassisExact(chassisKey); k != "" {
				arrivedExact[k] = true
			}
			if k := identity.NormalizeChassisLoose(chassisKey); k != "" {
				arrivedLoose[k] = true
			}
		}
	}

	rows := make([]domain.InTransitRow, 0)
	for chassis, rec := range set.PGI {
		if arrivedExact[identity.NormalizeChassisExact(chassis)] ||
			arrivedLoose[identity.NormalizeChassisLoose(chassis)] {
			continue
		}

		raw, ok := rec.Lookup(cfg.DispatchDateAliases...)
		if !ok {
			continue
		}
		dispatched, ok := dates.Parse(raw)
		if !ok || dispatched.After(now) {
			continue
		}

		match, _ := ix.FindScheduleMatch(chassis)
		dealer := identity.SlugifyDealerName(rec.String(cfg.DealerAliases...))
		if dealer == "" && match != nil {
			dealer = identity.SlugifyDealerName(match.String(cfg.DealerAliases...))
		}
		model := resolveModel(cfg, rec, match)

		rows = append(rows, domain.InTransitRow{
			Dealer:        dealer,
			Model:         model,
			Chassis:       strings.TrimSpace(chassis),
			DispatchedAt:  dispatched,
			DaysInTransit: int(now.Sub(dispatched).Hours() / 24),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DaysInTransit != rows[j].DaysInTransit {
			return rows[i].DaysInTransit > rows[j].DaysInTransit
		}
		return rows[i].Chassis < rows[j].Chassis
	})
	return rows
}
