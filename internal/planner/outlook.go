package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/dealernetworks/opsboard-backend/internal/dates"
	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/identity"
)

type outlookKey struct {
	dealer string
	model  string
}

// BuildOutlook folds yard stock, forecast incoming orders and trailing
// handover history into one row per (dealer, model). now is captured once by
// the caller so every window comparison inside the pass agrees; a record
// with a broken date or identifier drops out of the aggregate that needed
// it, nothing else.
func BuildOutlook(set domain.SnapshotSet, cfg Config, now time.Time) []domain.DealerModelOutlook {
	ix := BuildScheduleIndex(set.Orders, cfg)
	rows := make(map[outlookKey]*domain.DealerModelOutlook)

	row := func(dealer, model string) *domain.DealerModelOutlook {
		k := outlookKey{dealer: dealer, model: model}
		if r, ok := rows[k]; ok {
			return r
		}
		r := &domain.DealerModelOutlook{Dealer: dealer, Model: model}
		rows[k] = r
		return r
	}

	aggregateYard(set.Yard, ix, cfg, row)
	aggregateIncoming(set.Orders, cfg, now, row)
	aggregateHandovers(set.Handovers, ix, cfg, now, row)

	out := make([]domain.DealerModelOutlook, 0, len(rows))
	for _, r := range rows {
		r.CapacityNow = r.Yard + r.Incoming
		if r.Yard == 0 && r.Incoming == 0 && r.Handover6mStock == 0 {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dealer != out[j].Dealer {
			return out[i].Dealer < out[j].Dealer
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// aggregateYard counts on-hand stock units per (dealer, model). Yard entries
// often miss their model, so each one is enriched through the schedule index
// before classification.
func aggregateYard(yard domain.YardSnapshot, ix *ScheduleIndex, cfg Config, row func(dealer, model string) *domain.DealerModelOutlook) {
	for rawDealer, entries := range yard {
		dealer := identity.NormalizeDealerSlug(rawDealer)
		if dealer == "" {
			continue
		}
		for chassisKey, rec := range entries {
			if isSentinelKey(cfg, chassisKey) {
				continue
			}
			match, matched := ix.FindScheduleMatch(chassisKey)
			scheduleCustomer := ""
			if matched {
				scheduleCustomer = match.String(cfg.CustomerAliases...)
			}
			if !IsStockLikeRecord(cfg, rec, scheduleCustomer) {
				continue
			}
			model := resolveModel(cfg, rec, match)
			if model == "" {
				continue
			}
			row(dealer, model).Yard++
		}
	}
}

// aggregateIncoming counts dealer-stock orders whose forecast arrival lands
// inside the configured horizon. Orders without a parseable forecast date
// are silently excluded.
func aggregateIncoming(orders domain.OrdersSnapshot, cfg Config, now time.Time, row func(dealer, model string) *domain.DealerModelOutlook) {
	buckets := dates.MonthBuckets(cfg.horizonAnchor(now), cfg.HorizonOffsetMonths, cfg.HorizonMonths)
	for _, order := range orders {
		if !IsStockCustomer(order.String(cfg.CustomerAliases...)) {
			continue
		}
		raw, ok := order.Lookup(cfg.ForecastDateAliases...)
		if !ok {
			continue
		}
		forecast, ok := dates.Parse(raw)
		if !ok {
			continue
		}
		// TODO: confirm with the schedule owner whether a forecast+lead
		// arrival landing late in a month should count toward the following
		// month instead; the plain day arithmetic here keeps it in its own.
		arrival := dates.AddDays(forecast, cfg.ArrivalLeadDays)
		if dates.BucketIndex(buckets, arrival) < 0 {
			continue
		}
		dealer := identity.SlugifyDealerName(order.String(cfg.DealerAliases...))
		model := strings.TrimSpace(order.String(cfg.ModelAliases...))
		if dealer == "" || model == "" {
			continue
		}
		row(dealer, model).Incoming++
	}
}

// aggregateHandovers counts stock handovers in the trailing six months, and
// again in the trailing three. Both windows are boundary-inclusive.
func aggregateHandovers(handovers domain.HandoverSnapshot, ix *ScheduleIndex, cfg Config, now time.Time, row func(dealer, model string) *domain.DealerModelOutlook) {
	anchor := now
	start6m := dates.AddDays(anchor, -180)
	start3m := dates.AddDays(anchor, -90)

	for rawDealer, recs := range handovers {
		dealer := identity.NormalizeDealerSlug(rawDealer)
		if dealer == "" {
			continue
		}
		for _, rec := range recs {
			raw, ok := rec.Lookup(cfg.HandoverDateAliases...)
			if !ok {
				continue
			}
			when, ok := dates.Parse(raw)
			if !ok {
				continue
			}
			if when.Before(start6m) || when.After(anchor) {
				continue
			}

			chassis := rec.String(cfg.ChassisAliases...)
			match, matched := ix.FindScheduleMatch(chassis)
			scheduleCustomer := ""
			if matched {
				scheduleCustomer = match.String(cfg.CustomerAliases...)
			}
			if !IsStockLikeRecord(cfg, rec, scheduleCustomer) {
				continue
			}
			model := resolveModel(cfg, rec, match)
			if model == "" {
				continue
			}
			r := row(dealer, model)
			r.Handover6mStock++
			if !when.Before(start3m) {
				r.Handover3mStock++
			}
		}
	}
}

// resolveModel prefers the record's own model field, then the matched
// order's. "" means the unit cannot be attributed to a model row.
func resolveModel(cfg Config, rec domain.Record, match domain.Record) string {
	if m := strings.TrimSpace(rec.String(cfg.ModelAliases...)); m != "" {
		return m
	}
	if match != nil {
		return strings.TrimSpace(match.String(cfg.ModelAliases...))
	}
	return ""
}

func isSentinelKey(cfg Config, key string) bool {
	for _, s := range cfg.YardSentinelKeys {
		if key == s {
			return true
		}
	}
	return false
}
