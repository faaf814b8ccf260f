// Package planner holds the reconciliation and replenishment core: record
// classification, the cross-source chassis index, the per-(dealer, model)
// outlook aggregation, tier gap evaluation and range target comparison.
// Everything here is pure; each pass is recomputed from captured snapshots
// with an explicit clock.
package planner

import "time"

// Config carries the alias lists and horizon settings the planner works
// from. The alias lists were reverse-engineered from upstream data and are
// kept configurable so they can be corrected without a code change.
type Config struct {
	// Ordered field aliases tried in sequence on raw records.
	ChassisAliases      []string
	ModelAliases        []string
	CustomerAliases     []string
	DealerAliases       []string
	ForecastDateAliases []string
	HandoverDateAliases []string
	DispatchDateAliases []string
	// Fallback fields inspected for a "stock" hint when the schedule record
	// gives no signal.
	StockHintFields []string
	// Yard map keys that are dealer-level placeholders, not chassis.
	YardSentinelKeys []string

	// Arrival forecast horizon: HorizonMonths consecutive month buckets
	// starting at HorizonAnchor shifted by HorizonOffsetMonths. A zero
	// anchor means "anchor at now".
	HorizonAnchor       time.Time
	HorizonOffsetMonths int
	HorizonMonths       int

	// Days added to a forecast production date to estimate yard arrival.
	ArrivalLeadDays int
}

// DefaultConfig returns the alias lists observed in production feeds and the
// standard eight-month forecast horizon.
func DefaultConfig() Config {
	return Config{
		ChassisAliases:      []string{"chassisNo", "ChassisNo", "chassisNumber", "Chassis No", "CHASSIS", "chassis"},
		ModelAliases:        []string{"model", "Model", "modelName", "Model Name"},
		CustomerAliases:     []string{"customer", "Customer", "customerName", "Customer Name"},
		DealerAliases:       []string{"dealer", "Dealer", "dealerName", "Dealer Name"},
		ForecastDateAliases: []string{"Forecast Production Date", "forecastProductionDate", "forecastProduction"},
		HandoverDateAliases: []string{"handoverDate", "Handover Date", "handedOverAt", "createdAt"},
		DispatchDateAliases: []string{"dispatchDate", "Dispatch Date", "pgiDate"},
		StockHintFields:     []string{"type", "Type", "category", "stockType", "customer2", "orderedBy"},
		YardSentinelKeys:    []string{"_dealer", "_meta"},
		HorizonOffsetMonths: 0,
		HorizonMonths:       8,
		ArrivalLeadDays:     30,
	}
}

// horizonAnchor resolves the bucket anchor for a pass, falling back to the
// pass clock when no fixed anchor is configured.
func (c Config) horizonAnchor(now time.Time) time.Time {
	if c.HorizonAnchor.IsZero() {
		return now
	}
	return c.HorizonAnchor
}
