package planner

import (
	"strings"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

// IsStockCustomer reports whether a customer name marks a dealer-stock unit:
// the name's last word is "stock", case-insensitive.
func IsStockCustomer(name string) bool {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return false
	}
	return fields[len(fields)-1] == "stock"
}

// classificationRule is one step of the stock-vs-customer heuristic. Rules
// run in declared order; the first hit wins.
type classificationRule struct {
	name  string
	match func(cfg Config, rec domain.Record, scheduleCustomer string) bool
}

// classificationRules is the documented precedence: the authoritative
// schedule customer first, then the record's own type/category and alternate
// customer hints. Upstream carries no reliable flag, so the order matters
// and must not be reshuffled.
var classificationRules = []classificationRule{
	{
		name: "schedule customer ends with stock",
		match: func(_ Config, _ domain.Record, scheduleCustomer string) bool {
			return IsStockCustomer(scheduleCustomer)
		},
	},
	{
		name: "record stock hint fields contain stock",
		match: func(cfg Config, rec domain.Record, _ string) bool {
			for _, f := range cfg.StockHintFields {
				if v := rec.String(f); v != "" && strings.Contains(strings.ToLower(v), "stock") {
					return true
				}
			}
			return false
		},
	},
	{
		name: "record own customer ends with stock",
		match: func(cfg Config, rec domain.Record, _ string) bool {
			return IsStockCustomer(rec.String(cfg.CustomerAliases...))
		},
	},
}

// IsStockLikeRecord classifies a yard/handover record as dealer stock. The
// scheduleCustomer argument is the customer name from the matched order, ""
// when no match was found. Absence of any signal classifies as Customer so
// replenishment math never over-counts stock.
func IsStockLikeRecord(cfg Config, rec domain.Record, scheduleCustomer string) bool {
	for _, rule := range classificationRules {
		if rule.match(cfg, rec, scheduleCustomer) {
			return true
		}
	}
	return false
}
