package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

func horizonConfig() Config {
	cfg := DefaultConfig()
	cfg.HorizonAnchor = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)
	cfg.HorizonOffsetMonths = 0
	cfg.HorizonMonths = 8
	return cfg
}

func TestBuildOutlookForecastIncoming(t *testing.T) {
	// A stock order with a forecast production date and no yard or handover
	// activity contributes one inbound unit.
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{
				"chassisNo":                "ABC123456",
				"Dealer":                   "Example Dealer",
				"Customer":                 "Example Dealer Stock",
				"Model":                    "X1",
				"Forecast Production Date": "01/01/2026",
			},
		},
	}
	now := time.Date(2025, time.December, 10, 9, 0, 0, 0, time.Local)

	rows := BuildOutlook(set, horizonConfig(), now)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.DealerModelOutlook{
		Dealer:      "example-dealer",
		Model:       "X1",
		Yard:        0,
		Incoming:    1,
		CapacityNow: 1,
	}, rows[0])
}

func TestBuildOutlookForecastOutsideHorizonDropped(t *testing.T) {
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{"Dealer": "Example Dealer", "Customer": "Example Dealer Stock", "Model": "X1", "Forecast Production Date": "01/10/2026"}, // arrival past Aug window
			{"Dealer": "Example Dealer", "Customer": "Example Dealer Stock", "Model": "X2", "Forecast Production Date": "-"},          // unparseable, silently excluded
			{"Dealer": "Example Dealer", "Customer": "Jane Smith", "Model": "X3", "Forecast Production Date": "01/02/2026"},           // customer-committed, not stock
		},
	}
	now := time.Date(2025, time.December, 10, 9, 0, 0, 0, time.Local)
	rows := BuildOutlook(set, horizonConfig(), now)
	assert.Empty(t, rows)
}

func TestBuildOutlookYardLooseChassisInheritsModel(t *testing.T) {
	// The yard copy of the chassis has trailing whitespace and mixed case;
	// the loose index still resolves it and the order supplies the model.
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{"chassisNo": "ABC123456", "Dealer": "Example Dealer", "Customer": "Example Dealer Stock", "Model": "X1"},
		},
		Yard: domain.YardSnapshot{
			"example-dealer-a1b2c3": {
				"abc 123456 ": domain.Record{"receivedAt": "01/11/2025"},
				"_dealer":     domain.Record{"name": "Example Dealer"}, // sentinel, skipped
			},
		},
	}
	now := time.Date(2025, time.December, 10, 9, 0, 0, 0, time.Local)

	rows := BuildOutlook(set, horizonConfig(), now)
	require.Len(t, rows, 1)
	assert.Equal(t, "example-dealer", rows[0].Dealer)
	assert.Equal(t, "X1", rows[0].Model)
	assert.Equal(t, 1, rows[0].Yard)
	assert.Equal(t, 1, rows[0].CapacityNow)
}

func TestBuildOutlookYardCustomerUnitExcluded(t *testing.T) {
	// A yard unit matched to a customer-committed order is not stock.
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{"chassisNo": "DEF777", "Dealer": "Example Dealer", "Customer": "Jane Smith", "Model": "X1"},
		},
		Yard: domain.YardSnapshot{
			"example-dealer-a1b2c3": {"DEF777": domain.Record{}},
		},
	}
	now := time.Date(2025, time.December, 10, 9, 0, 0, 0, time.Local)
	assert.Empty(t, BuildOutlook(set, horizonConfig(), now))
}

func TestBuildOutlookHandoverWindows(t *testing.T) {
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)
	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format("02/01/2006")
	}
	set := domain.SnapshotSet{
		Handovers: domain.HandoverSnapshot{
			"example-dealer-a1b2c3": {
				"h1": domain.Record{"model": "X1", "type": "stock", "handoverDate": day(90)},  // boundary: counts in 3m and 6m
				"h2": domain.Record{"model": "X1", "type": "stock", "handoverDate": day(91)},  // 6m only
				"h3": domain.Record{"model": "X1", "type": "stock", "handoverDate": day(181)}, // outside 6m
				"h4": domain.Record{"model": "X1", "type": "stock", "handoverDate": "-"},      // no date, excluded
				"h5": domain.Record{"model": "X1", "handoverDate": day(10)},                   // customer handover, not stock
			},
		},
	}

	rows := BuildOutlook(set, horizonConfig(), now)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Handover6mStock)
	assert.Equal(t, 1, rows[0].Handover3mStock)
	assert.Equal(t, 0, rows[0].CapacityNow)
}

func TestBuildOutlookHandoverEnrichedFromScheduleChassis(t *testing.T) {
	// The handover record carries its chassis under an alias spelling and no
	// model; both model and stock classification come from the order book.
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{"chassisNo": "GHI888999", "Dealer": "Example Dealer", "Customer": "Example Dealer Stock", "Model": "X2"},
		},
		Handovers: domain.HandoverSnapshot{
			"example-dealer-a1b2c3": {
				"h1": domain.Record{"Chassis No": "ghi-888999", "handoverDate": now.AddDate(0, 0, -30).Format("02/01/2006")},
			},
		},
	}

	rows := BuildOutlook(set, horizonConfig(), now)
	require.Len(t, rows, 1)
	assert.Equal(t, "X2", rows[0].Model)
	assert.Equal(t, 1, rows[0].Handover6mStock)
	assert.Equal(t, 1, rows[0].Handover3mStock)
}

func TestBuildOutlookIdempotent(t *testing.T) {
	now := time.Date(2026, time.February, 15, 8, 0, 0, 0, time.Local)
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{"chassisNo": "AAA111", "Dealer": "Riverside Motors", "Customer": "Riverside Motors Stock", "Model": "X1", "Forecast Production Date": "01/02/2026"},
			{"chassisNo": "BBB222", "Dealer": "Hilltop 4x4", "Customer": "Hilltop 4x4 Stock", "Model": "X2", "Forecast Production Date": "15/03/2026"},
		},
		Yard: domain.YardSnapshot{
			"riverside-motors-x9y8z7": {"AAA111": domain.Record{"type": "stock", "model": "X1"}},
		},
		Handovers: domain.HandoverSnapshot{
			"hilltop-4x4-p0q1r2": {
				"h1": domain.Record{"model": "X2", "type": "stock", "handoverDate": "10/01/2026"},
			},
		},
	}
	cfg := horizonConfig()

	first := BuildOutlook(set, cfg, now)
	second := BuildOutlook(set, cfg, now)
	assert.Equal(t, first, second)
	require.NotEmpty(t, first)
	// Output order is deterministic: sorted by dealer then model.
	assert.Equal(t, "hilltop-4x4", first[0].Dealer)
}
