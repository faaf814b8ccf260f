package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

func TestBuildInTransitExcludesArrivedUnits(t *testing.T) {
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)
	set := domain.SnapshotSet{
		PGI: domain.PGISnapshot{
			"ABC123": {"dealer": "Riverside", "model": "X1", "dispatchDate": "01/03/2026"},
			"DEF456": {"dealer": "Riverside", "model": "X2", "dispatchDate": "15/03/2026"},
		},
		Yard: domain.YardSnapshot{
			"riverside": {
				// Arrived, recorded with casing and spacing drift.
				"abc 123": {"model": "X1"},
			},
		},
	}

	rows := BuildInTransit(set, DefaultConfig(), now)
	require.Len(t, rows, 1)
	assert.Equal(t, "DEF456", rows[0].Chassis)
	assert.Equal(t, "riverside", rows[0].Dealer)
	assert.Equal(t, "X2", rows[0].Model)
	assert.Equal(t, 16, rows[0].DaysInTransit)
}

func TestBuildInTransitEnrichesFromSchedule(t *testing.T) {
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)
	set := domain.SnapshotSet{
		Orders: domain.OrdersSnapshot{
			{"chassisNo": "GHI789", "model": "X3", "dealer": "Hilltop 4x4"},
		},
		PGI: domain.PGISnapshot{
			// Dispatch record carries neither model nor dealer.
			"GHI789": {"dispatchDate": "20/03/2026"},
		},
	}

	rows := BuildInTransit(set, DefaultConfig(), now)
	require.Len(t, rows, 1)
	assert.Equal(t, "X3", rows[0].Model)
	assert.Equal(t, "hilltop-4x4", rows[0].Dealer)
}

func TestBuildInTransitSkipsUnusableDispatches(t *testing.T) {
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)
	set := domain.SnapshotSet{
		PGI: domain.PGISnapshot{
			"NODATE": {"dealer": "Riverside", "model": "X1"},
			"BADATE": {"dealer": "Riverside", "model": "X1", "dispatchDate": "-"},
			"FUTURE": {"dealer": "Riverside", "model": "X1", "dispatchDate": "01/06/2026"},
		},
	}

	rows := BuildInTransit(set, DefaultConfig(), now)
	assert.Empty(t, rows)
}

func TestBuildInTransitOrdersLongestFirst(t *testing.T) {
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.Local)
	set := domain.SnapshotSet{
		PGI: domain.PGISnapshot{
			"AAA111": {"dealer": "Riverside", "model": "X1", "dispatchDate": "25/03/2026"},
			"BBB222": {"dealer": "Riverside", "model": "X1", "dispatchDate": "01/02/2026"},
		},
	}

	rows := BuildInTransit(set, DefaultConfig(), now)
	require.Len(t, rows, 2)
	assert.Equal(t, "BBB222", rows[0].Chassis)
	assert.Equal(t, "AAA111", rows[1].Chassis)
}
