package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

func TestFindScheduleMatchExactThenLoose(t *testing.T) {
	cfg := DefaultConfig()
	orders := domain.OrdersSnapshot{
		{"chassisNo": "ABC-123456", "model": "X1", "customer": "Riverside Motors Stock"},
	}
	ix := BuildScheduleIndex(orders, cfg)

	// Exact hit: same value modulo trim/case.
	rec, ok := ix.FindScheduleMatch("  abc-123456 ")
	require.True(t, ok)
	assert.Equal(t, "X1", rec.String("model"))

	// Loose hit: punctuation differs between sources.
	rec, ok = ix.FindScheduleMatch("ABC 123456")
	require.True(t, ok)
	assert.Equal(t, "X1", rec.String("model"))

	// Double miss is not an error.
	_, ok = ix.FindScheduleMatch("ZZZ999")
	assert.False(t, ok)
	_, ok = ix.FindScheduleMatch("")
	assert.False(t, ok)
}

func TestBuildScheduleIndexAliases(t *testing.T) {
	cfg := DefaultConfig()
	orders := domain.OrdersSnapshot{
		{"ChassisNo": "AAA111", "model": "X1"},
		{"chassisNumber": "BBB222", "model": "X2"},
		{"Chassis No": "CCC333", "model": "X3"},
		{"CHASSIS": "DDD444", "model": "X4"},
		{"customer": "no chassis at all"}, // unallocated slot, never registered
	}
	ix := BuildScheduleIndex(orders, cfg)
	assert.Equal(t, 4, ix.Len())

	for chassis, model := range map[string]string{
		"AAA111": "X1", "BBB222": "X2", "CCC333": "X3", "DDD444": "X4",
	} {
		rec, ok := ix.FindScheduleMatch(chassis)
		require.True(t, ok, chassis)
		assert.Equal(t, model, rec.String("model"))
	}
}

func TestBuildScheduleIndexLastWriteWins(t *testing.T) {
	cfg := DefaultConfig()
	orders := domain.OrdersSnapshot{
		{"chassisNo": "ABC123456", "model": "X1"},
		{"chassisNo": "abc123456", "model": "X2"}, // later snapshot entry wins
	}
	ix := BuildScheduleIndex(orders, cfg)
	rec, ok := ix.FindScheduleMatch("ABC123456")
	require.True(t, ok)
	assert.Equal(t, "X2", rec.String("model"))
}
