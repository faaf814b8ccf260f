package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

func TestIsStockCustomer(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Riverside Motors Stock", true},
		{"riverside motors stock", true},
		{"STOCK", true},
		{"Stockton Smith", false}, // word, not substring
		{"Jane Stockwell", false},
		{"Jane Smith", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsStockCustomer(tt.in), "input %q", tt.in)
	}
}

func TestIsStockLikeRecordPrecedence(t *testing.T) {
	cfg := DefaultConfig()

	// The schedule customer is authoritative and wins on its own.
	assert.True(t, IsStockLikeRecord(cfg, domain.Record{}, "Riverside Motors Stock"))

	// Without a schedule signal the record's own hint fields are consulted.
	assert.True(t, IsStockLikeRecord(cfg, domain.Record{"type": "Stock unit"}, ""))
	assert.True(t, IsStockLikeRecord(cfg, domain.Record{"category": "DEALER STOCK"}, "Jane Smith"))
	assert.True(t, IsStockLikeRecord(cfg, domain.Record{"customer": "Hilltop Stock"}, ""))

	// A committed customer with no stock hint stays a customer unit.
	assert.False(t, IsStockLikeRecord(cfg, domain.Record{"type": "Retail"}, "Jane Smith"))
}

func TestIsStockLikeRecordDefaultsToCustomer(t *testing.T) {
	// Absence of any signal classifies as Customer.
	assert.False(t, IsStockLikeRecord(DefaultConfig(), domain.Record{}, ""))
}
