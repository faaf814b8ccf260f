package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

func TestHubCaptureIsConsistent(t *testing.T) {
	h := NewHub()
	h.ApplyOrders(domain.OrdersSnapshot{{"chassisNo": "AAA111"}})
	h.ApplyYard("riverside-motors", map[string]domain.Record{"AAA111": {}})

	before := h.Capture()
	require.Len(t, before.Yard["riverside-motors"], 1)

	// A later per-dealer delivery must not leak into the earlier capture.
	h.ApplyYard("riverside-motors", map[string]domain.Record{
		"AAA111": {}, "BBB222": {},
	})
	assert.Len(t, before.Yard["riverside-motors"], 1)
	assert.Len(t, h.Capture().Yard["riverside-motors"], 2)
}

func TestHubVersionAndMeta(t *testing.T) {
	h := NewHub()
	assert.Equal(t, uint64(0), h.Capture().Version)

	h.ApplyOrders(domain.OrdersSnapshot{{}, {}})
	h.ApplyPGI(domain.PGISnapshot{"AAA111": {}})

	set := h.Capture()
	assert.Equal(t, uint64(2), set.Version)
	assert.Equal(t, 2, set.Meta[StreamOrders].Records)
	assert.Equal(t, 1, set.Meta[StreamPGI].Records)
	assert.False(t, set.Meta[StreamOrders].ReceivedAt.IsZero())
}

func TestHubChangesCoalesce(t *testing.T) {
	h := NewHub()
	h.ApplyOrders(nil)
	h.ApplyHandoversAll(nil)
	h.ApplyConfig(domain.ConfigSnapshot{})

	// Three deliveries in a burst collapse to one pending signal.
	select {
	case <-h.Changes():
	default:
		t.Fatal("expected a pending change signal")
	}
	select {
	case <-h.Changes():
		t.Fatal("signals must coalesce")
	default:
	}
}

func TestHubEmptyCaptureIsValid(t *testing.T) {
	set := NewHub().Capture()
	assert.Empty(t, set.Orders)
	assert.Empty(t, set.Yard)
	assert.Empty(t, set.Handovers)
	assert.Empty(t, set.PGI)
}
