// Package snapshot keeps the latest delivery of every upstream stream and
// hands out internally consistent captures to the planner. Snapshots are
// replaced wholesale, never mutated in place, so a capture taken before a
// replacement stays valid for the whole aggregation pass.
package snapshot

import (
	"sync"
	"time"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
)

// Stream names used in snapshot metadata.
const (
	StreamOrders    = "orders"
	StreamYard      = "yard"
	StreamHandovers = "handovers"
	StreamPGI       = "pgi"
	StreamConfig    = "config"
)

// Hub is the single holder of stream state. Writers replace snapshots via
// the Apply methods; readers take a Capture. A buffered, coalescing channel
// signals "something changed, recompute" without queueing one event per
// delivery.
type Hub struct {
	mu      sync.RWMutex
	set     domain.SnapshotSet
	changes chan struct{}
	clock   func() time.Time
}

// NewHub returns an empty hub. "No snapshot yet" is a valid state; captures
// taken before any delivery simply produce empty derived views.
func NewHub() *Hub {
	return &Hub{
		changes: make(chan struct{}, 1),
		clock:   time.Now,
		set: domain.SnapshotSet{
			Meta: make(map[string]domain.SnapshotMeta),
		},
	}
}

// Changes delivers one signal per burst of snapshot replacements.
func (h *Hub) Changes() <-chan struct{} {
	return h.changes
}

// Capture returns one consistent view of everything the hub holds. The
// top-level maps are copied; the per-record maps inside are never mutated
// after Apply, so sharing them is safe.
func (h *Hub) Capture() domain.SnapshotSet {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := h.set
	out.Yard = copyOuter(h.set.Yard)
	out.Handovers = copyOuter(h.set.Handovers)
	out.Meta = make(map[string]domain.SnapshotMeta, len(h.set.Meta))
	for k, v := range h.set.Meta {
		out.Meta[k] = v
	}
	return out
}

// ApplyOrders replaces the order book snapshot.
func (h *Hub) ApplyOrders(orders domain.OrdersSnapshot) {
	h.apply(func() int {
		h.set.Orders = orders
		return len(orders)
	}, StreamOrders)
}

// ApplyYardAll replaces the yard snapshot for every dealer at once.
func (h *Hub) ApplyYardAll(yard domain.YardSnapshot) {
	h.apply(func() int {
		h.set.Yard = yard
		n := 0
		for _, entries := range yard {
			n += len(entries)
		}
		return n
	}, StreamYard)
}

// ApplyYard replaces one dealer's yard entries. The outer map is rebuilt so
// captures handed out earlier keep the previous view.
func (h *Hub) ApplyYard(dealer string, entries map[string]domain.Record) {
	h.apply(func() int {
		next := copyOuter(h.set.Yard)
		next[dealer] = entries
		h.set.Yard = next
		return len(entries)
	}, StreamYard)
}

// ApplyHandoversAll replaces the handover snapshot for every dealer.
func (h *Hub) ApplyHandoversAll(handovers domain.HandoverSnapshot) {
	h.apply(func() int {
		h.set.Handovers = handovers
		n := 0
		for _, recs := range handovers {
			n += len(recs)
		}
		return n
	}, StreamHandovers)
}

// ApplyHandovers replaces one dealer's handover history.
func (h *Hub) ApplyHandovers(dealer string, recs map[string]domain.Record) {
	h.apply(func() int {
		next := copyOuter(h.set.Handovers)
		next[dealer] = recs
		h.set.Handovers = next
		return len(recs)
	}, StreamHandovers)
}

// ApplyPGI replaces the factory dispatch snapshot.
func (h *Hub) ApplyPGI(pgi domain.PGISnapshot) {
	h.apply(func() int {
		h.set.PGI = pgi
		return len(pgi)
	}, StreamPGI)
}

// ApplyConfig replaces the configuration snapshot. Operator writes land in
// the store first and are observed here as a fresh snapshot.
func (h *Hub) ApplyConfig(cfg domain.ConfigSnapshot) {
	h.apply(func() int {
		h.set.Config = cfg
		return len(cfg.Dealers)
	}, StreamConfig)
}

func (h *Hub) apply(mutate func() int, stream string) {
	h.mu.Lock()
	records := mutate()
	h.set.Version++
	h.set.Meta[stream] = domain.SnapshotMeta{
		Stream:     stream,
		ReceivedAt: h.clock(),
		Records:    records,
	}
	h.mu.Unlock()

	select {
	case h.changes <- struct{}{}:
	default: // a recompute is already pending
	}
}

func copyOuter[M ~map[string]map[string]domain.Record](m M) M {
	out := make(M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
