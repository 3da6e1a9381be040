// Package realtime fans committed price updates out to live watchers over
// websockets and SSE.
package realtime

import (
	"sync"

	"github.com/google/uuid"

	"zolta/internal/usecase/queries"
)

// Hub is an in-process pub/sub registry keyed by auction. Delivery is
// best-effort: a watcher that cannot keep up loses intermediate snapshots,
// never the connection. Each snapshot is self-contained so the latest one is
// always enough.
type Hub struct {
	mu        sync.RWMutex
	queueSize int
	nextID    uint64
	subs      map[uuid.UUID]map[uint64]chan *queries.AuctionSnapshot
	closed    bool
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &Hub{
		queueSize: queueSize,
		subs:      make(map[uuid.UUID]map[uint64]chan *queries.AuctionSnapshot),
	}
}

// Subscribe registers a watcher for one auction. The returned cancel is
// idempotent and closes the channel.
func (h *Hub) Subscribe(auctionID uuid.UUID) (<-chan *queries.AuctionSnapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan *queries.AuctionSnapshot, h.queueSize)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	h.nextID++
	id := h.nextID

	if h.subs[auctionID] == nil {
		h.subs[auctionID] = make(map[uint64]chan *queries.AuctionSnapshot)
	}
	h.subs[auctionID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[auctionID]; ok {
				if _, ok := set[id]; ok {
					delete(set, id)
					close(ch)
					if len(set) == 0 {
						delete(h.subs, auctionID)
					}
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers the snapshot to every watcher of the auction without
// blocking; full queues are skipped.
func (h *Hub) Publish(auctionID uuid.UUID, snap *queries.AuctionSnapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs[auctionID] {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close shuts the hub down; all subscriber channels are closed and later
// publishes become no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, set := range h.subs {
		for _, ch := range set {
			close(ch)
		}
	}
	h.subs = make(map[uuid.UUID]map[uint64]chan *queries.AuctionSnapshot)
}
