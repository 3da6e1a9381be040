//go:build unit

package realtime_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zolta/internal/realtime"
	"zolta/internal/usecase/queries"
)

func snap(auctionID uuid.UUID, bidCount int64) *queries.AuctionSnapshot {
	return &queries.AuctionSnapshot{AuctionID: auctionID, BidCount: bidCount}
}

func TestHub_FanOut(t *testing.T) {
	h := realtime.NewHub(16)
	defer h.Close()
	auctionID := uuid.New()

	ch1, cancel1 := h.Subscribe(auctionID)
	defer cancel1()
	ch2, cancel2 := h.Subscribe(auctionID)
	defer cancel2()
	other, cancelOther := h.Subscribe(uuid.New())
	defer cancelOther()

	h.Publish(auctionID, snap(auctionID, 1))

	assert.Equal(t, int64(1), (<-ch1).BidCount)
	assert.Equal(t, int64(1), (<-ch2).BidCount)
	assert.Empty(t, other, "watchers of other auctions see nothing")
}

func TestHub_SlowSubscriberDropsSnapshots(t *testing.T) {
	h := realtime.NewHub(1)
	defer h.Close()
	auctionID := uuid.New()

	ch, cancel := h.Subscribe(auctionID)
	defer cancel()

	// The queue holds one; the next two publishes are dropped, not blocked.
	h.Publish(auctionID, snap(auctionID, 1))
	h.Publish(auctionID, snap(auctionID, 2))
	h.Publish(auctionID, snap(auctionID, 3))

	assert.Equal(t, int64(1), (<-ch).BidCount)
	assert.Empty(t, ch)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	h := realtime.NewHub(16)
	defer h.Close()
	auctionID := uuid.New()

	ch, cancel := h.Subscribe(auctionID)
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open, "cancel closes the channel")

	// A publish after cancel must not reach (or panic on) the closed channel.
	h.Publish(auctionID, snap(auctionID, 1))
}

func TestHub_Close(t *testing.T) {
	h := realtime.NewHub(16)
	auctionID := uuid.New()

	ch, cancel := h.Subscribe(auctionID)
	h.Close()

	_, open := <-ch
	require.False(t, open, "close drains every subscriber")

	h.Publish(auctionID, snap(auctionID, 1))

	late, lateCancel := h.Subscribe(auctionID)
	_, open = <-late
	assert.False(t, open, "subscriptions after close are born closed")

	cancel()
	lateCancel()
}
