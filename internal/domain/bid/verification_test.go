//go:build unit

package bid_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zolta/internal/domain/bid"
)

func TestNewVerification(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auctionID := uuid.New()

	v, err := bid.NewVerification(auctionID, "  Alice  ", "Alice@Example.COM", decimal.NewFromInt(60), now, 30*time.Minute)
	require.NoError(t, err)

	assert.Len(t, v.Token(), 64, "32 random bytes hex-encoded")
	assert.Equal(t, "Alice", v.BidderName())
	assert.Equal(t, "alice@example.com", v.BidderEmail())
	assert.Equal(t, now.Add(30*time.Minute), v.ExpiresAt())
	assert.False(t, v.IsUsed())

	other, err := bid.NewVerification(auctionID, "Alice", "alice@example.com", decimal.NewFromInt(60), now, 30*time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, v.Token(), other.Token())
}

func TestVerification_Expiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := bid.NewVerification(uuid.New(), "Alice", "alice@example.com", decimal.NewFromInt(60), now, 30*time.Minute)
	require.NoError(t, err)

	assert.False(t, v.IsExpired(now))
	assert.False(t, v.IsExpired(now.Add(30*time.Minute)), "expiry instant itself is still valid")
	assert.True(t, v.IsExpired(now.Add(30*time.Minute+time.Second)))
}

func TestVerification_MarkUsed(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := bid.NewVerification(uuid.New(), "Alice", "alice@example.com", decimal.NewFromInt(60), now, 30*time.Minute)
	require.NoError(t, err)

	first := now.Add(time.Minute)
	v.MarkUsed(first)
	require.NotNil(t, v.UsedAt())
	assert.Equal(t, first, *v.UsedAt())

	// The first consumption wins.
	v.MarkUsed(now.Add(2 * time.Minute))
	assert.Equal(t, first, *v.UsedAt())
}

func TestNewBid_Validation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auctionID := uuid.New()

	t.Run("normalizes identity", func(t *testing.T) {
		b, err := bid.NewBid(auctionID, " Alice ", " Alice@Example.COM ", decimal.NewFromInt(60), now)
		require.NoError(t, err)
		assert.Equal(t, "Alice", b.BidderName())
		assert.Equal(t, "alice@example.com", b.BidderEmail())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := bid.NewBid(auctionID, "   ", "alice@example.com", decimal.NewFromInt(60), now)
		assert.ErrorIs(t, err, bid.ErrMissingBidderName)
	})

	t.Run("rejects mail without @", func(t *testing.T) {
		_, err := bid.NewBid(auctionID, "Alice", "not-an-email", decimal.NewFromInt(60), now)
		assert.ErrorIs(t, err, bid.ErrInvalidBidderEmail)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := bid.NewBid(auctionID, "Alice", "alice@example.com", decimal.Zero, now)
		assert.ErrorIs(t, err, bid.ErrNonPositiveAmount)
	})
}
