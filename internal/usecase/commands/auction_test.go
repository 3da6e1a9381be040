//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/commands"
)

func newAuctionFixture(t *testing.T) (*fakeStore, *clock.MockClock, commands.AuctionCommands) {
	t.Helper()
	store := newFakeStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	return store, clk, commands.NewAuctionCommands(store, clk)
}

func auctionSpec(start time.Time) auction.Spec {
	return auction.Spec{
		Title:           "Vintage synthesizer",
		MinPrice:        dec("50"),
		MinBidIncrement: dec("5"),
		StartDate:       start,
		EndDate:         start.Add(24 * time.Hour),
		IsActive:        true,
	}
}

func TestCreateAuction(t *testing.T) {
	store, clk, cmds := newAuctionFixture(t)

	id, err := cmds.Create(context.Background(), auctionSpec(clk.Now().Add(time.Hour)))
	require.NoError(t, err)

	created := store.auctions[id]
	require.NotNil(t, created)
	assert.Equal(t, "Vintage synthesizer", created.Title())
	assert.Equal(t, clk.Now(), created.CreatedAt())
}

func TestCreateAuction_ValidationFailure(t *testing.T) {
	_, clk, cmds := newAuctionFixture(t)

	spec := auctionSpec(clk.Now())
	spec.EndDate = spec.StartDate
	_, err := cmds.Create(context.Background(), spec)
	assert.ErrorIs(t, err, errs.ErrDomainValidation)
	assert.ErrorIs(t, err, auction.ErrInvalidAuctionWindow)
}

func TestUpdateAuction_PreservesStampsAndCreatedAt(t *testing.T) {
	store, clk, cmds := newAuctionFixture(t)

	id, err := cmds.Create(context.Background(), auctionSpec(clk.Now().Add(time.Hour)))
	require.NoError(t, err)
	createdAt := store.auctions[id].CreatedAt()

	// Simulate a sweep having already delivered the ending-soon notice.
	stamped := clk.Now().Add(30 * time.Minute)
	_, err = (&fakeAuctionRepo{s: store}).StampEndingSoonNotified(context.Background(), id, stamped)
	require.NoError(t, err)

	clk.Add(time.Hour)
	updatedSpec := auctionSpec(clk.Now().Add(2 * time.Hour))
	updatedSpec.Title = "Modular synthesizer"
	require.NoError(t, cmds.Update(context.Background(), id, updatedSpec))

	updated := store.auctions[id]
	assert.Equal(t, "Modular synthesizer", updated.Title())
	assert.Equal(t, createdAt, updated.CreatedAt())
	require.NotNil(t, updated.EndingSoonNotifiedAt())
	assert.Equal(t, stamped, *updated.EndingSoonNotifiedAt())
	assert.Equal(t, clk.Now(), updated.UpdatedAt())
}

func TestUpdateAuction_Unknown(t *testing.T) {
	_, clk, cmds := newAuctionFixture(t)

	err := cmds.Update(context.Background(), uuid.New(), auctionSpec(clk.Now()))
	assert.ErrorIs(t, err, errs.ErrAuctionNotFound)
}

func TestDeleteAuction_Cascades(t *testing.T) {
	store, clk, cmds := newAuctionFixture(t)

	id, err := cmds.Create(context.Background(), auctionSpec(clk.Now().Add(time.Hour)))
	require.NoError(t, err)

	b, err := bid.NewBid(id, "Alice", "alice@example.com", dec("60"), clk.Now())
	require.NoError(t, err)
	store.bids[id] = append(store.bids[id], b)
	v, err := bid.NewVerification(id, "Bob", "bob@example.com", dec("65"), clk.Now(), 30*time.Minute)
	require.NoError(t, err)
	store.verifs[v.Token()] = v

	require.NoError(t, cmds.Delete(context.Background(), id))

	assert.NotContains(t, store.auctions, id)
	assert.Empty(t, store.bids[id])
	assert.Empty(t, store.verifs)

	assert.ErrorIs(t, cmds.Delete(context.Background(), id), errs.ErrAuctionNotFound)
}
