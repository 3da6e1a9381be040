//go:build unit

package queries_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/infra"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/queries"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeReadStore struct {
	auctions map[uuid.UUID]*auction.Auction
	bids     map[uuid.UUID][]*bid.Bid
}

func newFakeReadStore() *fakeReadStore {
	return &fakeReadStore{
		auctions: make(map[uuid.UUID]*auction.Auction),
		bids:     make(map[uuid.UUID][]*bid.Bid),
	}
}

func (s *fakeReadStore) FindAuction(_ context.Context, id uuid.UUID) (*auction.Auction, error) {
	a, ok := s.auctions[id]
	if !ok {
		return nil, infra.WrapRepoErr("auction not found", pgx.ErrNoRows)
	}
	return a, nil
}

func (s *fakeReadStore) FindAuctionStats(ctx context.Context, id uuid.UUID) (*queries.AuctionStats, error) {
	a, err := s.FindAuction(ctx, id)
	if err != nil {
		return nil, err
	}
	st := &queries.AuctionStats{Auction: a, BidCount: int64(len(s.bids[id]))}
	if ranked := s.ranked(id); len(ranked) > 0 {
		amount := ranked[0].Amount()
		st.HighestAmount = &amount
	}
	return st, nil
}

func (s *fakeReadStore) ListAuctionStats(ctx context.Context) ([]*queries.AuctionStats, error) {
	var out []*queries.AuctionStats
	for id := range s.auctions {
		st, err := s.FindAuctionStats(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Auction.EndDate().Before(out[j].Auction.EndDate())
	})
	return out, nil
}

func (s *fakeReadStore) TopBids(_ context.Context, auctionID uuid.UUID, limit int32) ([]*bid.Bid, error) {
	ranked := s.ranked(auctionID)
	if int32(len(ranked)) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (s *fakeReadStore) AllBids(_ context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	return s.ranked(auctionID), nil
}

func (s *fakeReadStore) HighestBid(_ context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	ranked := s.ranked(auctionID)
	if len(ranked) == 0 {
		return nil, infra.WrapRepoErr("no bids for auction", pgx.ErrNoRows)
	}
	return ranked[0], nil
}

// ranked orders by amount descending, earliest first on equal amounts.
func (s *fakeReadStore) ranked(auctionID uuid.UUID) []*bid.Bid {
	ranked := append([]*bid.Bid(nil), s.bids[auctionID]...)
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Amount().Equal(ranked[j].Amount()) {
			return ranked[i].Amount().GreaterThan(ranked[j].Amount())
		}
		return ranked[i].CreatedAt().Before(ranked[j].CreatedAt())
	})
	return ranked
}

type queryFixture struct {
	store *fakeReadStore
	clk   *clock.MockClock
	q     queries.AuctionQueries
}

func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()
	store := newFakeReadStore()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC))
	return &queryFixture{store: store, clk: clk, q: queries.NewAuctionQueries(store, clk, 10)}
}

func (f *queryFixture) addAuction(t *testing.T, mutate func(s *auction.Spec)) *auction.Auction {
	t.Helper()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	spec := auction.Spec{
		Title:           "Vintage synthesizer",
		MinPrice:        dec("50"),
		MinBidIncrement: dec("5"),
		StartDate:       start,
		EndDate:         start.Add(24 * time.Hour),
		IsActive:        true,
	}
	if mutate != nil {
		mutate(&spec)
	}
	a, err := auction.NewAuction(spec, start.Add(-time.Hour))
	require.NoError(t, err)
	f.store.auctions[a.ID()] = a
	return a
}

func (f *queryFixture) addBid(t *testing.T, a *auction.Auction, name, email, amount string, at time.Time) {
	t.Helper()
	b, err := bid.NewBid(a.ID(), name, email, dec(amount), at)
	require.NoError(t, err)
	f.store.bids[a.ID()] = append(f.store.bids[a.ID()], b)
}

func TestGetSnapshot_NoBids(t *testing.T) {
	f := newQueryFixture(t)
	a := f.addAuction(t, nil)

	snap, err := f.q.GetSnapshot(context.Background(), a.ID(), "")
	require.NoError(t, err)

	assert.Equal(t, "active", snap.Status)
	assert.True(t, snap.CurrentPrice.Equal(dec("50")), "falls back to the floor price")
	assert.Zero(t, snap.BidCount)
	assert.Nil(t, snap.HighestBidder)
	assert.Empty(t, snap.RecentBids)
	assert.Nil(t, snap.Winner)
}

func TestGetSnapshot_LeaderFirst(t *testing.T) {
	f := newQueryFixture(t)
	a := f.addAuction(t, nil)
	start := a.StartDate()
	f.addBid(t, a, "Alice", "alice@example.com", "60", start.Add(10*time.Minute))
	f.addBid(t, a, "Bob", "bob@example.com", "70", start.Add(20*time.Minute))
	f.addBid(t, a, "Carol", "carol@example.com", "65", start.Add(30*time.Minute))

	snap, err := f.q.GetSnapshot(context.Background(), a.ID(), "")
	require.NoError(t, err)

	assert.True(t, snap.CurrentPrice.Equal(dec("70")))
	assert.Equal(t, int64(3), snap.BidCount)
	require.NotNil(t, snap.HighestBidder)
	assert.Equal(t, "Bob", *snap.HighestBidder)
	require.Len(t, snap.RecentBids, 3)
	assert.Equal(t, "Bob", snap.RecentBids[0].BidderName)
}

func TestGetSnapshot_WinnerDisclosure(t *testing.T) {
	f := newQueryFixture(t)
	a := f.addAuction(t, func(s *auction.Spec) {
		s.WinnerInstructions = "Wire payment within 48 hours."
	})
	f.addBid(t, a, "Bob", "bob@example.com", "70", a.StartDate().Add(20*time.Minute))

	t.Run("hidden while running", func(t *testing.T) {
		snap, err := f.q.GetSnapshot(context.Background(), a.ID(), "bob@example.com")
		require.NoError(t, err)
		assert.Nil(t, snap.Winner)
	})

	f.clk.Set(a.EndDate().Add(time.Minute))

	t.Run("anonymous viewer sees the name only", func(t *testing.T) {
		snap, err := f.q.GetSnapshot(context.Background(), a.ID(), "")
		require.NoError(t, err)
		require.NotNil(t, snap.Winner)
		assert.Equal(t, "Bob", snap.Winner.Name)
		assert.False(t, snap.Winner.ViewerIsWinner)
		assert.Empty(t, snap.Winner.Instructions)
	})

	t.Run("losing viewer sees no instructions", func(t *testing.T) {
		snap, err := f.q.GetSnapshot(context.Background(), a.ID(), "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, snap.Winner)
		assert.False(t, snap.Winner.ViewerIsWinner)
		assert.Empty(t, snap.Winner.Instructions)
	})

	t.Run("winning viewer gets the instructions", func(t *testing.T) {
		snap, err := f.q.GetSnapshot(context.Background(), a.ID(), "Bob@Example.com")
		require.NoError(t, err)
		require.NotNil(t, snap.Winner)
		assert.True(t, snap.Winner.ViewerIsWinner)
		assert.Equal(t, "Wire payment within 48 hours.", snap.Winner.Instructions)
	})
}

func TestGetSnapshot_AllowedDomains(t *testing.T) {
	f := newQueryFixture(t)
	hidden := f.addAuction(t, func(s *auction.Spec) {
		s.WhitelistedDomains = "example.com"
	})
	shown := f.addAuction(t, func(s *auction.Spec) {
		s.WhitelistedDomains = "example.com, corp.org"
		s.ShowAllowedDomains = true
	})

	snapHidden, err := f.q.GetSnapshot(context.Background(), hidden.ID(), "")
	require.NoError(t, err)
	assert.Empty(t, snapHidden.AllowedDomains)

	snapShown, err := f.q.GetSnapshot(context.Background(), shown.ID(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "corp.org"}, snapShown.AllowedDomains)
}

func TestGetSnapshot_UnknownAuction(t *testing.T) {
	f := newQueryFixture(t)

	_, err := f.q.GetSnapshot(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, errs.ErrAuctionNotFound)
}

func TestListDirectory_Partitions(t *testing.T) {
	f := newQueryFixture(t)
	now := f.clk.Now()

	running := f.addAuction(t, nil)
	upcomingLate := f.addAuction(t, func(s *auction.Spec) {
		s.Title = "Upcoming late"
		s.StartDate = now.Add(48 * time.Hour)
		s.EndDate = now.Add(72 * time.Hour)
	})
	upcomingSoon := f.addAuction(t, func(s *auction.Spec) {
		s.Title = "Upcoming soon"
		s.StartDate = now.Add(2 * time.Hour)
		s.EndDate = now.Add(4 * time.Hour)
	})
	ended := f.addAuction(t, func(s *auction.Spec) {
		s.Title = "Ended"
		s.StartDate = now.Add(-48 * time.Hour)
		s.EndDate = now.Add(-24 * time.Hour)
	})
	f.addAuction(t, func(s *auction.Spec) {
		s.Title = "Hidden"
		s.IsActive = false
	})

	dir, err := f.q.ListDirectory(context.Background())
	require.NoError(t, err)

	require.Len(t, dir.Active, 1)
	assert.Equal(t, running.ID(), dir.Active[0].ID)

	gotUpcoming := make([]uuid.UUID, len(dir.Upcoming))
	for i, item := range dir.Upcoming {
		gotUpcoming[i] = item.ID
	}
	if diff := cmp.Diff([]uuid.UUID{upcomingSoon.ID(), upcomingLate.ID()}, gotUpcoming); diff != "" {
		t.Errorf("upcoming should sort by soonest start (-want +got):\n%s", diff)
	}

	require.Len(t, dir.Ended, 1)
	assert.Equal(t, ended.ID(), dir.Ended[0].ID)
}

func TestListBidsAdmin_IncludesEmails(t *testing.T) {
	f := newQueryFixture(t)
	a := f.addAuction(t, nil)
	f.addBid(t, a, "Alice", "alice@example.com", "60", a.StartDate().Add(10*time.Minute))

	public, err := f.q.ListBids(context.Background(), a.ID())
	require.NoError(t, err)
	require.Len(t, public, 1)

	admin, err := f.q.ListBidsAdmin(context.Background(), a.ID())
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, "alice@example.com", admin[0].BidderEmail)
}
