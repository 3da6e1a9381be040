package queries

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/infra"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/errs"
)

type AuctionQueries interface {
	// GetSnapshot builds the public point-in-time view. viewerEmail may be
	// empty; it only affects post-end winner disclosure.
	GetSnapshot(ctx context.Context, auctionID uuid.UUID, viewerEmail string) (*AuctionSnapshot, error)
	ListDirectory(ctx context.Context) (*AuctionDirectory, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]BidView, error)
	ListBidsAdmin(ctx context.Context, auctionID uuid.UUID) ([]AdminBidView, error)
	ListAdmin(ctx context.Context) ([]AdminAuctionView, error)
}

// AuctionStats pairs an auction with its ledger aggregates.
type AuctionStats struct {
	Auction       *auction.Auction
	BidCount      int64
	HighestAmount *decimal.Decimal
}

type AuctionReadStore interface {
	FindAuction(ctx context.Context, id uuid.UUID) (*auction.Auction, error)
	FindAuctionStats(ctx context.Context, id uuid.UUID) (*AuctionStats, error)
	ListAuctionStats(ctx context.Context) ([]*AuctionStats, error)
	TopBids(ctx context.Context, auctionID uuid.UUID, limit int32) ([]*bid.Bid, error)
	AllBids(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error)
	HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error)
}

type auctionQueriesImpl struct {
	store          AuctionReadStore
	clock          clock.Clock
	recentBidLimit int32
	endedTailLimit int
}

func NewAuctionQueries(store AuctionReadStore, clk clock.Clock, recentBidLimit int) AuctionQueries {
	if recentBidLimit <= 0 {
		recentBidLimit = 10
	}
	return &auctionQueriesImpl{
		store:          store,
		clock:          clk,
		recentBidLimit: int32(recentBidLimit),
		endedTailLimit: 10,
	}
}

func (q *auctionQueriesImpl) GetSnapshot(ctx context.Context, auctionID uuid.UUID, viewerEmail string) (*AuctionSnapshot, error) {
	stats, err := q.store.FindAuctionStats(ctx, auctionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrAuctionNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	recent, err := q.store.TopBids(ctx, auctionID, q.recentBidLimit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	a := stats.Auction
	now := q.clock.Now()
	status := a.StatusAt(now)

	snap := &AuctionSnapshot{
		AuctionID:       a.ID(),
		Title:           a.Title(),
		Status:          status.String(),
		CurrentPrice:    a.CurrentPrice(stats.HighestAmount),
		MinBidIncrement: a.MinBidIncrement(),
		BidCount:        stats.BidCount,
		StartDate:       a.StartDate(),
		EndDate:         a.EndDate(),
		RecentBids:      toBidViews(recent),
	}

	if a.ShowAllowedDomains() && !a.Whitelist().IsEmpty() {
		snap.AllowedDomains = a.Whitelist().Domains()
	}

	if len(recent) > 0 {
		name := recent[0].BidderName()
		snap.HighestBidder = &name
	}

	// Winner identity stays hidden until the auction has actually ended, and
	// the instructions are shown to the winning email only.
	if status == auction.StatusEnded && len(recent) > 0 {
		leader := recent[0]
		winner := &WinnerView{Name: leader.BidderName()}
		if viewerEmail != "" && strings.EqualFold(strings.TrimSpace(viewerEmail), leader.BidderEmail()) {
			winner.ViewerIsWinner = true
			winner.Instructions = a.WinnerInstructions()
		}
		snap.Winner = winner
	}

	return snap, nil
}

func (q *auctionQueriesImpl) ListDirectory(ctx context.Context) (*AuctionDirectory, error) {
	all, err := q.store.ListAuctionStats(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := q.clock.Now()
	dir := &AuctionDirectory{
		Active:   []AuctionListItem{},
		Upcoming: []AuctionListItem{},
		Ended:    []AuctionListItem{},
	}

	// ListAuctionStats orders by end date ascending, which is already the
	// order the active section wants.
	for _, st := range all {
		status := st.Auction.StatusAt(now)
		item := toListItem(st, status)
		switch status {
		case auction.StatusActive:
			dir.Active = append(dir.Active, item)
		case auction.StatusUpcoming:
			dir.Upcoming = append(dir.Upcoming, item)
		case auction.StatusEnded:
			dir.Ended = append(dir.Ended, item)
		case auction.StatusInactive:
			// hidden from the public directory
		}
	}

	sort.Slice(dir.Upcoming, func(i, j int) bool {
		return dir.Upcoming[i].StartDate.Before(dir.Upcoming[j].StartDate)
	})
	sort.Slice(dir.Ended, func(i, j int) bool {
		return dir.Ended[i].EndDate.After(dir.Ended[j].EndDate)
	})
	if len(dir.Ended) > q.endedTailLimit {
		dir.Ended = dir.Ended[:q.endedTailLimit]
	}

	return dir, nil
}

func (q *auctionQueriesImpl) ListBids(ctx context.Context, auctionID uuid.UUID) ([]BidView, error) {
	if _, err := q.findAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := q.store.TopBids(ctx, auctionID, q.recentBidLimit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return toBidViews(bids), nil
}

func (q *auctionQueriesImpl) ListBidsAdmin(ctx context.Context, auctionID uuid.UUID) ([]AdminBidView, error) {
	if _, err := q.findAuction(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := q.store.AllBids(ctx, auctionID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]AdminBidView, len(bids))
	for i, b := range bids {
		views[i] = AdminBidView{
			ID:          b.ID(),
			BidderName:  b.BidderName(),
			BidderEmail: b.BidderEmail(),
			Amount:      b.Amount(),
			CreatedAt:   b.CreatedAt(),
		}
	}
	return views, nil
}

func (q *auctionQueriesImpl) ListAdmin(ctx context.Context) ([]AdminAuctionView, error) {
	all, err := q.store.ListAuctionStats(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	now := q.clock.Now()
	views := make([]AdminAuctionView, len(all))
	for i, st := range all {
		a := st.Auction
		views[i] = AdminAuctionView{
			ID:                       a.ID(),
			Title:                    a.Title(),
			Description:              a.Description(),
			MinPrice:                 a.MinPrice(),
			MaxPrice:                 a.MaxPrice(),
			MinBidIncrement:          a.MinBidIncrement(),
			MaxBidIncrement:          a.MaxBidIncrement(),
			StartDate:                a.StartDate(),
			EndDate:                  a.EndDate(),
			RequireEmailConfirmation: a.RequireEmailConfirmation(),
			WhitelistedDomains:       a.Whitelist().String(),
			ShowAllowedDomains:       a.ShowAllowedDomains(),
			NotifyWinner:             a.NotifyWinner(),
			WinnerInstructions:       a.WinnerInstructions(),
			IsActive:                 a.IsActive(),
			Status:                   a.StatusAt(now).String(),
			CurrentPrice:             a.CurrentPrice(st.HighestAmount),
			BidCount:                 st.BidCount,
			EndingSoonNotifiedAt:     a.EndingSoonNotifiedAt(),
			EndedNotifiedAt:          a.EndedNotifiedAt(),
			CreatedAt:                a.CreatedAt(),
		}
	}
	return views, nil
}

func (q *auctionQueriesImpl) findAuction(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	a, err := q.store.FindAuction(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrAuctionNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return a, nil
}

func toBidViews(bids []*bid.Bid) []BidView {
	views := make([]BidView, len(bids))
	for i, b := range bids {
		views[i] = BidView{
			ID:         b.ID(),
			BidderName: b.BidderName(),
			Amount:     b.Amount(),
			CreatedAt:  b.CreatedAt(),
		}
	}
	return views
}

func toListItem(st *AuctionStats, status auction.Status) AuctionListItem {
	a := st.Auction
	return AuctionListItem{
		ID:           a.ID(),
		Title:        a.Title(),
		Description:  a.Description(),
		Status:       status.String(),
		CurrentPrice: a.CurrentPrice(st.HighestAmount),
		BidCount:     st.BidCount,
		StartDate:    a.StartDate(),
		EndDate:      a.EndDate(),
	}
}
