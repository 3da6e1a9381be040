package readstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/infra"
	"zolta/internal/infra/db"
	"zolta/internal/usecase/queries"
)

// AuctionReadStore serves the query side with denormalized auction rows:
// each auction joined to its ledger aggregates in one round trip.
type AuctionReadStore struct {
	db db.DBTX
}

func NewAuctionReadStore(dbtx db.DBTX) *AuctionReadStore {
	return &AuctionReadStore{db: dbtx}
}

const statsQuery = `
	SELECT
		a.id, a.title, a.description,
		a.min_price::text, a.max_price::text,
		a.min_bid_increment::text, a.max_bid_increment::text,
		a.start_date, a.end_date,
		a.require_email_confirmation, a.whitelisted_domains, a.show_allowed_domains,
		a.notify_winner, a.winner_instructions, a.is_active,
		a.ending_soon_notified_at, a.ended_notified_at,
		a.created_at, a.updated_at,
		COUNT(b.id), MAX(b.amount)::text
	FROM auctions a
	LEFT JOIN bids b ON b.auction_id = a.id`

const statsGroupBy = ` GROUP BY a.id`

func (s *AuctionReadStore) FindAuction(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	st, err := s.FindAuctionStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return st.Auction, nil
}

func (s *AuctionReadStore) FindAuctionStats(ctx context.Context, id uuid.UUID) (*queries.AuctionStats, error) {
	row := s.db.QueryRow(ctx, statsQuery+` WHERE a.id = $1`+statsGroupBy, id)
	st, err := scanStats(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find auction stats", err)
	}
	return st, nil
}

func (s *AuctionReadStore) ListAuctionStats(ctx context.Context) ([]*queries.AuctionStats, error) {
	rows, err := s.db.Query(ctx, statsQuery+statsGroupBy+` ORDER BY a.end_date ASC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list auction stats", err)
	}
	defer rows.Close()

	var all []*queries.AuctionStats
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan auction stats", err)
		}
		all = append(all, st)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read auction stats", err)
	}
	return all, nil
}

// TopBids returns the leading bids: highest amount first, earliest created
// breaking ties, so the first element is always the current leader.
func (s *AuctionReadStore) TopBids(ctx context.Context, auctionID uuid.UUID, limit int32) ([]*bid.Bid, error) {
	return s.queryBids(ctx, `
		SELECT id, auction_id, bidder_name, bidder_email, amount::text, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT $2`, auctionID, limit)
}

func (s *AuctionReadStore) AllBids(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	return s.queryBids(ctx, `
		SELECT id, auction_id, bidder_name, bidder_email, amount::text, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC`, auctionID)
}

func (s *AuctionReadStore) HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	bids, err := s.TopBids(ctx, auctionID, 1)
	if err != nil {
		return nil, err
	}
	if len(bids) == 0 {
		return nil, infra.WrapRepoErr("no bids for auction", pgx.ErrNoRows)
	}
	return bids[0], nil
}

func (s *AuctionReadStore) queryBids(ctx context.Context, sql string, args ...any) ([]*bid.Bid, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query bids", err)
	}
	defer rows.Close()

	var bids []*bid.Bid
	for rows.Next() {
		var (
			id, auctionID           uuid.UUID
			bidderName, bidderEmail string
			amountStr               string
			createdAt               time.Time
		)
		if err := rows.Scan(&id, &auctionID, &bidderName, &bidderEmail, &amountStr, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan bid", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to parse bid amount", err)
		}
		bids = append(bids, bid.ReconstructBid(id, auctionID, bidderName, bidderEmail, amount, createdAt))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bids", err)
	}
	return bids, nil
}

func scanStats(row pgx.Row) (*queries.AuctionStats, error) {
	var (
		id                             uuid.UUID
		title, description             string
		minPriceStr                    string
		maxPriceStr                    *string
		minIncrStr                     string
		maxIncrStr                     *string
		startDate, endDate             time.Time
		requireConfirm                 bool
		whitelisted                    string
		showDomains, notifyWinner      bool
		winnerInstructions             string
		isActive                       bool
		endingSoonNotified, endedNotif *time.Time
		createdAt, updatedAt           time.Time
		bidCount                       int64
		highestStr                     *string
	)

	err := row.Scan(
		&id, &title, &description,
		&minPriceStr, &maxPriceStr,
		&minIncrStr, &maxIncrStr,
		&startDate, &endDate,
		&requireConfirm, &whitelisted, &showDomains,
		&notifyWinner, &winnerInstructions, &isActive,
		&endingSoonNotified, &endedNotif,
		&createdAt, &updatedAt,
		&bidCount, &highestStr,
	)
	if err != nil {
		return nil, err
	}

	minPrice, err := decimal.NewFromString(minPriceStr)
	if err != nil {
		return nil, err
	}
	maxPrice, err := optionalDecimal(maxPriceStr)
	if err != nil {
		return nil, err
	}
	minIncr, err := decimal.NewFromString(minIncrStr)
	if err != nil {
		return nil, err
	}
	maxIncr, err := optionalDecimal(maxIncrStr)
	if err != nil {
		return nil, err
	}
	highest, err := optionalDecimal(highestStr)
	if err != nil {
		return nil, err
	}

	spec := auction.Spec{
		Title:                    title,
		Description:              description,
		MinPrice:                 minPrice,
		MaxPrice:                 maxPrice,
		MinBidIncrement:          minIncr,
		MaxBidIncrement:          maxIncr,
		StartDate:                startDate,
		EndDate:                  endDate,
		RequireEmailConfirmation: requireConfirm,
		WhitelistedDomains:       whitelisted,
		ShowAllowedDomains:       showDomains,
		NotifyWinner:             notifyWinner,
		WinnerInstructions:       winnerInstructions,
		IsActive:                 isActive,
	}

	return &queries.AuctionStats{
		Auction:       auction.ReconstructAuction(id, spec, endingSoonNotified, endedNotif, createdAt, updatedAt),
		BidCount:      bidCount,
		HighestAmount: highest,
	}, nil
}

func optionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
