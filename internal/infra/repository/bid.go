package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/bid"
	"zolta/internal/infra"
	"zolta/internal/infra/db"
)

type BidRepository struct {
	db db.DBTX
}

func NewBidRepository(dbtx db.DBTX) *BidRepository {
	return &BidRepository{db: dbtx}
}

func (r *BidRepository) Append(ctx context.Context, b *bid.Bid) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bids (id, auction_id, bidder_name, bidder_email, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID(), b.AuctionID(), b.BidderName(), b.BidderEmail(), b.Amount().String(), b.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append bid", err)
	}
	return nil
}

func (r *BidRepository) HighestAmount(ctx context.Context, auctionID uuid.UUID) (*decimal.Decimal, error) {
	var amountStr *string
	err := r.db.QueryRow(ctx,
		`SELECT MAX(amount)::text FROM bids WHERE auction_id = $1`, auctionID,
	).Scan(&amountStr)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query highest bid amount", err)
	}
	amount, err := parseOptionalDecimal(amountStr)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse highest bid amount", err)
	}
	return amount, nil
}

func (r *BidRepository) DistinctBidderEmails(ctx context.Context, auctionID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT bidder_email FROM bids WHERE auction_id = $1`, auctionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query bidder emails", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, infra.WrapRepoErr("failed to scan bidder email", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read bidder emails", err)
	}
	return emails, nil
}

// HighestBid returns the current leader: highest amount, earliest created on
// a tie.
func (r *BidRepository) HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, auction_id, bidder_name, bidder_email, amount::text, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, created_at ASC
		LIMIT 1`, auctionID)
	b, err := scanBid(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no bids for auction", err)
		}
		return nil, infra.WrapRepoErr("failed to query highest bid", err)
	}
	return b, nil
}

func scanBid(row pgx.Row) (*bid.Bid, error) {
	var (
		id, auctionID           uuid.UUID
		bidderName, bidderEmail string
		amountStr               string
		createdAt               time.Time
	)
	if err := row.Scan(&id, &auctionID, &bidderName, &bidderEmail, &amountStr, &createdAt); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, err
	}
	return bid.ReconstructBid(id, auctionID, bidderName, bidderEmail, amount, createdAt), nil
}
