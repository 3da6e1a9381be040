package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/admin"
	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
)

// UnitOfWork is the single shared auction-state authority. Every
// read-price → validate → append sequence must run inside Within so the
// implementation can serialize bid commits per auction (row lock or
// equivalent); Reads is for non-transactional single reads.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Reads() Reads
}

type Tx interface {
	Auctions() AuctionRepository
	Bids() BidRepository
	Verifications() VerificationRepository
	Admins() AdminRepository
}

type Reads interface {
	AuctionByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error)
	HighestAmount(ctx context.Context, auctionID uuid.UUID) (*decimal.Decimal, error)
	AdminByUsername(ctx context.Context, username string) (*admin.Admin, error)
	DistinctBidderEmails(ctx context.Context, auctionID uuid.UUID) ([]string, error)
	HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error)
	// SweepCandidates returns active auctions that may need an ending-soon or
	// ended notification at the given instant.
	SweepCandidates(ctx context.Context, now time.Time, lead time.Duration) ([]*auction.Auction, error)
}

type AuctionRepository interface {
	Create(ctx context.Context, a *auction.Auction) error
	Update(ctx context.Context, a *auction.Auction) error
	// Delete cascades to the auction's bids and pending verifications.
	Delete(ctx context.Context, id uuid.UUID) error
	// FindByIDForUpdate locks the auction row for the remainder of the
	// transaction; this is the per-auction bid-commit critical section.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*auction.Auction, error)
	// Stamp* conditionally set a notified-at column if still unset and report
	// whether this call won the stamp. At-most-once delivery hangs off this.
	StampEndingSoonNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	StampEndedNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type BidRepository interface {
	Append(ctx context.Context, b *bid.Bid) error
	// HighestAmount returns nil when the ledger holds no bids yet.
	HighestAmount(ctx context.Context, auctionID uuid.UUID) (*decimal.Decimal, error)
	DistinctBidderEmails(ctx context.Context, auctionID uuid.UUID) ([]string, error)
	HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error)
}

type VerificationRepository interface {
	Create(ctx context.Context, v *bid.Verification) error
	FindByToken(ctx context.Context, token string) (*bid.Verification, error)
	// Consume sets used-at if still unset; exactly one concurrent caller wins.
	Consume(ctx context.Context, token string, at time.Time) (bool, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *admin.Admin) error
	FindByUsername(ctx context.Context, username string) (*admin.Admin, error)
	Count(ctx context.Context) (int64, error)
}
