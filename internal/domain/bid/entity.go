package bid

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingBidderName  = errors.New("bidder name is required")
	ErrInvalidBidderEmail = errors.New("bidder email is invalid")
	ErrNonPositiveAmount  = errors.New("bid amount must be positive")
)

// Bid is a committed, immutable offer. The ledger is append-only: once
// created a bid never changes, and the leader for equal amounts is the
// earliest-created bid.
type Bid struct {
	id          uuid.UUID
	auctionID   uuid.UUID
	bidderName  string
	bidderEmail string
	amount      decimal.Decimal
	createdAt   time.Time
}

func NewBid(auctionID uuid.UUID, bidderName, bidderEmail string, amount decimal.Decimal, now time.Time) (*Bid, error) {
	name := strings.TrimSpace(bidderName)
	if name == "" {
		return nil, ErrMissingBidderName
	}

	email := strings.ToLower(strings.TrimSpace(bidderEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidBidderEmail
	}

	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	return &Bid{
		id:          uuid.New(),
		auctionID:   auctionID,
		bidderName:  name,
		bidderEmail: email,
		amount:      amount,
		createdAt:   now,
	}, nil
}

func ReconstructBid(id, auctionID uuid.UUID, bidderName, bidderEmail string, amount decimal.Decimal, createdAt time.Time) *Bid {
	return &Bid{
		id:          id,
		auctionID:   auctionID,
		bidderName:  bidderName,
		bidderEmail: bidderEmail,
		amount:      amount,
		createdAt:   createdAt,
	}
}

func (b *Bid) ID() uuid.UUID           { return b.id }
func (b *Bid) AuctionID() uuid.UUID    { return b.auctionID }
func (b *Bid) BidderName() string      { return b.bidderName }
func (b *Bid) BidderEmail() string     { return b.bidderEmail }
func (b *Bid) Amount() decimal.Decimal { return b.amount }
func (b *Bid) CreatedAt() time.Time    { return b.createdAt }
