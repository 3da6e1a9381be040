package bid

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Verification is a pending bid parked behind a one-time email token.
// used-at marks "token consumed", not "bid accepted": the token is burned on
// first presentation even when the deferred bid fails re-validation, so a
// confirmation link can never be replayed.
type Verification struct {
	token       string
	auctionID   uuid.UUID
	bidderName  string
	bidderEmail string
	amount      decimal.Decimal
	createdAt   time.Time
	expiresAt   time.Time
	usedAt      *time.Time
}

func NewVerification(auctionID uuid.UUID, bidderName, bidderEmail string, amount decimal.Decimal, now time.Time, ttl time.Duration) (*Verification, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	return &Verification{
		token:       token,
		auctionID:   auctionID,
		bidderName:  strings.TrimSpace(bidderName),
		bidderEmail: strings.ToLower(strings.TrimSpace(bidderEmail)),
		amount:      amount,
		createdAt:   now,
		expiresAt:   now.Add(ttl),
	}, nil
}

func ReconstructVerification(token string, auctionID uuid.UUID, bidderName, bidderEmail string, amount decimal.Decimal, createdAt, expiresAt time.Time, usedAt *time.Time) *Verification {
	return &Verification{
		token:       token,
		auctionID:   auctionID,
		bidderName:  bidderName,
		bidderEmail: bidderEmail,
		amount:      amount,
		createdAt:   createdAt,
		expiresAt:   expiresAt,
		usedAt:      usedAt,
	}
}

func (v *Verification) IsExpired(now time.Time) bool {
	return now.After(v.expiresAt)
}

func (v *Verification) IsUsed() bool {
	return v.usedAt != nil
}

func (v *Verification) MarkUsed(now time.Time) {
	if v.usedAt == nil {
		t := now
		v.usedAt = &t
	}
}

// Submission rebuilds the proposed bid for confirmation-time re-validation.
func (v *Verification) Submission() (string, string, decimal.Decimal) {
	return v.bidderName, v.bidderEmail, v.amount
}

func (v *Verification) Token() string            { return v.token }
func (v *Verification) AuctionID() uuid.UUID     { return v.auctionID }
func (v *Verification) BidderName() string       { return v.bidderName }
func (v *Verification) BidderEmail() string      { return v.bidderEmail }
func (v *Verification) Amount() decimal.Decimal  { return v.amount }
func (v *Verification) CreatedAt() time.Time     { return v.createdAt }
func (v *Verification) ExpiresAt() time.Time     { return v.expiresAt }
func (v *Verification) UsedAt() *time.Time       { return v.usedAt }

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
