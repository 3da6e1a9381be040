package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/bid"
	"zolta/internal/infra"
	"zolta/internal/infra/db"
)

type VerificationRepository struct {
	db db.DBTX
}

func NewVerificationRepository(dbtx db.DBTX) *VerificationRepository {
	return &VerificationRepository{db: dbtx}
}

func (r *VerificationRepository) Create(ctx context.Context, v *bid.Verification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bid_verifications (token, auction_id, bidder_name, bidder_email, amount, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.Token(), v.AuctionID(), v.BidderName(), v.BidderEmail(), v.Amount().String(), v.CreatedAt(), v.ExpiresAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create bid verification", err)
	}
	return nil
}

func (r *VerificationRepository) FindByToken(ctx context.Context, token string) (*bid.Verification, error) {
	var (
		auctionID               uuid.UUID
		bidderName, bidderEmail string
		amountStr               string
		createdAt, expiresAt    time.Time
		usedAt                  *time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT auction_id, bidder_name, bidder_email, amount::text, created_at, expires_at, used_at
		FROM bid_verifications WHERE token = $1`, token,
	).Scan(&auctionID, &bidderName, &bidderEmail, &amountStr, &createdAt, &expiresAt, &usedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bid verification", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse verification amount", err)
	}
	return bid.ReconstructVerification(token, auctionID, bidderName, bidderEmail, amount, createdAt, expiresAt, usedAt), nil
}

// Consume burns the token with a conditional update; under concurrent
// presentations of the same link exactly one caller sees true.
func (r *VerificationRepository) Consume(ctx context.Context, token string, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bid_verifications SET used_at = $2
		WHERE token = $1 AND used_at IS NULL`, token, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to consume bid verification", err)
	}
	return tag.RowsAffected() > 0, nil
}
