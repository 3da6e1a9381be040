package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/auction"
	"zolta/internal/infra"
	"zolta/internal/infra/db"
)

// Numeric columns are selected as text and parsed into decimals so money
// never round-trips through binary floats.
const auctionColumns = `
	id, title, description,
	min_price::text, max_price::text,
	min_bid_increment::text, max_bid_increment::text,
	start_date, end_date,
	require_email_confirmation, whitelisted_domains, show_allowed_domains,
	notify_winner, winner_instructions, is_active,
	ending_soon_notified_at, ended_notified_at,
	created_at, updated_at`

type AuctionRepository struct {
	db db.DBTX
}

func NewAuctionRepository(dbtx db.DBTX) *AuctionRepository {
	return &AuctionRepository{db: dbtx}
}

func (r *AuctionRepository) Create(ctx context.Context, a *auction.Auction) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO auctions (
			id, title, description,
			min_price, max_price, min_bid_increment, max_bid_increment,
			start_date, end_date,
			require_email_confirmation, whitelisted_domains, show_allowed_domains,
			notify_winner, winner_instructions, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		a.ID(), a.Title(), a.Description(),
		a.MinPrice().String(), decimalArg(a.MaxPrice()), a.MinBidIncrement().String(), decimalArg(a.MaxBidIncrement()),
		a.StartDate(), a.EndDate(),
		a.RequireEmailConfirmation(), a.Whitelist().String(), a.ShowAllowedDomains(),
		a.NotifyWinner(), a.WinnerInstructions(), a.IsActive(),
		a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create auction", err)
	}
	return nil
}

func (r *AuctionRepository) Update(ctx context.Context, a *auction.Auction) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE auctions SET
			title = $2, description = $3,
			min_price = $4, max_price = $5,
			min_bid_increment = $6, max_bid_increment = $7,
			start_date = $8, end_date = $9,
			require_email_confirmation = $10, whitelisted_domains = $11, show_allowed_domains = $12,
			notify_winner = $13, winner_instructions = $14, is_active = $15,
			updated_at = $16
		WHERE id = $1`,
		a.ID(), a.Title(), a.Description(),
		a.MinPrice().String(), decimalArg(a.MaxPrice()), a.MinBidIncrement().String(), decimalArg(a.MaxBidIncrement()),
		a.StartDate(), a.EndDate(),
		a.RequireEmailConfirmation(), a.Whitelist().String(), a.ShowAllowedDomains(),
		a.NotifyWinner(), a.WinnerInstructions(), a.IsActive(),
		a.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update auction", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("auction not found", pgx.ErrNoRows)
	}
	return nil
}

// Delete removes the auction; bids and pending verifications go with it via
// ON DELETE CASCADE.
func (r *AuctionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM auctions WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete auction", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("auction not found", pgx.ErrNoRows)
	}
	return nil
}

func (r *AuctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1`, id)
	a, err := scanAuction(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find auction", err)
	}
	return a, nil
}

// FindByIDForUpdate takes the row lock that serializes bid commits for one
// auction until the surrounding transaction finishes.
func (r *AuctionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+auctionColumns+` FROM auctions WHERE id = $1 FOR UPDATE`, id)
	a, err := scanAuction(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find auction for update", err)
	}
	return a, nil
}

func (r *AuctionRepository) StampEndingSoonNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE auctions SET ending_soon_notified_at = $2
		WHERE id = $1 AND ending_soon_notified_at IS NULL`, id, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to stamp ending-soon notification", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AuctionRepository) StampEndedNotified(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE auctions SET ended_notified_at = $2
		WHERE id = $1 AND ended_notified_at IS NULL`, id, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to stamp ended notification", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SweepCandidates returns active auctions whose ending-soon or ended
// notification is still owed at the given instant. cutoff is now plus the
// ending-soon lead.
func (r *AuctionRepository) SweepCandidates(ctx context.Context, now, cutoff time.Time) ([]*auction.Auction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+auctionColumns+` FROM auctions
		WHERE is_active = TRUE AND (
			(end_date <= $1 AND ended_notified_at IS NULL)
			OR (end_date <= $2 AND end_date > $1 AND ending_soon_notified_at IS NULL)
		)
		ORDER BY end_date ASC`, now, cutoff)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query sweep candidates", err)
	}
	defer rows.Close()

	var candidates []*auction.Auction
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan sweep candidate", err)
		}
		candidates = append(candidates, a)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read sweep candidates", err)
	}
	return candidates, nil
}

func scanAuction(row pgx.Row) (*auction.Auction, error) {
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
	)
	if err != nil {
		return nil, err
	}

	minPrice, err := decimal.NewFromString(minPriceStr)
	if err != nil {
		return nil, err
	}
	maxPrice, err := parseOptionalDecimal(maxPriceStr)
	if err != nil {
		return nil, err
	}
	minIncr, err := decimal.NewFromString(minIncrStr)
	if err != nil {
		return nil, err
	}
	maxIncr, err := parseOptionalDecimal(maxIncrStr)
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
	return auction.ReconstructAuction(id, spec, endingSoonNotified, endedNotif, createdAt, updatedAt), nil
}

func parseOptionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// decimalArg renders an optional decimal as a text parameter; Postgres
// coerces it into the numeric column.
func decimalArg(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}
