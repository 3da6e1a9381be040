package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/notification"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/errs"
	"zolta/internal/pkg/jwt"
	"zolta/internal/usecase/queries"
	"zolta/internal/usecase/shared"
)

type PlaceBidStatus string

const (
	PlaceBidAccepted             PlaceBidStatus = "accepted"
	PlaceBidConfirmationRequired PlaceBidStatus = "confirmation_required"
)

type ConfirmBidStatus string

const (
	ConfirmAccepted    ConfirmBidStatus = "accepted"
	ConfirmRejected    ConfirmBidStatus = "rejected"
	ConfirmAlreadyUsed ConfirmBidStatus = "already_used"
	ConfirmExpired     ConfirmBidStatus = "expired"
)

type PlaceBidInput struct {
	AuctionID uuid.UUID
	Name      string
	Email     string
	Amount    decimal.Decimal
	// RememberedVerification is the client-held proof of a past email
	// confirmation; empty when the bidder carries none.
	RememberedVerification string
}

type PlaceBidResult struct {
	Status PlaceBidStatus
	BidID  uuid.UUID
	// RememberedVerification is a refreshed token to hand back to the client,
	// empty when nothing should be (re)issued.
	RememberedVerification string
}

type ConfirmBidResult struct {
	Status    ConfirmBidStatus
	AuctionID uuid.UUID
	// Rejection holds the recoverable failure when Status is rejected.
	Rejection *auction.RejectionError
	// RememberedVerification is issued whenever the token presentation proved
	// control of the email, including rejected and replayed confirmations.
	RememberedVerification string
}

type BidCommands interface {
	PlaceBid(ctx context.Context, in PlaceBidInput) (*PlaceBidResult, error)
	ConfirmBid(ctx context.Context, token string) (*ConfirmBidResult, error)
}

type bidCommandsImpl struct {
	uow       shared.UnitOfWork
	queries   queries.AuctionQueries
	tokens    *jwt.Service
	mailer    notification.Mailer
	publisher SnapshotPublisher
	clock     clock.Clock
	appCfg    config.AppConfig
	bidCfg    config.BiddingConfig
}

func NewBidCommands(
	uow shared.UnitOfWork,
	q queries.AuctionQueries,
	tokens *jwt.Service,
	mailer notification.Mailer,
	publisher SnapshotPublisher,
	clk clock.Clock,
	appCfg config.AppConfig,
	bidCfg config.BiddingConfig,
) BidCommands {
	return &bidCommandsImpl{
		uow:       uow,
		queries:   q,
		tokens:    tokens,
		mailer:    mailer,
		publisher: publisher,
		clock:     clk,
		appCfg:    appCfg,
		bidCfg:    bidCfg,
	}
}

func (c *bidCommandsImpl) PlaceBid(ctx context.Context, in PlaceBidInput) (*PlaceBidResult, error) {
	sub := auction.NewSubmission(in.Name, in.Email, in.Amount)
	verified := c.isRemembered(in.RememberedVerification, sub.Email)

	var (
		target       *auction.Auction
		needsConfirm bool
		committed    *bid.Bid
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		a, err := tx.Auctions().FindByIDForUpdate(ctx, in.AuctionID)
		if err != nil {
			return err
		}
		target = a

		highest, err := tx.Bids().HighestAmount(ctx, in.AuctionID)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := auction.ValidateBid(a, a.CurrentPrice(highest), sub, now); err != nil {
			return err
		}

		if a.RequireEmailConfirmation() && !verified {
			// Nothing is written here; the bid is parked behind an email token
			// outside this transaction and re-validated on confirmation.
			needsConfirm = true
			return nil
		}

		b, err := bid.NewBid(in.AuctionID, sub.Name, sub.Email, sub.Amount, now)
		if err != nil {
			return err
		}
		if err := tx.Bids().Append(ctx, b); err != nil {
			return err
		}
		committed = b
		return nil
	})
	if err != nil {
		return nil, c.mapBidErr(err)
	}

	if needsConfirm {
		if err := c.parkVerification(ctx, target, sub); err != nil {
			return nil, err
		}
		return &PlaceBidResult{Status: PlaceBidConfirmationRequired}, nil
	}

	c.publishSnapshot(ctx, in.AuctionID)

	res := &PlaceBidResult{Status: PlaceBidAccepted, BidID: committed.ID()}
	if verified {
		// Sliding window: a remembered bidder who keeps bidding stays remembered.
		if token, err := c.tokens.GenerateRememberedVerification(sub.Email, c.clock.Now()); err == nil {
			res.RememberedVerification = token
		}
	}
	return res, nil
}

// parkVerification creates the one-time token and delivers the confirmation
// email. The email goes out first: if delivery fails the bid is not parked,
// so a bidder is never left waiting on a link that never arrives.
func (c *bidCommandsImpl) parkVerification(ctx context.Context, a *auction.Auction, sub auction.Submission) error {
	now := c.clock.Now()
	v, err := bid.NewVerification(a.ID(), sub.Name, sub.Email, sub.Amount, now, c.bidCfg.ConfirmationTTL)
	if err != nil {
		return errs.Wrap(err, "failed to create verification token")
	}

	confirmURL := fmt.Sprintf("%s/api/bids/confirm/%s", c.appCfg.BaseURL, v.Token())
	msg := notification.BuildConfirmationEmail(c.appCfg.SiteName, a.Title(), sub.Amount, confirmURL, c.bidCfg.ConfirmationTTL)
	if err := c.mailer.Send(ctx, sub.Email, msg.Subject, msg.HTMLBody, msg.TextBody); err != nil {
		slog.Warn("confirmation email delivery failed",
			"auction_id", a.ID(), "email", sub.Email, "error", err)
		return errs.Mark(err, errs.ErrConfirmationDeliveryFailed)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Verifications().Create(ctx, v)
	})
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *bidCommandsImpl) ConfirmBid(ctx context.Context, token string) (*ConfirmBidResult, error) {
	var (
		res         ConfirmBidResult
		bidderEmail string
	)

	// Rejections are captured in res and nil is returned from the transaction
	// body: the used-at stamp must commit even when the deferred bid fails
	// re-validation, or the link would become replayable.
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		v, err := tx.Verifications().FindByToken(ctx, token)
		if err != nil {
			return err
		}
		res.AuctionID = v.AuctionID()
		bidderEmail = v.BidderEmail()

		now := c.clock.Now()

		if v.IsUsed() {
			res.Status = ConfirmAlreadyUsed
			return nil
		}
		if v.IsExpired(now) {
			res.Status = ConfirmExpired
			return nil
		}

		won, err := tx.Verifications().Consume(ctx, token, now)
		if err != nil {
			return err
		}
		if !won {
			res.Status = ConfirmAlreadyUsed
			return nil
		}

		a, err := tx.Auctions().FindByIDForUpdate(ctx, v.AuctionID())
		if err != nil {
			return err
		}
		highest, err := tx.Bids().HighestAmount(ctx, v.AuctionID())
		if err != nil {
			return err
		}

		name, email, amount := v.Submission()
		sub := auction.NewSubmission(name, email, amount)
		if err := auction.ValidateBid(a, a.CurrentPrice(highest), sub, now); err != nil {
			var rej *auction.RejectionError
			if errors.As(err, &rej) {
				res.Status = ConfirmRejected
				res.Rejection = rej
				return nil
			}
			return err
		}

		b, err := bid.NewBid(v.AuctionID(), sub.Name, sub.Email, sub.Amount, now)
		if err != nil {
			return err
		}
		if err := tx.Bids().Append(ctx, b); err != nil {
			return err
		}
		res.Status = ConfirmAccepted
		return nil
	})
	if err != nil {
		return nil, c.mapConfirmErr(err)
	}

	if res.Status == ConfirmAccepted {
		c.publishSnapshot(ctx, res.AuctionID)
	}

	// Presenting the token proved control of the email even when the bid was
	// rejected or the link replayed; only a never-confirmed expired token
	// earns nothing.
	if res.Status != ConfirmExpired {
		if t, genErr := c.tokens.GenerateRememberedVerification(bidderEmail, c.clock.Now()); genErr == nil {
			res.RememberedVerification = t
		}
	}

	return &res, nil
}

func (c *bidCommandsImpl) isRemembered(token, email string) bool {
	if token == "" {
		return false
	}
	verifiedEmail, err := c.tokens.ValidateRememberedVerification(token)
	if err != nil {
		return false
	}
	return verifiedEmail == email
}

func (c *bidCommandsImpl) publishSnapshot(ctx context.Context, auctionID uuid.UUID) {
	if c.publisher == nil {
		return
	}
	snap, err := c.queries.GetSnapshot(ctx, auctionID, "")
	if err != nil {
		slog.Warn("failed to build snapshot for fan-out", "auction_id", auctionID, "error", err)
		return
	}
	c.publisher.Publish(auctionID, snap)
}

func (c *bidCommandsImpl) mapBidErr(err error) error {
	var rej *auction.RejectionError
	if errors.As(err, &rej) {
		return err
	}
	if isNotFound(err) {
		return errs.ErrAuctionNotFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func (c *bidCommandsImpl) mapConfirmErr(err error) error {
	if isNotFound(err) {
		return errs.ErrTokenNotFound
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
