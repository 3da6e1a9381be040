package commands

import (
	"context"
	"log/slog"
	"time"

	"zolta/internal/domain/auction"
	"zolta/internal/notification"
	"zolta/internal/pkg/config"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/shared"
)

// SweepCommands drives the notification scheduler: each sweep finds auctions
// that crossed the ending-soon or ended threshold and delivers the matching
// emails at most once per auction per kind.
type SweepCommands interface {
	RunSweep(ctx context.Context, now time.Time) error
}

type sweepCommandsImpl struct {
	uow    shared.UnitOfWork
	mailer notification.Mailer
	appCfg config.AppConfig
	bidCfg config.BiddingConfig
}

func NewSweepCommands(uow shared.UnitOfWork, mailer notification.Mailer, appCfg config.AppConfig, bidCfg config.BiddingConfig) SweepCommands {
	return &sweepCommandsImpl{uow: uow, mailer: mailer, appCfg: appCfg, bidCfg: bidCfg}
}

func (c *sweepCommandsImpl) RunSweep(ctx context.Context, now time.Time) error {
	candidates, err := c.uow.Reads().SweepCandidates(ctx, now, c.bidCfg.EndingSoonLead)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	for _, a := range candidates {
		// One broken auction must not starve the rest of the sweep.
		if err := c.sweepOne(ctx, a, now); err != nil {
			slog.Error("sweep failed for auction", "auction_id", a.ID(), "error", err)
		}
	}
	return nil
}

func (c *sweepCommandsImpl) sweepOne(ctx context.Context, a *auction.Auction, now time.Time) error {
	switch {
	case !now.Before(a.EndDate()) && a.EndedNotifiedAt() == nil:
		return c.notifyEnded(ctx, a, now)
	case !now.Before(a.EndingSoonAt(c.bidCfg.EndingSoonLead)) && now.Before(a.EndDate()) && a.EndingSoonNotifiedAt() == nil:
		return c.notifyEndingSoon(ctx, a, now)
	}
	return nil
}

func (c *sweepCommandsImpl) notifyEndingSoon(ctx context.Context, a *auction.Auction, now time.Time) error {
	// Stamp first in its own short transaction: losing the race means another
	// sweeper already owns delivery for this auction.
	won, err := c.stamp(ctx, func(ctx context.Context, tx shared.Tx) (bool, error) {
		return tx.Auctions().StampEndingSoonNotified(ctx, a.ID(), now)
	})
	if err != nil || !won {
		return err
	}

	emails, err := c.uow.Reads().DistinctBidderEmails(ctx, a.ID())
	if err != nil {
		return err
	}
	highest, err := c.uow.Reads().HighestAmount(ctx, a.ID())
	if err != nil {
		return err
	}

	msg := notification.BuildEndingSoonEmail(c.appCfg.SiteName, a.Title(), a.CurrentPrice(highest), a.EndDate())
	c.sendToAll(ctx, emails, msg)
	return nil
}

func (c *sweepCommandsImpl) notifyEnded(ctx context.Context, a *auction.Auction, now time.Time) error {
	won, err := c.stamp(ctx, func(ctx context.Context, tx shared.Tx) (bool, error) {
		return tx.Auctions().StampEndedNotified(ctx, a.ID(), now)
	})
	if err != nil || !won {
		return err
	}

	emails, err := c.uow.Reads().DistinctBidderEmails(ctx, a.ID())
	if err != nil {
		return err
	}
	winner, err := c.uow.Reads().HighestBid(ctx, a.ID())
	if err != nil && !isNotFound(err) {
		return err
	}

	finalPrice := a.MinPrice()
	winnerName := ""
	if winner != nil {
		finalPrice = winner.Amount()
		winnerName = winner.BidderName()
	}

	msg := notification.BuildEndedEmail(c.appCfg.SiteName, a.Title(), finalPrice, winnerName)
	c.sendToAll(ctx, emails, msg)

	if a.NotifyWinner() && winner != nil {
		win := notification.BuildWinnerEmail(c.appCfg.SiteName, a.Title(), finalPrice, a.WinnerInstructions())
		if err := c.mailer.Send(ctx, winner.BidderEmail(), win.Subject, win.HTMLBody, win.TextBody); err != nil {
			slog.Warn("winner email delivery failed",
				"auction_id", a.ID(), "email", winner.BidderEmail(), "error", err)
		}
	}
	return nil
}

func (c *sweepCommandsImpl) stamp(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) (bool, error)) (bool, error) {
	var won bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		won, err = fn(ctx, tx)
		return err
	})
	return won, err
}

// sendToAll delivers to every recipient independently; a bounced address
// never blocks the others.
func (c *sweepCommandsImpl) sendToAll(ctx context.Context, emails []string, msg notification.Message) {
	for _, to := range emails {
		if err := c.mailer.Send(ctx, to, msg.Subject, msg.HTMLBody, msg.TextBody); err != nil {
			slog.Warn("notification email delivery failed", "email", to, "error", err)
		}
	}
}
