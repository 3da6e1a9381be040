package commands

import (
	"context"

	"github.com/google/uuid"

	"zolta/internal/domain/auction"
	"zolta/internal/pkg/clock"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/shared"
)

type AuctionCommands interface {
	Create(ctx context.Context, spec auction.Spec) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, spec auction.Spec) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type auctionCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewAuctionCommands(uow shared.UnitOfWork, clk clock.Clock) AuctionCommands {
	return &auctionCommandsImpl{uow: uow, clock: clk}
}

func (c *auctionCommandsImpl) Create(ctx context.Context, spec auction.Spec) (uuid.UUID, error) {
	a, err := auction.NewAuction(spec, c.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Auctions().Create(ctx, a)
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return a.ID(), nil
}

func (c *auctionCommandsImpl) Update(ctx context.Context, id uuid.UUID, spec auction.Spec) error {
	now := c.clock.Now()

	// NewAuction is the single validation path for auction settings; the
	// throwaway instance exists only to run it.
	if _, err := auction.NewAuction(spec, now); err != nil {
		return errs.Mark(err, errs.ErrDomainValidation)
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Auctions().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		// Notification stamps and creation time survive settings edits.
		updated := auction.ReconstructAuction(
			id, spec,
			existing.EndingSoonNotifiedAt(), existing.EndedNotifiedAt(),
			existing.CreatedAt(), now,
		)
		return tx.Auctions().Update(ctx, updated)
	})
	if err != nil {
		if isNotFound(err) {
			return errs.ErrAuctionNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *auctionCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Auctions().FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		return tx.Auctions().Delete(ctx, id)
	})
	if err != nil {
		if isNotFound(err) {
			return errs.ErrAuctionNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
