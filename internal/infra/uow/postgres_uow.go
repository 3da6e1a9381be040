package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/admin"
	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/infra/db"
	"zolta/internal/infra/repository"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted is enough here: the per-auction FOR UPDATE row lock inside
// the transaction body serializes competing bid commits.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) Reads() shared.Reads {
	return &reads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	auctionRepo      shared.AuctionRepository
	bidRepo          shared.BidRepository
	verificationRepo shared.VerificationRepository
	adminRepo        shared.AdminRepository
}

func (t *pgTx) Auctions() shared.AuctionRepository {
	if t.auctionRepo == nil {
		t.auctionRepo = repository.NewAuctionRepository(t.dbtx)
	}
	return t.auctionRepo
}

func (t *pgTx) Bids() shared.BidRepository {
	if t.bidRepo == nil {
		t.bidRepo = repository.NewBidRepository(t.dbtx)
	}
	return t.bidRepo
}

func (t *pgTx) Verifications() shared.VerificationRepository {
	if t.verificationRepo == nil {
		t.verificationRepo = repository.NewVerificationRepository(t.dbtx)
	}
	return t.verificationRepo
}

func (t *pgTx) Admins() shared.AdminRepository {
	if t.adminRepo == nil {
		t.adminRepo = repository.NewAdminRepository(t.dbtx)
	}
	return t.adminRepo
}

// reads runs single lock-free lookups straight against the pool.
type reads struct {
	dbtx db.DBTX
}

func (r *reads) AuctionByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	return repository.NewAuctionRepository(r.dbtx).FindByID(ctx, id)
}

func (r *reads) HighestAmount(ctx context.Context, auctionID uuid.UUID) (*decimal.Decimal, error) {
	return repository.NewBidRepository(r.dbtx).HighestAmount(ctx, auctionID)
}

func (r *reads) AdminByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	return repository.NewAdminRepository(r.dbtx).FindByUsername(ctx, username)
}

func (r *reads) DistinctBidderEmails(ctx context.Context, auctionID uuid.UUID) ([]string, error) {
	return repository.NewBidRepository(r.dbtx).DistinctBidderEmails(ctx, auctionID)
}

func (r *reads) HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	return repository.NewBidRepository(r.dbtx).HighestBid(ctx, auctionID)
}

func (r *reads) SweepCandidates(ctx context.Context, now time.Time, lead time.Duration) ([]*auction.Auction, error) {
	return repository.NewAuctionRepository(r.dbtx).SweepCandidates(ctx, now, now.Add(lead))
}
