//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"zolta/internal/domain/admin"
	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/infra"
	"zolta/internal/pkg/errs"
	"zolta/internal/usecase/queries"
	"zolta/internal/usecase/shared"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// fakeStore is an in-memory UnitOfWork. A single mutex stands in for the
// per-auction row lock: every Within body runs serialized, which is exactly
// the guarantee the commands rely on.
type fakeStore struct {
	mu       sync.Mutex
	auctions map[uuid.UUID]*auction.Auction
	bids     map[uuid.UUID][]*bid.Bid
	verifs   map[string]*bid.Verification
	admins   map[string]*admin.Admin
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		auctions: make(map[uuid.UUID]*auction.Auction),
		bids:     make(map[uuid.UUID][]*bid.Bid),
		verifs:   make(map[string]*bid.Verification),
		admins:   make(map[string]*admin.Admin),
	}
}

func (s *fakeStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &fakeTx{s: s})
}

func (s *fakeStore) Reads() shared.Reads {
	return &fakeReads{s: s}
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, pgx.ErrNoRows)
}

type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) Auctions() shared.AuctionRepository         { return &fakeAuctionRepo{s: t.s} }
func (t *fakeTx) Bids() shared.BidRepository                 { return &fakeBidRepo{s: t.s} }
func (t *fakeTx) Verifications() shared.VerificationRepository { return &fakeVerifRepo{s: t.s} }
func (t *fakeTx) Admins() shared.AdminRepository             { return &fakeAdminRepo{s: t.s} }

type fakeAuctionRepo struct {
	s *fakeStore
}

func (r *fakeAuctionRepo) Create(_ context.Context, a *auction.Auction) error {
	r.s.auctions[a.ID()] = a
	return nil
}

func (r *fakeAuctionRepo) Update(_ context.Context, a *auction.Auction) error {
	if _, ok := r.s.auctions[a.ID()]; !ok {
		return notFound("auction not found")
	}
	r.s.auctions[a.ID()] = a
	return nil
}

func (r *fakeAuctionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.auctions[id]; !ok {
		return notFound("auction not found")
	}
	delete(r.s.auctions, id)
	delete(r.s.bids, id)
	for token, v := range r.s.verifs {
		if v.AuctionID() == id {
			delete(r.s.verifs, token)
		}
	}
	return nil
}

func (r *fakeAuctionRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*auction.Auction, error) {
	a, ok := r.s.auctions[id]
	if !ok {
		return nil, notFound("auction not found")
	}
	return a, nil
}

func (r *fakeAuctionRepo) StampEndingSoonNotified(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	a, ok := r.s.auctions[id]
	if !ok || a.EndingSoonNotifiedAt() != nil {
		return false, nil
	}
	r.s.auctions[id] = restamp(a, &at, a.EndedNotifiedAt())
	return true, nil
}

func (r *fakeAuctionRepo) StampEndedNotified(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	a, ok := r.s.auctions[id]
	if !ok || a.EndedNotifiedAt() != nil {
		return false, nil
	}
	r.s.auctions[id] = restamp(a, a.EndingSoonNotifiedAt(), &at)
	return true, nil
}

func restamp(a *auction.Auction, soon, ended *time.Time) *auction.Auction {
	return auction.ReconstructAuction(a.ID(), specOf(a), soon, ended, a.CreatedAt(), a.UpdatedAt())
}

func specOf(a *auction.Auction) auction.Spec {
	return auction.Spec{
		Title:                    a.Title(),
		Description:              a.Description(),
		MinPrice:                 a.MinPrice(),
		MaxPrice:                 a.MaxPrice(),
		MinBidIncrement:          a.MinBidIncrement(),
		MaxBidIncrement:          a.MaxBidIncrement(),
		StartDate:                a.StartDate(),
		EndDate:                  a.EndDate(),
		RequireEmailConfirmation: a.RequireEmailConfirmation(),
		WhitelistedDomains:       a.Whitelist().String(),
		ShowAllowedDomains:       a.ShowAllowedDomains(),
		NotifyWinner:             a.NotifyWinner(),
		WinnerInstructions:       a.WinnerInstructions(),
		IsActive:                 a.IsActive(),
	}
}

type fakeBidRepo struct {
	s *fakeStore
}

func (r *fakeBidRepo) Append(_ context.Context, b *bid.Bid) error {
	r.s.bids[b.AuctionID()] = append(r.s.bids[b.AuctionID()], b)
	return nil
}

func (r *fakeBidRepo) HighestAmount(_ context.Context, auctionID uuid.UUID) (*decimal.Decimal, error) {
	b := highestOf(r.s.bids[auctionID])
	if b == nil {
		return nil, nil
	}
	amount := b.Amount()
	return &amount, nil
}

func (r *fakeBidRepo) DistinctBidderEmails(_ context.Context, auctionID uuid.UUID) ([]string, error) {
	seen := make(map[string]bool)
	var emails []string
	for _, b := range r.s.bids[auctionID] {
		if !seen[b.BidderEmail()] {
			seen[b.BidderEmail()] = true
			emails = append(emails, b.BidderEmail())
		}
	}
	return emails, nil
}

func (r *fakeBidRepo) HighestBid(_ context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	b := highestOf(r.s.bids[auctionID])
	if b == nil {
		return nil, notFound("no bids for auction")
	}
	return b, nil
}

// highestOf picks the leader: highest amount, earliest created on ties.
func highestOf(bids []*bid.Bid) *bid.Bid {
	var best *bid.Bid
	for _, b := range bids {
		switch {
		case best == nil:
			best = b
		case b.Amount().GreaterThan(best.Amount()):
			best = b
		case b.Amount().Equal(best.Amount()) && b.CreatedAt().Before(best.CreatedAt()):
			best = b
		}
	}
	return best
}

type fakeVerifRepo struct {
	s *fakeStore
}

func (r *fakeVerifRepo) Create(_ context.Context, v *bid.Verification) error {
	r.s.verifs[v.Token()] = v
	return nil
}

func (r *fakeVerifRepo) FindByToken(_ context.Context, token string) (*bid.Verification, error) {
	v, ok := r.s.verifs[token]
	if !ok {
		return nil, notFound("verification not found")
	}
	return v, nil
}

func (r *fakeVerifRepo) Consume(_ context.Context, token string, at time.Time) (bool, error) {
	v, ok := r.s.verifs[token]
	if !ok || v.IsUsed() {
		return false, nil
	}
	v.MarkUsed(at)
	return true, nil
}

type fakeAdminRepo struct {
	s *fakeStore
}

func (r *fakeAdminRepo) Create(_ context.Context, a *admin.Admin) error {
	r.s.admins[a.Username()] = a
	return nil
}

func (r *fakeAdminRepo) FindByUsername(_ context.Context, username string) (*admin.Admin, error) {
	a, ok := r.s.admins[username]
	if !ok {
		return nil, notFound("admin not found")
	}
	return a, nil
}

func (r *fakeAdminRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.admins)), nil
}

type fakeReads struct {
	s *fakeStore
}

func (r *fakeReads) AuctionByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeAuctionRepo{s: r.s}).FindByIDForUpdate(ctx, id)
}

func (r *fakeReads) HighestAmount(ctx context.Context, auctionID uuid.UUID) (*decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeBidRepo{s: r.s}).HighestAmount(ctx, auctionID)
}

func (r *fakeReads) AdminByUsername(ctx context.Context, username string) (*admin.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeAdminRepo{s: r.s}).FindByUsername(ctx, username)
}

func (r *fakeReads) DistinctBidderEmails(ctx context.Context, auctionID uuid.UUID) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeBidRepo{s: r.s}).DistinctBidderEmails(ctx, auctionID)
}

func (r *fakeReads) HighestBid(ctx context.Context, auctionID uuid.UUID) (*bid.Bid, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&fakeBidRepo{s: r.s}).HighestBid(ctx, auctionID)
}

func (r *fakeReads) SweepCandidates(_ context.Context, now time.Time, lead time.Duration) ([]*auction.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*auction.Auction
	for _, a := range r.s.auctions {
		if !a.IsActive() {
			continue
		}
		ended := !now.Before(a.EndDate()) && a.EndedNotifiedAt() == nil
		soon := !now.Before(a.EndingSoonAt(lead)) && now.Before(a.EndDate()) && a.EndingSoonNotifiedAt() == nil
		if ended || soon {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeMailer records deliveries and can be told to fail, globally or for
// one recipient.
type fakeMailer struct {
	mu       sync.Mutex
	sent     []sentMail
	err      error
	failAddr string
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.failAddr != "" && m.failAddr == to {
		return errs.New("smtp: recipient rejected")
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

func (m *fakeMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.To
	}
	return out
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*queries.AuctionSnapshot
}

func (p *fakePublisher) Publish(_ uuid.UUID, snap *queries.AuctionSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, snap)
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// fakeQueries serves just enough of the read side for snapshot fan-out.
type fakeQueries struct {
	s *fakeStore
}

func (q *fakeQueries) GetSnapshot(_ context.Context, auctionID uuid.UUID, _ string) (*queries.AuctionSnapshot, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()

	a, ok := q.s.auctions[auctionID]
	if !ok {
		return nil, errs.ErrAuctionNotFound
	}

	var highest *decimal.Decimal
	if b := highestOf(q.s.bids[auctionID]); b != nil {
		amount := b.Amount()
		highest = &amount
	}

	return &queries.AuctionSnapshot{
		AuctionID:    a.ID(),
		Title:        a.Title(),
		CurrentPrice: a.CurrentPrice(highest),
		BidCount:     int64(len(q.s.bids[auctionID])),
	}, nil
}

func (q *fakeQueries) ListDirectory(context.Context) (*queries.AuctionDirectory, error) {
	return &queries.AuctionDirectory{}, nil
}

func (q *fakeQueries) ListBids(context.Context, uuid.UUID) ([]queries.BidView, error) {
	return nil, nil
}

func (q *fakeQueries) ListBidsAdmin(context.Context, uuid.UUID) ([]queries.AdminBidView, error) {
	return nil, nil
}

func (q *fakeQueries) ListAdmin(context.Context) ([]queries.AdminAuctionView, error) {
	return nil, nil
}
