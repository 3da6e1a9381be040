//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zolta/internal/domain/auction"
	"zolta/internal/domain/bid"
	"zolta/internal/pkg/config"
	"zolta/internal/usecase/commands"
)

type sweepFixture struct {
	store  *fakeStore
	mailer *fakeMailer
	cmds   commands.SweepCommands
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	store := newFakeStore()
	mailer := &fakeMailer{}
	cmds := commands.NewSweepCommands(
		store,
		mailer,
		config.AppConfig{BaseURL: "http://localhost:8889", SiteName: "Zolta"},
		config.BiddingConfig{EndingSoonLead: 30 * time.Minute},
	)
	return &sweepFixture{store: store, mailer: mailer, cmds: cmds}
}

func (f *sweepFixture) addAuction(t *testing.T, start, end time.Time, mutate func(s *auction.Spec)) *auction.Auction {
	t.Helper()
	spec := auction.Spec{
		Title:           "Vintage synthesizer",
		MinPrice:        dec("50"),
		MinBidIncrement: dec("5"),
		StartDate:       start,
		EndDate:         end,
		IsActive:        true,
	}
	if mutate != nil {
		mutate(&spec)
	}
	a, err := auction.NewAuction(spec, start.Add(-time.Hour))
	require.NoError(t, err)
	f.store.auctions[a.ID()] = a
	return a
}

func (f *sweepFixture) addBid(t *testing.T, a *auction.Auction, name, email, amount string, at time.Time) {
	t.Helper()
	b, err := bid.NewBid(a.ID(), name, email, dec(amount), at)
	require.NoError(t, err)
	f.store.bids[a.ID()] = append(f.store.bids[a.ID()], b)
}

func TestRunSweep_EndingSoon(t *testing.T) {
	f := newSweepFixture(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := f.addAuction(t, start, start.Add(2*time.Hour), nil)

	f.addBid(t, a, "Alice", "alice@example.com", "60", start.Add(10*time.Minute))
	f.addBid(t, a, "Bob", "bob@example.com", "65", start.Add(20*time.Minute))
	f.addBid(t, a, "Alice", "alice@example.com", "70", start.Add(30*time.Minute))

	// 20 minutes before the end, inside the 30-minute lead.
	now := start.Add(2*time.Hour - 20*time.Minute)
	require.NoError(t, f.cmds.RunSweep(context.Background(), now))

	assert.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, f.mailer.sentTo(),
		"each bidder is notified once regardless of bid count")
	assert.NotNil(t, f.store.auctions[a.ID()].EndingSoonNotifiedAt())
	assert.Nil(t, f.store.auctions[a.ID()].EndedNotifiedAt())
}

func TestRunSweep_EndingSoonIsIdempotent(t *testing.T) {
	f := newSweepFixture(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := f.addAuction(t, start, start.Add(2*time.Hour), nil)
	f.addBid(t, a, "Alice", "alice@example.com", "60", start.Add(10*time.Minute))

	now := start.Add(2*time.Hour - 20*time.Minute)
	require.NoError(t, f.cmds.RunSweep(context.Background(), now))
	require.NoError(t, f.cmds.RunSweep(context.Background(), now.Add(time.Minute)))

	assert.Len(t, f.mailer.sentTo(), 1, "the second sweep finds the stamp and stays quiet")
}

func TestRunSweep_EndedWithWinner(t *testing.T) {
	f := newSweepFixture(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	a := f.addAuction(t, start, end, func(s *auction.Spec) {
		s.NotifyWinner = true
		s.WinnerInstructions = "Wire payment within 48 hours."
	})
	f.addBid(t, a, "Alice", "alice@example.com", "60", start.Add(10*time.Minute))
	f.addBid(t, a, "Bob", "bob@example.com", "65", start.Add(20*time.Minute))

	require.NoError(t, f.cmds.RunSweep(context.Background(), end.Add(time.Minute)))

	// Both bidders get the ended notice; the winner additionally gets the
	// instructions email.
	assert.Equal(t, []string{"alice@example.com", "bob@example.com", "bob@example.com"}, f.mailer.sentTo())
	assert.NotNil(t, f.store.auctions[a.ID()].EndedNotifiedAt())

	last := f.mailer.sent[len(f.mailer.sent)-1]
	assert.Contains(t, last.Text, "Wire payment within 48 hours.")
}

func TestRunSweep_EndedWithoutBids(t *testing.T) {
	f := newSweepFixture(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	a := f.addAuction(t, start, end, func(s *auction.Spec) { s.NotifyWinner = true })

	require.NoError(t, f.cmds.RunSweep(context.Background(), end.Add(time.Minute)))

	assert.Empty(t, f.mailer.sentTo(), "no bidders, no mail")
	assert.NotNil(t, f.store.auctions[a.ID()].EndedNotifiedAt(), "the stamp still lands")
}

func TestRunSweep_BouncedRecipientDoesNotBlockOthers(t *testing.T) {
	f := newSweepFixture(t)
	f.mailer.failAddr = "alice@example.com"

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := f.addAuction(t, start, start.Add(2*time.Hour), nil)
	f.addBid(t, a, "Alice", "alice@example.com", "60", start.Add(10*time.Minute))
	f.addBid(t, a, "Bob", "bob@example.com", "65", start.Add(20*time.Minute))

	now := start.Add(2*time.Hour - 20*time.Minute)
	require.NoError(t, f.cmds.RunSweep(context.Background(), now))

	assert.Equal(t, []string{"bob@example.com"}, f.mailer.sentTo())
	assert.NotNil(t, f.store.auctions[a.ID()].EndingSoonNotifiedAt(),
		"delivery failures never reopen the stamp")
}

func TestRunSweep_SkipsInactiveAndMidRunAuctions(t *testing.T) {
	f := newSweepFixture(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	killed := f.addAuction(t, start, start.Add(time.Hour), func(s *auction.Spec) { s.IsActive = false })
	f.addBid(t, killed, "Alice", "alice@example.com", "60", start.Add(10*time.Minute))
	midRun := f.addAuction(t, start, start.Add(24*time.Hour), nil)
	f.addBid(t, midRun, "Bob", "bob@example.com", "60", start.Add(10*time.Minute))

	require.NoError(t, f.cmds.RunSweep(context.Background(), start.Add(2*time.Hour)))

	assert.Empty(t, f.mailer.sentTo())
	assert.Nil(t, f.store.auctions[killed.ID()].EndedNotifiedAt())
	assert.Nil(t, f.store.auctions[midRun.ID()].EndingSoonNotifiedAt())
}
