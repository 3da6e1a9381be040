//go:build unit

package auction_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zolta/internal/domain/auction"
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

func validSpec(start, end time.Time) auction.Spec {
	return auction.Spec{
		Title:           "Vintage synthesizer",
		MinPrice:        dec("50"),
		MinBidIncrement: dec("5"),
		StartDate:       start,
		EndDate:         end,
		IsActive:        true,
	}
}

func TestNewAuction_Validation(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(time.Hour)
	end := now.Add(48 * time.Hour)

	tests := []struct {
		name    string
		mutate  func(s *auction.Spec)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(_ *auction.Spec) {},
		},
		{
			name:    "missing title",
			mutate:  func(s *auction.Spec) { s.Title = "" },
			wantErr: auction.ErrMissingTitle,
		},
		{
			name:    "negative min price",
			mutate:  func(s *auction.Spec) { s.MinPrice = dec("-1") },
			wantErr: auction.ErrNegativeMinPrice,
		},
		{
			name:    "max price below min price",
			mutate:  func(s *auction.Spec) { s.MaxPrice = decPtr("40") },
			wantErr: auction.ErrMaxBelowMin,
		},
		{
			name:    "zero increment",
			mutate:  func(s *auction.Spec) { s.MinBidIncrement = dec("0") },
			wantErr: auction.ErrNonPositiveBidStep,
		},
		{
			name: "max increment below min increment",
			mutate: func(s *auction.Spec) {
				s.MaxBidIncrement = decPtr("2")
			},
			wantErr: auction.ErrMaxStepBelowMinStep,
		},
		{
			name:    "end before start",
			mutate:  func(s *auction.Spec) { s.EndDate = s.StartDate.Add(-time.Hour) },
			wantErr: auction.ErrInvalidAuctionWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec(start, end)
			tt.mutate(&spec)

			a, err := auction.NewAuction(spec, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, "", a.ID().String())
			assert.Equal(t, now, a.CreatedAt())
		})
	}
}

func TestAuction_StatusAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	tests := []struct {
		name     string
		isActive bool
		now      time.Time
		want     auction.Status
	}{
		{"inactive wins over time", false, start.Add(time.Hour), auction.StatusInactive},
		{"inactive after end", false, end.Add(time.Hour), auction.StatusInactive},
		{"before start", true, start.Add(-time.Minute), auction.StatusUpcoming},
		{"exactly at start", true, start, auction.StatusActive},
		{"mid window", true, start.Add(12 * time.Hour), auction.StatusActive},
		{"exactly at end counts as ended", true, end, auction.StatusEnded},
		{"after end", true, end.Add(time.Minute), auction.StatusEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec(start, end)
			spec.IsActive = tt.isActive

			a, err := auction.NewAuction(spec, start.Add(-time.Hour))
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.StatusAt(tt.now))
		})
	}
}

func TestAuction_CurrentPrice(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a, err := auction.NewAuction(validSpec(start, start.Add(time.Hour)), start)
	require.NoError(t, err)

	assert.True(t, a.CurrentPrice(nil).Equal(dec("50")), "no bids falls back to floor price")

	highest := dec("72.50")
	assert.True(t, a.CurrentPrice(&highest).Equal(highest))
}

func TestAuction_EndingSoonAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)

	a, err := auction.NewAuction(validSpec(start, end), start)
	require.NoError(t, err)

	assert.Equal(t, end.Add(-30*time.Minute), a.EndingSoonAt(30*time.Minute))
}
