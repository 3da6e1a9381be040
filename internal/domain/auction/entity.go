package auction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingTitle        = errors.New("title is required")
	ErrNegativeMinPrice    = errors.New("minimum price cannot be negative")
	ErrMaxBelowMin         = errors.New("maximum price must not be below minimum price")
	ErrNonPositiveBidStep  = errors.New("minimum bid increment must be positive")
	ErrMaxStepBelowMinStep = errors.New("maximum bid increment must not be below minimum bid increment")
)

type Auction struct {
	id                       uuid.UUID
	title                    string
	description              string
	minPrice                 decimal.Decimal
	maxPrice                 *decimal.Decimal
	minBidIncrement          decimal.Decimal
	maxBidIncrement          *decimal.Decimal
	window                   AuctionWindow
	requireEmailConfirmation bool
	whitelist                Whitelist
	showAllowedDomains       bool
	notifyWinner             bool
	winnerInstructions       string
	isActive                 bool
	endingSoonNotifiedAt     *time.Time
	endedNotifiedAt          *time.Time
	createdAt                time.Time
	updatedAt                time.Time
}

type Spec struct {
	Title                    string
	Description              string
	MinPrice                 decimal.Decimal
	MaxPrice                 *decimal.Decimal
	MinBidIncrement          decimal.Decimal
	MaxBidIncrement          *decimal.Decimal
	StartDate                time.Time
	EndDate                  time.Time
	RequireEmailConfirmation bool
	WhitelistedDomains       string
	ShowAllowedDomains       bool
	NotifyWinner             bool
	WinnerInstructions       string
	IsActive                 bool
}

func NewAuction(spec Spec, now time.Time) (*Auction, error) {
	if spec.Title == "" {
		return nil, ErrMissingTitle
	}
	if spec.MinPrice.IsNegative() {
		return nil, ErrNegativeMinPrice
	}
	if spec.MaxPrice != nil && spec.MaxPrice.LessThan(spec.MinPrice) {
		return nil, ErrMaxBelowMin
	}
	if !spec.MinBidIncrement.IsPositive() {
		return nil, ErrNonPositiveBidStep
	}
	if spec.MaxBidIncrement != nil && spec.MaxBidIncrement.LessThan(spec.MinBidIncrement) {
		return nil, ErrMaxStepBelowMinStep
	}

	window, err := NewAuctionWindow(spec.StartDate, spec.EndDate)
	if err != nil {
		return nil, err
	}

	return &Auction{
		id:                       uuid.New(),
		title:                    spec.Title,
		description:              spec.Description,
		minPrice:                 spec.MinPrice,
		maxPrice:                 spec.MaxPrice,
		minBidIncrement:          spec.MinBidIncrement,
		maxBidIncrement:          spec.MaxBidIncrement,
		window:                   window,
		requireEmailConfirmation: spec.RequireEmailConfirmation,
		whitelist:                ParseWhitelist(spec.WhitelistedDomains),
		showAllowedDomains:       spec.ShowAllowedDomains,
		notifyWinner:             spec.NotifyWinner,
		winnerInstructions:       spec.WinnerInstructions,
		isActive:                 spec.IsActive,
		createdAt:                now,
		updatedAt:                now,
	}, nil
}

func ReconstructAuction(
	id uuid.UUID,
	spec Spec,
	endingSoonNotifiedAt, endedNotifiedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Auction {
	return &Auction{
		id:                       id,
		title:                    spec.Title,
		description:              spec.Description,
		minPrice:                 spec.MinPrice,
		maxPrice:                 spec.MaxPrice,
		minBidIncrement:          spec.MinBidIncrement,
		maxBidIncrement:          spec.MaxBidIncrement,
		window:                   AuctionWindow{start: spec.StartDate.UTC(), end: spec.EndDate.UTC()},
		requireEmailConfirmation: spec.RequireEmailConfirmation,
		whitelist:                ParseWhitelist(spec.WhitelistedDomains),
		showAllowedDomains:       spec.ShowAllowedDomains,
		notifyWinner:             spec.NotifyWinner,
		winnerInstructions:       spec.WinnerInstructions,
		isActive:                 spec.IsActive,
		endingSoonNotifiedAt:     endingSoonNotifiedAt,
		endedNotifiedAt:          endedNotifiedAt,
		createdAt:                createdAt,
		updatedAt:                updatedAt,
	}
}

// StatusAt resolves the lifecycle state for a given instant. The kill-switch
// wins over the time checks; the end instant itself already counts as ended.
func (a *Auction) StatusAt(now time.Time) Status {
	if !a.isActive {
		return StatusInactive
	}
	if now.Before(a.window.start) {
		return StatusUpcoming
	}
	if !now.Before(a.window.end) {
		return StatusEnded
	}
	return StatusActive
}

// CurrentPrice derives the live price from the highest accepted bid amount,
// falling back to the floor price when no bids exist.
func (a *Auction) CurrentPrice(highestBidAmount *decimal.Decimal) decimal.Decimal {
	if highestBidAmount == nil {
		return a.minPrice
	}
	return *highestBidAmount
}

func (a *Auction) EndingSoonAt(lead time.Duration) time.Time {
	return a.window.end.Add(-lead)
}

func (a *Auction) ID() uuid.UUID                    { return a.id }
func (a *Auction) Title() string                    { return a.title }
func (a *Auction) Description() string              { return a.description }
func (a *Auction) MinPrice() decimal.Decimal        { return a.minPrice }
func (a *Auction) MaxPrice() *decimal.Decimal       { return a.maxPrice }
func (a *Auction) MinBidIncrement() decimal.Decimal { return a.minBidIncrement }
func (a *Auction) MaxBidIncrement() *decimal.Decimal {
	return a.maxBidIncrement
}
func (a *Auction) StartDate() time.Time            { return a.window.start }
func (a *Auction) EndDate() time.Time              { return a.window.end }
func (a *Auction) RequireEmailConfirmation() bool  { return a.requireEmailConfirmation }
func (a *Auction) Whitelist() Whitelist            { return a.whitelist }
func (a *Auction) ShowAllowedDomains() bool        { return a.showAllowedDomains }
func (a *Auction) NotifyWinner() bool              { return a.notifyWinner }
func (a *Auction) WinnerInstructions() string      { return a.winnerInstructions }
func (a *Auction) IsActive() bool                  { return a.isActive }
func (a *Auction) EndingSoonNotifiedAt() *time.Time { return a.endingSoonNotifiedAt }
func (a *Auction) EndedNotifiedAt() *time.Time     { return a.endedNotifiedAt }
func (a *Auction) CreatedAt() time.Time            { return a.createdAt }
func (a *Auction) UpdatedAt() time.Time            { return a.updatedAt }
