package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)

// BidView is the public shape of a ledger entry; bidder emails never leave
// the admin surface.
type BidView struct {
	ID         uuid.UUID       `json:"id"`
	BidderName string          `json:"bidder_name"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
}

type AdminBidView struct {
	ID          uuid.UUID       `json:"id"`
	BidderName  string          `json:"bidder_name"`
	BidderEmail string          `json:"bidder_email"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WinnerView is only populated after the auction ends. Instructions are
// disclosed to the winning email alone.
type WinnerView struct {
	Name           string `json:"name"`
	ViewerIsWinner bool   `json:"viewer_is_winner"`
	Instructions   string `json:"instructions,omitempty"`
}

type AuctionSnapshot struct {
	AuctionID       uuid.UUID       `json:"auction_id"`
	Title           string          `json:"title"`
	Status          string          `json:"status"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	MinBidIncrement decimal.Decimal `json:"min_bid_increment"`
	BidCount        int64           `json:"bid_count"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	HighestBidder   *string         `json:"highest_bidder,omitempty"`
	RecentBids      []BidView       `json:"recent_bids"`
	AllowedDomains  []string        `json:"allowed_domains,omitempty"`
	Winner          *WinnerView     `json:"winner,omitempty"`
}

type AuctionListItem struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Status       string          `json:"status"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	BidCount     int64           `json:"bid_count"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
}

// AuctionDirectory mirrors the public landing page: running auctions by
// soonest end, upcoming by soonest start, and a short tail of ended ones.
type AuctionDirectory struct {
	Active   []AuctionListItem `json:"active"`
	Upcoming []AuctionListItem `json:"upcoming"`
	Ended    []AuctionListItem `json:"ended"`
}

type AdminAuctionView struct {
	ID                       uuid.UUID        `json:"id"`
	Title                    string           `json:"title"`
	Description              string           `json:"description"`
	MinPrice                 decimal.Decimal  `json:"min_price"`
	MaxPrice                 *decimal.Decimal `json:"max_price,omitempty"`
	MinBidIncrement          decimal.Decimal  `json:"min_bid_increment"`
	MaxBidIncrement          *decimal.Decimal `json:"max_bid_increment,omitempty"`
	StartDate                time.Time        `json:"start_date"`
	EndDate                  time.Time        `json:"end_date"`
	RequireEmailConfirmation bool             `json:"require_email_confirmation"`
	WhitelistedDomains       string           `json:"whitelisted_domains,omitempty"`
	ShowAllowedDomains       bool             `json:"show_allowed_domains"`
	NotifyWinner             bool             `json:"notify_winner"`
	WinnerInstructions       string           `json:"winner_instructions,omitempty"`
	IsActive                 bool             `json:"is_active"`
	Status                   string           `json:"status"`
	CurrentPrice             decimal.Decimal  `json:"current_price"`
	BidCount                 int64            `json:"bid_count"`
	EndingSoonNotifiedAt     *time.Time       `json:"ending_soon_notified_at,omitempty"`
	EndedNotifiedAt          *time.Time       `json:"ended_notified_at,omitempty"`
	CreatedAt                time.Time        `json:"created_at"`
}
