package request

import (
	"time"

	"github.com/shopspring/decimal"

	"zolta/internal/domain/auction"
)

type AuctionRequest struct {
	Title                    string           `json:"title" binding:"required"`
	Description              string           `json:"description"`
	MinPrice                 decimal.Decimal  `json:"min_price"`
	MaxPrice                 *decimal.Decimal `json:"max_price"`
	MinBidIncrement          decimal.Decimal  `json:"min_bid_increment" binding:"required"`
	MaxBidIncrement          *decimal.Decimal `json:"max_bid_increment"`
	StartDate                time.Time        `json:"start_date" binding:"required"`
	EndDate                  time.Time        `json:"end_date" binding:"required"`
	RequireEmailConfirmation bool             `json:"require_email_confirmation"`
	WhitelistedDomains       string           `json:"whitelisted_domains"`
	ShowAllowedDomains       bool             `json:"show_allowed_domains"`
	NotifyWinner             bool             `json:"notify_winner"`
	WinnerInstructions       string           `json:"winner_instructions"`
	IsActive                 bool             `json:"is_active"`
}

func (r *AuctionRequest) ToSpec() auction.Spec {
	return auction.Spec{
		Title:                    r.Title,
		Description:              r.Description,
		MinPrice:                 r.MinPrice,
		MaxPrice:                 r.MaxPrice,
		MinBidIncrement:          r.MinBidIncrement,
		MaxBidIncrement:          r.MaxBidIncrement,
		StartDate:                r.StartDate,
		EndDate:                  r.EndDate,
		RequireEmailConfirmation: r.RequireEmailConfirmation,
		WhitelistedDomains:       r.WhitelistedDomains,
		ShowAllowedDomains:       r.ShowAllowedDomains,
		NotifyWinner:             r.NotifyWinner,
		WinnerInstructions:       r.WinnerInstructions,
		IsActive:                 r.IsActive,
	}
}
