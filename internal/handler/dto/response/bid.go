package response

import "github.com/google/uuid"

type PlaceBidResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	BidID   uuid.UUID `json:"bid_id,omitempty"`
}

type ConfirmBidResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	AuctionID uuid.UUID `json:"auction_id"`
}
