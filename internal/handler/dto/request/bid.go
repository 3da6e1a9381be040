package request

import "github.com/shopspring/decimal"

type PlaceBidRequest struct {
	Name   string          `json:"name" binding:"required"`
	Email  string          `json:"email" binding:"required,email"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
