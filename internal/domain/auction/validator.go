package auction

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RejectionCode string

const (
	CodeNotAcceptingBids RejectionCode = "not_accepting_bids"
	CodeInvalidInput     RejectionCode = "invalid_input"
	CodeDomainNotAllowed RejectionCode = "domain_not_allowed"
	CodeBelowMinimum     RejectionCode = "below_minimum"
	CodeAboveMaximum     RejectionCode = "above_maximum"
	CodeAboveCeiling     RejectionCode = "above_ceiling"
)

// RejectionError is a recoverable bid rejection. Limit carries the boundary
// value recomputed at the moment of rejection; prices move between attempts.
type RejectionError struct {
	Code           RejectionCode
	Limit          decimal.Decimal
	AllowedDomains []string
}

func (e *RejectionError) Error() string {
	switch e.Code {
	case CodeNotAcceptingBids:
		return "This auction is not currently accepting bids."
	case CodeInvalidInput:
		return "Name, email, and bid amount are required."
	case CodeDomainNotAllowed:
		if len(e.AllowedDomains) > 0 {
			return "Email must be from one of these domains: " + strings.Join(e.AllowedDomains, ", ")
		}
		return "Email domain is not allowed."
	case CodeBelowMinimum:
		return fmt.Sprintf("Minimum bid is €%s", e.Limit.StringFixed(2))
	case CodeAboveMaximum:
		return fmt.Sprintf("Maximum bid is €%s", e.Limit.StringFixed(2))
	case CodeAboveCeiling:
		return fmt.Sprintf("Bid cannot exceed €%s", e.Limit.StringFixed(2))
	default:
		return "Bid rejected."
	}
}

// Submission is a proposed bid, normalized for validation.
type Submission struct {
	Name   string
	Email  string
	Amount decimal.Decimal
}

func NewSubmission(name, email string, amount decimal.Decimal) Submission {
	return Submission{
		Name:   strings.TrimSpace(name),
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Amount: amount,
	}
}

// ValidateBid runs the acceptance checks in order; the first failure wins.
// currentPrice must be derived from the ledger state the caller has
// serialized against — the same checks run at submission and again at
// confirmation time.
func ValidateBid(a *Auction, currentPrice decimal.Decimal, sub Submission, now time.Time) error {
	if a.StatusAt(now) != StatusActive {
		return &RejectionError{Code: CodeNotAcceptingBids}
	}

	if sub.Name == "" || sub.Email == "" || !sub.Amount.IsPositive() {
		return &RejectionError{Code: CodeInvalidInput}
	}

	if !a.whitelist.Allows(sub.Email) {
		rej := &RejectionError{Code: CodeDomainNotAllowed}
		if a.showAllowedDomains {
			rej.AllowedDomains = a.whitelist.Domains()
		}
		return rej
	}

	minBid := currentPrice.Add(a.minBidIncrement)
	if sub.Amount.LessThan(minBid) {
		return &RejectionError{Code: CodeBelowMinimum, Limit: minBid}
	}

	if a.maxBidIncrement != nil {
		maxBid := currentPrice.Add(*a.maxBidIncrement)
		if sub.Amount.GreaterThan(maxBid) {
			return &RejectionError{Code: CodeAboveMaximum, Limit: maxBid}
		}
	}

	if a.maxPrice != nil && sub.Amount.GreaterThan(*a.maxPrice) {
		return &RejectionError{Code: CodeAboveCeiling, Limit: *a.maxPrice}
	}

	return nil
}
