package errs

import "errors"

// Domain-specific sentinel errors for the usecase layers
var (
	// Lookup errors
	ErrAuctionNotFound = errors.New("auction not found")
	ErrTokenNotFound   = errors.New("confirmation token not found")

	// Bid confirmation errors
	ErrConfirmationDeliveryFailed = errors.New("confirmation email delivery failed")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
