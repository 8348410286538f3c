package sale

import (
	"time"

	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
)

// ConsumerProfile is a consumer's self-registered directory entry.
type ConsumerProfile struct {
	Account      id.Account `json:"account"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// SaleRecord accumulates one consumer's purchases of one product code.
type SaleRecord struct {
	Code      id.ProductCode `json:"code"`
	Consumer  id.Account     `json:"consumer"`
	Purchased int64          `json:"purchased"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Named refusal errors for sale operations.
var (
	ErrNotARetailer    = dErrors.New(dErrors.CodeForbidden, "caller does not hold the retailer role")
	ErrInvalidQuantity = dErrors.New(dErrors.CodeValidation, "quantity must be greater than zero")

	// ErrInsufficientRetailerStock guards the non-negativity of held stock.
	ErrInsufficientRetailerStock = dErrors.New(dErrors.CodeInvariantViolation, "sale quantity exceeds held stock")
)
