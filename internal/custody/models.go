package custody

import (
	"time"

	"github.com/google/uuid"

	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
)

// RetailerProfile is a retailer's self-registered directory entry.
type RetailerProfile struct {
	Account      id.Account `json:"account"`
	BrandName    string     `json:"brand_name"`
	RegisteredAt time.Time  `json:"registered_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// LogisticsPersonnel is a courier record sponsored by a verified manufacturer
// or a retailer. It is audit metadata; transfers reference handlers freely
// whether or not a record exists.
type LogisticsPersonnel struct {
	Account      id.Account `json:"account"`
	UID          string     `json:"uid"`
	Brand        string     `json:"brand"`
	Active       bool       `json:"active"`
	RegisteredBy id.Account `json:"registered_by"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// Holding is a retailer's cumulative balance for one product code. Received
// and Sold only grow; Received - Sold is the quantity currently held.
type Holding struct {
	Code      id.ProductCode `json:"code"`
	Retailer  id.Account     `json:"retailer"`
	Received  int64          `json:"received"`
	Sold      int64          `json:"sold"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Held returns the quantity currently at the retailer.
func (h Holding) Held() int64 { return h.Received - h.Sold }

// Transfer is one manufacturer→retailer hand-off.
type Transfer struct {
	ID       uuid.UUID      `json:"id"`
	Code     id.ProductCode `json:"code"`
	From     id.Account     `json:"from"`
	Retailer id.Account     `json:"retailer"`
	Quantity int64          `json:"quantity"`
	Handler  id.Account     `json:"handler"`
	At       time.Time      `json:"at"`
}

// Named refusal errors for custody operations.
var (
	ErrNotAManufacturer = dErrors.New(dErrors.CodeForbidden, "caller is not the verified manufacturer of this product")
	ErrNotARetailer     = dErrors.New(dErrors.CodeForbidden, "account does not hold the retailer role")
	ErrNotAuthorized    = dErrors.New(dErrors.CodeForbidden, "caller is not a verified manufacturer or retailer")
	ErrInvalidQuantity  = dErrors.New(dErrors.CodeValidation, "quantity must be greater than zero")

	// ErrInsufficientStock guards the non-negativity of manufacturer stock.
	ErrInsufficientStock = dErrors.New(dErrors.CodeInvariantViolation, "transfer quantity exceeds on-hand stock")
)
