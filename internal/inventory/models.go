package inventory

import (
	"time"

	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
)

// Product is one product line's stock record, owned exclusively by the
// manufacturer that originated the code.
//
// Invariants:
//   - OnHand never goes below zero; short decrements abort the operation.
//   - TotalAdded only grows, and the conservation identity
//     OnHand + Σ retailer holdings + Σ consumer purchases == TotalAdded
//     holds after every committed operation.
type Product struct {
	Code           id.ProductCode `json:"code"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          int64          `json:"price"`
	ExpiryDate     string         `json:"expiry_date"`
	BatchID        string         `json:"batch_id"`
	ProductionDate string         `json:"production_date"`
	BatchLabel     string         `json:"batch_label"`
	ImageRef       string         `json:"image_ref"`
	Manufacturer   id.Account     `json:"manufacturer"`
	OnHand         int64          `json:"on_hand"`
	TotalAdded     int64          `json:"total_added"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// AddInput carries the addToInventory fields.
type AddInput struct {
	Code           id.ProductCode
	Name           string
	Description    string
	Price          int64
	ExpiryDate     string
	BatchID        string
	Quantity       int64
	ProductionDate string
	BatchLabel     string
	ImageRef       string
}

// Named refusal errors for inventory operations.
var (
	// ErrNotAManufacturer rejects callers that lack the Manufacturer role or
	// a verified directory entry.
	ErrNotAManufacturer = dErrors.New(dErrors.CodeForbidden, "caller is not a verified manufacturer")

	// ErrInvalidQuantity rejects non-positive quantities.
	ErrInvalidQuantity = dErrors.New(dErrors.CodeValidation, "quantity must be greater than zero")

	// ErrCodeOwnedByOther rejects a restock attempt against a code that a
	// different manufacturer originated.
	ErrCodeOwnedByOther = dErrors.New(dErrors.CodeConflict, "product code is owned by another manufacturer")
)
