package inventory

import (
	"context"

	id "authchain/pkg/domain"
)

// ProductStore persists the productCode→Product mapping. Codes are globally
// unique; records are never deleted, only their balances change.
type ProductStore interface {
	Save(ctx context.Context, product *Product) error
	// Find returns sentinel.ErrNotFound for unknown codes.
	Find(ctx context.Context, code id.ProductCode) (*Product, error)
}
