package sale

import (
	"context"

	id "authchain/pkg/domain"
)

// ConsumerStore persists the account→ConsumerProfile mapping.
type ConsumerStore interface {
	Save(ctx context.Context, profile *ConsumerProfile) error
	// Find returns sentinel.ErrNotFound for unknown accounts.
	Find(ctx context.Context, account id.Account) (*ConsumerProfile, error)
}

// SaleStore persists the (productCode, consumer)→SaleRecord mapping.
type SaleStore interface {
	Save(ctx context.Context, record *SaleRecord) error
	// Find returns sentinel.ErrNotFound for unknown pairs.
	Find(ctx context.Context, code id.ProductCode, consumer id.Account) (*SaleRecord, error)
	ListByProduct(ctx context.Context, code id.ProductCode) ([]SaleRecord, error)
}
