package custody

import (
	"context"

	id "authchain/pkg/domain"
)

// RetailerStore persists the account→RetailerProfile mapping.
type RetailerStore interface {
	Save(ctx context.Context, profile *RetailerProfile) error
	// Find returns sentinel.ErrNotFound for unknown accounts.
	Find(ctx context.Context, account id.Account) (*RetailerProfile, error)
}

// PersonnelStore persists the account→LogisticsPersonnel mapping.
type PersonnelStore interface {
	Save(ctx context.Context, record *LogisticsPersonnel) error
	// Find returns sentinel.ErrNotFound for unknown accounts.
	Find(ctx context.Context, account id.Account) (*LogisticsPersonnel, error)
}

// HoldingStore persists the (productCode, retailer)→Holding mapping. The sale
// ledger shares it to debit held quantities.
type HoldingStore interface {
	Save(ctx context.Context, holding *Holding) error
	// Find returns sentinel.ErrNotFound for unknown pairs.
	Find(ctx context.Context, code id.ProductCode, retailer id.Account) (*Holding, error)
	ListByProduct(ctx context.Context, code id.ProductCode) ([]Holding, error)
}

// TransferStore persists the append-only transfer history.
type TransferStore interface {
	Append(ctx context.Context, transfer *Transfer) error
	ListByProduct(ctx context.Context, code id.ProductCode) ([]Transfer, error)
}
