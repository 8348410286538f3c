package registry

import (
	"context"

	id "authchain/pkg/domain"
)

// RoleStore is the single source of truth for which role each account holds.
// Accounts the store has never seen hold RoleUnassigned; lookups never fail
// with not-found.
type RoleStore interface {
	Role(ctx context.Context, account id.Account) (id.Role, error)
	SetRole(ctx context.Context, account id.Account, role id.Role) error
}

// AdminStore persists admin grants.
type AdminStore interface {
	Save(ctx context.Context, record AdminRecord) error
	// Find returns sentinel.ErrNotFound for unknown accounts.
	Find(ctx context.Context, account id.Account) (AdminRecord, error)
	Count(ctx context.Context) (int, error)
}
