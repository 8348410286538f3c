package manufacturer

import (
	"context"

	id "authchain/pkg/domain"
)

// ProfileStore persists manufacturer directory entries.
type ProfileStore interface {
	Save(ctx context.Context, profile *Profile) error
	// Find returns sentinel.ErrNotFound for accounts with no profile.
	Find(ctx context.Context, account id.Account) (*Profile, error)
}
