package registry

import (
	"time"

	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
)

// AdminRecord grants an account the Admin role. Records persist forever for
// audit; revocation is expressed by reassigning the role, never by deletion.
type AdminRecord struct {
	Account   id.Account `json:"account"`
	GrantedBy id.Account `json:"granted_by"`
	GrantedAt time.Time  `json:"granted_at"`
}

// Named refusal errors for the registry operations.
var (
	// ErrNotOwnerOrAdmin rejects registerAdmin callers that are neither the
	// bootstrap owner nor an existing admin.
	ErrNotOwnerOrAdmin = dErrors.New(dErrors.CodeForbidden, "caller is not the owner or an admin")

	// ErrNotAnAdmin rejects admin-only operations.
	ErrNotAnAdmin = dErrors.New(dErrors.CodeForbidden, "caller is not an admin")
)
