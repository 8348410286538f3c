package manufacturer

import (
	"time"

	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
)

// Profile is a manufacturer's directory entry.
//
// Invariants:
//   - Verified flips false→true exactly once; nothing ever clears it.
//   - Re-registration overwrites descriptive fields (last write wins) but
//     keeps an earlier verification.
type Profile struct {
	Account            id.Account `json:"account"`
	BrandName          string     `json:"brand_name"`
	RegulatoryID       string     `json:"regulatory_id"`
	RegistrationNumber string     `json:"registration_number"`
	YearOfRegistration int        `json:"year_of_registration"`
	Location           string     `json:"location"`
	Verified           bool       `json:"verified"`
	RegisteredAt       time.Time  `json:"registered_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// RegisterInput carries the self-registration fields.
type RegisterInput struct {
	BrandName          string
	RegulatoryID       string
	RegistrationNumber string
	YearOfRegistration int
	Location           string
}

// ErrNotAnAdmin rejects verification attempts by non-admin callers.
var ErrNotAnAdmin = dErrors.New(dErrors.CodeForbidden, "caller is not an admin")
