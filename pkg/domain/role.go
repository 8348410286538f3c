package domain

import dErrors "authchain/pkg/domain-errors"

// Role is the closed set of capability classes an account may hold. Every
// account holds exactly one role at any time; Unassigned is the default for
// accounts the registry has never seen.
//
// The numeric values are part of the persisted format and must not be
// reordered.
type Role uint8

const (
	RoleUnassigned Role = iota
	RoleConsumer
	RoleManufacturer
	RoleLogisticsPersonnel
	RoleRetailer
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUnassigned:         "unassigned",
	RoleConsumer:           "consumer",
	RoleManufacturer:       "manufacturer",
	RoleLogisticsPersonnel: "logistics_personnel",
	RoleRetailer:           "retailer",
	RoleAdmin:              "admin",
}

var rolesByName = func() map[string]Role {
	m := make(map[string]Role, len(roleNames))
	for r, n := range roleNames {
		m[n] = r
	}
	return m
}()

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or not a supported
// role name.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleUnassigned, dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r, ok := rolesByName[s]
	if !ok {
		return RoleUnassigned, dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks that the role is one of the supported enum values.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// String returns the wire name of the role.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// MarshalText serializes the role by name so JSON payloads stay readable.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, dErrors.New(dErrors.CodeInternal, "cannot marshal unknown role")
	}
	return []byte(r.String()), nil
}

// UnmarshalText parses a role name, enforcing the closed set.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
