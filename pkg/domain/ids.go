package domain

import (
	"strings"

	dErrors "authchain/pkg/domain-errors"
)

// Account is the opaque, address-like identity of a supply-chain participant.
// Accounts are created implicitly on first interaction; the ledger never
// validates that an account "exists", only that the string is well formed.
//
// Usage: construct via ParseAccount at trust boundaries; direct casting
// bypasses validation.
type Account string

// ProductCode identifies a product line across the whole ledger. Codes are
// globally unique and owned by the manufacturer that first registered them.
type ProductCode string

const (
	maxAccountLen     = 128
	maxProductCodeLen = 64
)

// ParseAccount constructs an Account from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, too long, or
// contains whitespace; no other errors are expected.
func ParseAccount(s string) (Account, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account cannot be empty")
	}
	if len(s) > maxAccountLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account exceeds maximum length")
	}
	if strings.ContainsAny(s, " \t\n") {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account cannot contain whitespace")
	}
	return Account(s), nil
}

// ParseProductCode constructs a ProductCode from external input.
func ParseProductCode(s string) (ProductCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "product code cannot be empty")
	}
	if len(s) > maxProductCodeLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "product code exceeds maximum length")
	}
	return ProductCode(s), nil
}

func (a Account) String() string { return string(a) }

func (a Account) IsZero() bool { return a == "" }

func (c ProductCode) String() string { return string(c) }

func (c ProductCode) IsZero() bool { return c == "" }
