package manufacturer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"authchain/internal/eventlog"
	"authchain/internal/ledger"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/platform/sentinel"
	"authchain/pkg/requestcontext"
)

// Roles is the read surface this module needs from the registry.
type Roles interface {
	Role(ctx context.Context, account id.Account) (id.Role, error)
}

// Service is the manufacturer directory: profiles plus the admin-asserted
// verification flag that gates inventory and logistics operations.
type Service struct {
	ledger   *ledger.Ledger
	profiles ProfileStore
	roles    Roles
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(l *ledger.Ledger, profiles ProfileStore, roles Roles, opts ...Option) *Service {
	s := &Service{
		ledger:   l,
		profiles: profiles,
		roles:    roles,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates or overwrites the caller's manufacturer profile. Any
// account may self-register; verification is a separate admin step. A repeat
// registration is last-write-wins for descriptive fields but never clears an
// earlier verification.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	caller := requestcontext.Caller(ctx)
	input.BrandName = strings.TrimSpace(input.BrandName)
	if input.BrandName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "brand name is required")
	}

	var profile Profile
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		now := requestcontext.Now(ctx)
		profile = Profile{
			Account:            caller,
			BrandName:          input.BrandName,
			RegulatoryID:       input.RegulatoryID,
			RegistrationNumber: input.RegistrationNumber,
			YearOfRegistration: input.YearOfRegistration,
			Location:           input.Location,
			RegisteredAt:       now,
			UpdatedAt:          now,
		}

		existing, err := s.profiles.Find(ctx, caller)
		switch {
		case err == nil:
			profile.Verified = existing.Verified
			profile.RegisteredAt = existing.RegisteredAt
		case errors.Is(err, sentinel.ErrNotFound):
			// first registration
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read manufacturer profile")
		}

		if err := s.profiles.Save(ctx, &profile); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save manufacturer profile")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:  eventlog.ManufacturerRegistered,
			Actor: caller,
			Brand: profile.BrandName,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "manufacturer registered", "account", caller, "brand", profile.BrandName)
	return &profile, nil
}

// Verify flips the verification flag for a manufacturer. Admin only;
// verifying an already verified profile is a no-op, not an error, and does
// not emit a second event.
func (s *Service) Verify(ctx context.Context, account id.Account) (*Profile, error) {
	caller := requestcontext.Caller(ctx)
	if account.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "manufacturer account is required")
	}

	var profile *Profile
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		role, err := s.roles.Role(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
		}
		if role != id.RoleAdmin {
			return ErrNotAnAdmin
		}

		profile, err = s.profiles.Find(ctx, account)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "manufacturer not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read manufacturer profile")
		}
		if profile.Verified {
			return nil
		}

		profile.Verified = true
		profile.UpdatedAt = requestcontext.Now(ctx)
		if err := s.profiles.Save(ctx, profile); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save manufacturer profile")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:    eventlog.ManufacturerVerified,
			Actor:   caller,
			Account: account,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "manufacturer verified", "account", account, "by", caller)
	return profile, nil
}

// Get returns the directory entry for an account.
func (s *Service) Get(ctx context.Context, account id.Account) (*Profile, error) {
	profile, err := s.profiles.Find(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "manufacturer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read manufacturer profile")
	}
	return profile, nil
}

// Verified reports whether an account has a verified manufacturer profile.
// Unknown accounts are simply unverified.
func (s *Service) Verified(ctx context.Context, account id.Account) (bool, error) {
	profile, err := s.profiles.Find(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read manufacturer profile")
	}
	return profile.Verified, nil
}
