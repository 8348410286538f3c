package registry

import (
	"context"
	"errors"
	"log/slog"

	"authchain/internal/eventlog"
	"authchain/internal/ledger"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/platform/sentinel"
	"authchain/pkg/requestcontext"
)

// Service is the identity and role registry. It is the only writer of the
// account→role mapping; every other module consults it through RoleStore
// reads inside its own ledger transaction.
type Service struct {
	ledger *ledger.Ledger
	roles  RoleStore
	admins AdminStore
	owner  id.Account
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New constructs the registry service. The owner account is the bootstrap
// identity fixed at system initialization; it may mint the first admins.
func New(l *ledger.Ledger, roles RoleStore, admins AdminStore, owner id.Account, opts ...Option) *Service {
	s := &Service{
		ledger: l,
		roles:  roles,
		admins: admins,
		owner:  owner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterAdmin grants target the Admin role. Only the bootstrap owner or an
// existing admin may call it.
func (s *Service) RegisterAdmin(ctx context.Context, target id.Account) (*AdminRecord, error) {
	caller := requestcontext.Caller(ctx)
	if target.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "target account is required")
	}

	var record AdminRecord
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		if caller != s.owner {
			role, err := s.roles.Role(ctx, caller)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
			}
			if role != id.RoleAdmin {
				return ErrNotOwnerOrAdmin
			}
		}

		record = AdminRecord{
			Account:   target,
			GrantedBy: caller,
			GrantedAt: requestcontext.Now(ctx),
		}
		if err := s.admins.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save admin record")
		}
		if err := s.roles.SetRole(ctx, target, id.RoleAdmin); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign admin role")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:    eventlog.AdminRegistered,
			Actor:   caller,
			Account: target,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "admin registered", "target", target, "granted_by", caller)
	return &record, nil
}

// AssignRole overwrites target's role unconditionally. Role and profile
// existence are deliberately decoupled: an admin may hand out a role before
// the matching profile exists.
func (s *Service) AssignRole(ctx context.Context, target id.Account, role id.Role) error {
	caller := requestcontext.Caller(ctx)
	if target.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "target account is required")
	}
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}

	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		callerRole, err := s.roles.Role(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
		}
		if callerRole != id.RoleAdmin {
			return ErrNotAnAdmin
		}
		if err := s.roles.SetRole(ctx, target, role); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign role")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:    eventlog.RoleAssigned,
			Actor:   caller,
			Account: target,
			Role:    role.String(),
		})
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "role assigned", "target", target, "role", role)
	return nil
}

// Role returns the current role of an account, RoleUnassigned by default.
func (s *Service) Role(ctx context.Context, account id.Account) (id.Role, error) {
	role, err := s.roles.Role(ctx, account)
	if err != nil {
		return id.RoleUnassigned, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read role")
	}
	return role, nil
}

// Admin returns the admin record for an account.
func (s *Service) Admin(ctx context.Context, account id.Account) (*AdminRecord, error) {
	record, err := s.admins.Find(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "admin not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read admin record")
	}
	return &record, nil
}
