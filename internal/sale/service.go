package sale

import (
	"context"
	"errors"
	"log/slog"

	"authchain/internal/custody"
	"authchain/internal/eventlog"
	"authchain/internal/ledger"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/platform/sentinel"
	"authchain/pkg/requestcontext"
)

// Roles is the registry surface this module needs. RegisterConsumer assigns
// the Consumer role to accounts that do not hold one yet.
type Roles interface {
	Role(ctx context.Context, account id.Account) (id.Role, error)
	SetRole(ctx context.Context, account id.Account, role id.Role) error
}

// Service is the retail endpoint of the chain: consumer registration and
// retailer→consumer sales debited against custody holdings.
type Service struct {
	ledger    *ledger.Ledger
	consumers ConsumerStore
	sales     SaleStore
	holdings  custody.HoldingStore
	roles     Roles
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(l *ledger.Ledger, consumers ConsumerStore, sales SaleStore, holdings custody.HoldingStore, roles Roles, opts ...Option) *Service {
	s := &Service{
		ledger:    l,
		consumers: consumers,
		sales:     sales,
		holdings:  holdings,
		roles:     roles,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterConsumer creates the caller's consumer profile and assigns the
// Consumer role when the caller has none yet. Repeat registration is a no-op
// for the profile and never touches an existing role.
func (s *Service) RegisterConsumer(ctx context.Context) (*ConsumerProfile, error) {
	caller := requestcontext.Caller(ctx)

	var profile ConsumerProfile
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		profile = ConsumerProfile{
			Account:      caller,
			RegisteredAt: requestcontext.Now(ctx),
		}

		existing, err := s.consumers.Find(ctx, caller)
		switch {
		case err == nil:
			profile = *existing
		case errors.Is(err, sentinel.ErrNotFound):
			// first registration
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consumer profile")
		}

		role, err := s.roles.Role(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
		}
		if role == id.RoleUnassigned {
			if err := s.roles.SetRole(ctx, caller, id.RoleConsumer); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign consumer role")
			}
		}

		if err := s.consumers.Save(ctx, &profile); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consumer profile")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:  eventlog.ConsumerRegistered,
			Actor: caller,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "consumer registered", "account", caller)
	return &profile, nil
}

// SellToConsumer debits the caller's held quantity for a code and credits the
// consumer's cumulative purchase record.
func (s *Service) SellToConsumer(ctx context.Context, code id.ProductCode, consumer id.Account, quantity int64) (*SaleRecord, error) {
	caller := requestcontext.Caller(ctx)
	if consumer.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "consumer account is required")
	}

	var record *SaleRecord
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		role, err := s.roles.Role(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
		}
		if role != id.RoleRetailer {
			return ErrNotARetailer
		}
		if quantity <= 0 {
			return ErrInvalidQuantity
		}

		holding, err := s.holdings.Find(ctx, code, caller)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return ErrInsufficientRetailerStock
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read retailer holding")
		}
		if quantity > holding.Held() {
			return ErrInsufficientRetailerStock
		}

		now := requestcontext.Now(ctx)
		holding.Sold += quantity
		holding.UpdatedAt = now
		if err := s.holdings.Save(ctx, holding); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save retailer holding")
		}

		record, err = s.sales.Find(ctx, code, consumer)
		switch {
		case err == nil:
		case errors.Is(err, sentinel.ErrNotFound):
			record = &SaleRecord{Code: code, Consumer: consumer}
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read sale record")
		}
		record.Purchased += quantity
		record.UpdatedAt = now
		if err := s.sales.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save sale record")
		}

		return eventlog.Record(ctx, eventlog.Event{
			Name:        eventlog.ProductSoldToConsumer,
			Actor:       caller,
			Account:     consumer,
			ProductCode: code,
			Quantity:    quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product sold",
		"code", code, "retailer", caller, "consumer", consumer, "quantity", quantity)
	return record, nil
}

// Consumer returns the profile for an account.
func (s *Service) Consumer(ctx context.Context, account id.Account) (*ConsumerProfile, error) {
	profile, err := s.consumers.Find(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "consumer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consumer profile")
	}
	return profile, nil
}

// Purchases returns the per-consumer sale records for a code.
func (s *Service) Purchases(ctx context.Context, code id.ProductCode) ([]SaleRecord, error) {
	records, err := s.sales.ListByProduct(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sale records")
	}
	return records, nil
}

// Purchase returns one consumer's cumulative record for a code.
func (s *Service) Purchase(ctx context.Context, code id.ProductCode, consumer id.Account) (*SaleRecord, error) {
	record, err := s.sales.Find(ctx, code, consumer)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "sale record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read sale record")
	}
	return record, nil
}
