package custody

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"authchain/internal/eventlog"
	"authchain/internal/inventory"
	"authchain/internal/ledger"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/platform/sentinel"
	"authchain/pkg/requestcontext"
)

// Roles is the registry surface this module needs. The registration flows
// assign the matching role to accounts that do not hold one yet.
type Roles interface {
	Role(ctx context.Context, account id.Account) (id.Role, error)
	SetRole(ctx context.Context, account id.Account, role id.Role) error
}

// Directory is the manufacturer directory's verification read.
type Directory interface {
	Verified(ctx context.Context, account id.Account) (bool, error)
}

// PersonnelInput carries the registerLogisticsPersonnel fields.
type PersonnelInput struct {
	Account id.Account
	UID     string
	Brand   string
}

// Service tracks custody: retailer registration, logistics personnel
// sponsorship, and manufacturer→retailer stock transfers.
type Service struct {
	ledger    *ledger.Ledger
	retailers RetailerStore
	personnel PersonnelStore
	holdings  HoldingStore
	transfers TransferStore
	products  inventory.ProductStore
	roles     Roles
	directory Directory
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(
	l *ledger.Ledger,
	retailers RetailerStore,
	personnel PersonnelStore,
	holdings HoldingStore,
	transfers TransferStore,
	products inventory.ProductStore,
	roles Roles,
	directory Directory,
	opts ...Option,
) *Service {
	s := &Service{
		ledger:    l,
		retailers: retailers,
		personnel: personnel,
		holdings:  holdings,
		transfers: transfers,
		products:  products,
		roles:     roles,
		directory: directory,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRetailer creates or overwrites the caller's retailer profile and
// assigns the Retailer role when the caller has none yet. An existing role is
// left alone; only an admin reassigns roles.
func (s *Service) RegisterRetailer(ctx context.Context, brandName string) (*RetailerProfile, error) {
	caller := requestcontext.Caller(ctx)
	brandName = strings.TrimSpace(brandName)
	if brandName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "brand name is required")
	}

	var profile RetailerProfile
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		now := requestcontext.Now(ctx)
		profile = RetailerProfile{
			Account:      caller,
			BrandName:    brandName,
			RegisteredAt: now,
			UpdatedAt:    now,
		}

		existing, err := s.retailers.Find(ctx, caller)
		switch {
		case err == nil:
			profile.RegisteredAt = existing.RegisteredAt
		case errors.Is(err, sentinel.ErrNotFound):
			// first registration
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read retailer profile")
		}

		role, err := s.roles.Role(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
		}
		if role == id.RoleUnassigned {
			if err := s.roles.SetRole(ctx, caller, id.RoleRetailer); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign retailer role")
			}
		}

		if err := s.retailers.Save(ctx, &profile); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save retailer profile")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:  eventlog.RetailerRegistered,
			Actor: caller,
			Brand: brandName,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "retailer registered", "account", caller, "brand", brandName)
	return &profile, nil
}

// RegisterLogisticsPersonnel records a courier under the caller's
// sponsorship. Only verified manufacturers and retailers may sponsor. A
// courier without a role receives LogisticsPersonnel; an existing role is
// left alone.
func (s *Service) RegisterLogisticsPersonnel(ctx context.Context, input PersonnelInput) (*LogisticsPersonnel, error) {
	caller := requestcontext.Caller(ctx)
	if input.Account.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "personnel account is required")
	}
	input.UID = strings.TrimSpace(input.UID)
	if input.UID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "personnel uid is required")
	}

	var record LogisticsPersonnel
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		ok, err := s.canSponsorPersonnel(ctx, caller)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotAuthorized
		}

		role, err := s.roles.Role(ctx, input.Account)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read personnel role")
		}
		if role == id.RoleUnassigned {
			if err := s.roles.SetRole(ctx, input.Account, id.RoleLogisticsPersonnel); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign logistics role")
			}
		}

		record = LogisticsPersonnel{
			Account:      input.Account,
			UID:          input.UID,
			Brand:        input.Brand,
			Active:       true,
			RegisteredBy: caller,
			RegisteredAt: requestcontext.Now(ctx),
		}
		if err := s.personnel.Save(ctx, &record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save logistics personnel")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:    eventlog.LogisticsPersonnelRegistered,
			Actor:   caller,
			Account: input.Account,
			UID:     input.UID,
			Brand:   input.Brand,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "logistics personnel registered", "account", input.Account, "by", caller)
	return &record, nil
}

// TransferToRetailer moves stock from the caller's on-hand balance to a
// retailer's holding. The handler account is recorded as custodian of the
// movement but never gates it.
func (s *Service) TransferToRetailer(ctx context.Context, code id.ProductCode, retailer id.Account, quantity int64, handler id.Account) (*Transfer, error) {
	caller := requestcontext.Caller(ctx)
	if retailer.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "retailer account is required")
	}

	var transfer Transfer
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		role, err := s.roles.Role(ctx, caller)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
		}
		if role != id.RoleManufacturer {
			return ErrNotAManufacturer
		}
		verified, err := s.directory.Verified(ctx, caller)
		if err != nil {
			return err
		}
		if !verified {
			return ErrNotAManufacturer
		}

		product, err := s.products.Find(ctx, code)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "product not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read product")
		}
		if product.Manufacturer != caller {
			return ErrNotAManufacturer
		}

		retailerRole, err := s.roles.Role(ctx, retailer)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read retailer role")
		}
		if retailerRole != id.RoleRetailer {
			return ErrNotARetailer
		}

		if quantity <= 0 {
			return ErrInvalidQuantity
		}
		if quantity > product.OnHand {
			return ErrInsufficientStock
		}

		now := requestcontext.Now(ctx)
		product.OnHand -= quantity
		product.UpdatedAt = now
		if err := s.products.Save(ctx, product); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save product")
		}

		holding, err := s.holdings.Find(ctx, code, retailer)
		switch {
		case err == nil:
		case errors.Is(err, sentinel.ErrNotFound):
			holding = &Holding{Code: code, Retailer: retailer}
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read retailer holding")
		}
		holding.Received += quantity
		holding.UpdatedAt = now
		if err := s.holdings.Save(ctx, holding); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save retailer holding")
		}

		transfer = Transfer{
			ID:       uuid.New(),
			Code:     code,
			From:     caller,
			Retailer: retailer,
			Quantity: quantity,
			Handler:  handler,
			At:       now,
		}
		if err := s.transfers.Append(ctx, &transfer); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append transfer")
		}

		return eventlog.Record(ctx, eventlog.Event{
			Name:        eventlog.TransferredToRetailer,
			Actor:       caller,
			Account:     retailer,
			ProductCode: code,
			Quantity:    quantity,
			Handler:     handler,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock transferred",
		"code", code, "from", caller, "retailer", retailer, "quantity", quantity, "handler", handler)
	return &transfer, nil
}

// Retailer returns the profile for an account.
func (s *Service) Retailer(ctx context.Context, account id.Account) (*RetailerProfile, error) {
	profile, err := s.retailers.Find(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "retailer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read retailer profile")
	}
	return profile, nil
}

// Personnel returns the courier record for an account.
func (s *Service) Personnel(ctx context.Context, account id.Account) (*LogisticsPersonnel, error) {
	record, err := s.personnel.Find(ctx, account)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "logistics personnel not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read logistics personnel")
	}
	return record, nil
}

// Holding returns a retailer's balance for a code.
func (s *Service) Holding(ctx context.Context, code id.ProductCode, retailer id.Account) (*Holding, error) {
	holding, err := s.holdings.Find(ctx, code, retailer)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "holding not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read retailer holding")
	}
	return holding, nil
}

// Transfers returns the transfer history for a code, oldest first.
func (s *Service) Transfers(ctx context.Context, code id.ProductCode) ([]Transfer, error) {
	transfers, err := s.transfers.ListByProduct(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfers")
	}
	return transfers, nil
}

func (s *Service) canSponsorPersonnel(ctx context.Context, caller id.Account) (bool, error) {
	role, err := s.roles.Role(ctx, caller)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read caller role")
	}
	switch role {
	case id.RoleRetailer:
		return true, nil
	case id.RoleManufacturer:
		verified, err := s.directory.Verified(ctx, caller)
		if err != nil {
			return false, err
		}
		return verified, nil
	default:
		return false, nil
	}
}
