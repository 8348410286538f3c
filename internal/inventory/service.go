package inventory

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

// Directory is the read surface this module needs from the manufacturer
// directory.
type Directory interface {
	Verified(ctx context.Context, account id.Account) (bool, error)
}

// Service is the manufacturer-side stock ledger. Only verified manufacturers
// add stock, and every code belongs to the manufacturer that first used it.
type Service struct {
	ledger    *ledger.Ledger
	products  ProductStore
	roles     Roles
	directory Directory
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(l *ledger.Ledger, products ProductStore, roles Roles, directory Directory, opts ...Option) *Service {
	s := &Service{
		ledger:    l,
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

// Add records new stock under the caller's account. A new code creates the
// product; a repeat of the caller's own code restocks it, overwriting the
// descriptive fields and accumulating the balances. A code originated by
// another manufacturer is rejected outright.
func (s *Service) Add(ctx context.Context, input AddInput) (*Product, error) {
	caller := requestcontext.Caller(ctx)
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "product name is required")
	}

	var product *Product
	err := s.ledger.Execute(ctx, func(ctx context.Context) error {
		if err := s.requireVerifiedManufacturer(ctx, caller); err != nil {
			return err
		}
		if input.Quantity <= 0 {
			return ErrInvalidQuantity
		}

		now := requestcontext.Now(ctx)
		existing, err := s.products.Find(ctx, input.Code)
		switch {
		case err == nil:
			if existing.Manufacturer != caller {
				return ErrCodeOwnedByOther
			}
			product = existing
		case errors.Is(err, sentinel.ErrNotFound):
			product = &Product{
				Code:         input.Code,
				Manufacturer: caller,
				CreatedAt:    now,
			}
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read product")
		}

		product.Name = input.Name
		product.Description = input.Description
		product.Price = input.Price
		product.ExpiryDate = input.ExpiryDate
		product.BatchID = input.BatchID
		product.ProductionDate = input.ProductionDate
		product.BatchLabel = input.BatchLabel
		product.ImageRef = input.ImageRef
		product.OnHand += input.Quantity
		product.TotalAdded += input.Quantity
		product.UpdatedAt = now

		if err := s.products.Save(ctx, product); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save product")
		}
		return eventlog.Record(ctx, eventlog.Event{
			Name:        eventlog.ProductAdded,
			Actor:       caller,
			ProductCode: input.Code,
			ProductName: product.Name,
			Quantity:    input.Quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock added",
		"manufacturer", caller, "code", input.Code, "quantity", input.Quantity, "on_hand", product.OnHand)
	return product, nil
}

// Get returns the stock record for a code.
func (s *Service) Get(ctx context.Context, code id.ProductCode) (*Product, error) {
	product, err := s.products.Find(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "product not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read product")
	}
	return product, nil
}

func (s *Service) requireVerifiedManufacturer(ctx context.Context, caller id.Account) error {
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
	return nil
}
