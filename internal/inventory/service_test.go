package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"authchain/internal/eventlog"
	"authchain/internal/ledger"
	"authchain/internal/manufacturer"
	"authchain/internal/registry"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/requestcontext"
)

type InventoryServiceSuite struct {
	suite.Suite
	roles     *registry.InMemoryRoleStore
	profiles  *manufacturer.InMemoryProfileStore
	products  *InMemoryProductStore
	events    *eventlog.InMemoryStore
	directory *manufacturer.Service
	service   *Service
}

func TestInventoryServiceSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceSuite))
}

func (s *InventoryServiceSuite) SetupTest() {
	s.roles = registry.NewInMemoryRoleStore()
	s.profiles = manufacturer.NewInMemoryProfileStore()
	s.products = NewInMemoryProductStore()
	s.events = eventlog.NewInMemoryStore()
	l := ledger.New(eventlog.NewPublisher(s.events))
	s.directory = manufacturer.New(l, s.profiles, s.roles)
	s.service = New(l, s.products, s.roles, s.directory)

	ctx := context.Background()
	s.Require().NoError(s.roles.SetRole(ctx, "0xADMIN", id.RoleAdmin))
}

func (s *InventoryServiceSuite) asCaller(account id.Account) context.Context {
	return requestcontext.WithCaller(context.Background(), account)
}

// verifiedManufacturer registers the account in the directory, verifies it,
// and grants the Manufacturer role.
func (s *InventoryServiceSuite) verifiedManufacturer(account id.Account) {
	_, err := s.directory.Register(s.asCaller(account), manufacturer.RegisterInput{BrandName: "Brand " + account.String()})
	s.Require().NoError(err)
	_, err = s.directory.Verify(s.asCaller("0xADMIN"), account)
	s.Require().NoError(err)
	s.Require().NoError(s.roles.SetRole(context.Background(), account, id.RoleManufacturer))
}

func (s *InventoryServiceSuite) addInput(code id.ProductCode, quantity int64) AddInput {
	return AddInput{
		Code:           code,
		Name:           "Paracetamol 500mg",
		Description:    "Blister pack of 20",
		Price:          1200,
		ExpiryDate:     "2027-01-31",
		BatchID:        "BATCH-7",
		Quantity:       quantity,
		ProductionDate: "2026-01-15",
		BatchLabel:     "P500-A",
		ImageRef:       "ipfs://p500",
	}
}

func (s *InventoryServiceSuite) TestAdd() {
	s.Run("verified manufacturer creates a product", func() {
		s.verifiedManufacturer("0xM")

		product, err := s.service.Add(s.asCaller("0xM"), s.addInput("PC-1", 100))
		s.Require().NoError(err)
		s.Equal(int64(100), product.OnHand)
		s.Equal(int64(100), product.TotalAdded)
		s.Equal(id.Account("0xM"), product.Manufacturer)

		events, err := s.events.List(context.Background(), 0)
		s.Require().NoError(err)
		last := events[len(events)-1]
		s.Equal(eventlog.ProductAdded, last.Name)
		s.Equal(int64(100), last.Quantity)
	})

	s.Run("restock accumulates balances and overwrites fields", func() {
		s.verifiedManufacturer("0xM")
		_, err := s.service.Add(s.asCaller("0xM"), s.addInput("PC-2", 100))
		s.Require().NoError(err)

		input := s.addInput("PC-2", 50)
		input.Name = "Paracetamol 500mg (new packaging)"
		product, err := s.service.Add(s.asCaller("0xM"), input)
		s.Require().NoError(err)
		s.Equal(int64(150), product.OnHand)
		s.Equal(int64(150), product.TotalAdded)
		s.Equal("Paracetamol 500mg (new packaging)", product.Name)
	})

	s.Run("code owned by another manufacturer is rejected", func() {
		s.verifiedManufacturer("0xM")
		s.verifiedManufacturer("0xOTHER")
		_, err := s.service.Add(s.asCaller("0xM"), s.addInput("PC-3", 10))
		s.Require().NoError(err)

		_, err = s.service.Add(s.asCaller("0xOTHER"), s.addInput("PC-3", 10))
		s.Require().ErrorIs(err, ErrCodeOwnedByOther)

		product, err := s.service.Get(context.Background(), "PC-3")
		s.Require().NoError(err)
		s.Equal(id.Account("0xM"), product.Manufacturer)
		s.Equal(int64(10), product.OnHand)
	})

	s.Run("unverified manufacturer is rejected", func() {
		_, err := s.directory.Register(s.asCaller("0xPENDING"), manufacturer.RegisterInput{BrandName: "Pending"})
		s.Require().NoError(err)
		s.Require().NoError(s.roles.SetRole(context.Background(), "0xPENDING", id.RoleManufacturer))

		_, err = s.service.Add(s.asCaller("0xPENDING"), s.addInput("PC-4", 10))
		s.Require().ErrorIs(err, ErrNotAManufacturer)
	})

	s.Run("verified profile without the role is rejected", func() {
		_, err := s.directory.Register(s.asCaller("0xNOROLE"), manufacturer.RegisterInput{BrandName: "NoRole"})
		s.Require().NoError(err)
		_, err = s.directory.Verify(s.asCaller("0xADMIN"), "0xNOROLE")
		s.Require().NoError(err)

		_, err = s.service.Add(s.asCaller("0xNOROLE"), s.addInput("PC-5", 10))
		s.Require().ErrorIs(err, ErrNotAManufacturer)
	})

	s.Run("non-positive quantity is rejected", func() {
		s.verifiedManufacturer("0xM")
		_, err := s.service.Add(s.asCaller("0xM"), s.addInput("PC-6", 0))
		s.Require().ErrorIs(err, ErrInvalidQuantity)

		_, err = s.service.Add(s.asCaller("0xM"), s.addInput("PC-6", -5))
		s.Require().ErrorIs(err, ErrInvalidQuantity)

		_, err = s.service.Get(context.Background(), "PC-6")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("failed add leaves no event behind", func() {
		before, err := s.events.List(context.Background(), 0)
		s.Require().NoError(err)

		_, err = s.service.Add(s.asCaller("0xSTRANGER"), s.addInput("PC-7", 10))
		s.Require().ErrorIs(err, ErrNotAManufacturer)

		after, err := s.events.List(context.Background(), 0)
		s.Require().NoError(err)
		s.Len(after, len(before))
	})
}

func (s *InventoryServiceSuite) TestGet() {
	s.Run("unknown code is not found", func() {
		_, err := s.service.Get(context.Background(), "PC-GHOST")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
