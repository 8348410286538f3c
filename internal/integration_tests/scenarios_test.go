// Package integrationtests exercises the full service stack end to end over
// in-memory stores: registration, verification, stock, custody, and sale,
// with the event log observed after every step.
package integrationtests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"authchain/internal/custody"
	"authchain/internal/eventlog"
	"authchain/internal/inventory"
	"authchain/internal/ledger"
	"authchain/internal/manufacturer"
	"authchain/internal/registry"
	"authchain/internal/sale"
	id "authchain/pkg/domain"
	"authchain/pkg/requestcontext"
)

const owner = id.Account("0xOWNER")

type ChainSuite struct {
	suite.Suite
	events   *eventlog.InMemoryStore
	holdings *custody.InMemoryHoldingStore
	registry *registry.Service
	dir      *manufacturer.Service
	stock    *inventory.Service
	custody  *custody.Service
	sales    *sale.Service
}

func TestChainSuite(t *testing.T) {
	suite.Run(t, new(ChainSuite))
}

func (s *ChainSuite) SetupTest() {
	s.events = eventlog.NewInMemoryStore()
	s.holdings = custody.NewInMemoryHoldingStore()
	roles := registry.NewInMemoryRoleStore()
	products := inventory.NewInMemoryProductStore()
	l := ledger.New(eventlog.NewPublisher(s.events))

	s.registry = registry.New(l, roles, registry.NewInMemoryAdminStore(), owner)
	s.dir = manufacturer.New(l, manufacturer.NewInMemoryProfileStore(), roles)
	s.stock = inventory.New(l, products, roles, s.dir)
	s.custody = custody.New(l,
		custody.NewInMemoryRetailerStore(),
		custody.NewInMemoryPersonnelStore(),
		s.holdings,
		custody.NewInMemoryTransferStore(),
		products,
		roles,
		s.dir,
	)
	s.sales = sale.New(l, sale.NewInMemoryConsumerStore(), sale.NewInMemorySaleStore(), s.holdings, roles)
}

func (s *ChainSuite) as(account id.Account) context.Context {
	return requestcontext.WithCaller(context.Background(), account)
}

// bootstrap registers an admin under the owner identity.
func (s *ChainSuite) bootstrap() {
	_, err := s.registry.RegisterAdmin(s.as(owner), "0xADMIN")
	s.Require().NoError(err)
}

func (s *ChainSuite) eventNames() []string {
	events, err := s.events.List(context.Background(), 0)
	s.Require().NoError(err)
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}

// conservation checks onHand + Σ held + Σ purchased == totalAdded for a code.
func (s *ChainSuite) conservation(code id.ProductCode) {
	ctx := context.Background()
	product, err := s.stock.Get(ctx, code)
	s.Require().NoError(err)

	holdings, err := s.holdings.ListByProduct(ctx, code)
	s.Require().NoError(err)
	var held int64
	for _, h := range holdings {
		held += h.Held()
	}

	purchases, err := s.sales.Purchases(ctx, code)
	s.Require().NoError(err)
	var purchased int64
	for _, p := range purchases {
		purchased += p.Purchased
	}

	s.Equal(product.TotalAdded, product.OnHand+held+purchased,
		"conservation violated for %s", code)
}

func (s *ChainSuite) TestUnverifiedManufacturerCannotStock() {
	s.bootstrap()

	_, err := s.dir.Register(s.as("0xM"), manufacturer.RegisterInput{BrandName: "Acme"})
	s.Require().NoError(err)

	_, err = s.stock.Add(s.as("0xM"), inventory.AddInput{Code: "12345", Name: "Widget", Quantity: 100})
	s.Require().ErrorIs(err, inventory.ErrNotAManufacturer)

	_, err = s.dir.Verify(s.as("0xADMIN"), "0xM")
	s.Require().NoError(err)
	s.Require().NoError(s.registry.AssignRole(s.as("0xADMIN"), "0xM", id.RoleManufacturer))

	_, err = s.stock.Add(s.as("0xM"), inventory.AddInput{Code: "12345", Name: "Widget", Quantity: 100})
	s.Require().NoError(err)
	s.Contains(s.eventNames(), eventlog.ProductAdded)
}

func (s *ChainSuite) TestFullChainBalances() {
	s.bootstrap()
	s.seedVerifiedManufacturer("0xM")
	s.Require().NoError(s.addStock("0xM", "12345", 100))

	_, err := s.custody.RegisterRetailer(s.as("0xR"), "Corner Shop")
	s.Require().NoError(err)

	// Manufacturer hands 10 units to R via a courier.
	_, err = s.custody.TransferToRetailer(s.as("0xM"), "12345", "0xR", 10, "0xCOURIER")
	s.Require().NoError(err)

	product, err := s.stock.Get(context.Background(), "12345")
	s.Require().NoError(err)
	s.Equal(int64(90), product.OnHand)

	holding, err := s.custody.Holding(context.Background(), "12345", "0xR")
	s.Require().NoError(err)
	s.Equal(int64(10), holding.Held())
	s.conservation("12345")

	// R sells 2 to consumer K.
	_, err = s.sales.RegisterConsumer(s.as("0xK"))
	s.Require().NoError(err)
	_, err = s.sales.SellToConsumer(s.as("0xR"), "12345", "0xK", 2)
	s.Require().NoError(err)

	holding, err = s.custody.Holding(context.Background(), "12345", "0xR")
	s.Require().NoError(err)
	s.Equal(int64(8), holding.Held())

	purchases, err := s.sales.Purchases(context.Background(), "12345")
	s.Require().NoError(err)
	s.Require().Len(purchases, 1)
	s.Equal(int64(2), purchases[0].Purchased)
	s.conservation("12345")

	// Overselling is rejected with zero state change.
	before := s.eventNames()
	_, err = s.sales.SellToConsumer(s.as("0xR"), "12345", "0xK", 9)
	s.Require().ErrorIs(err, sale.ErrInsufficientRetailerStock)
	s.Equal(before, s.eventNames())
	s.conservation("12345")

	holding, err = s.custody.Holding(context.Background(), "12345", "0xR")
	s.Require().NoError(err)
	s.Equal(int64(8), holding.Held())
}

func (s *ChainSuite) TestStrangerCannotMintAdmins() {
	s.bootstrap()

	_, err := s.registry.RegisterAdmin(s.as("0xSTRANGER"), "0xTARGET")
	s.Require().ErrorIs(err, registry.ErrNotOwnerOrAdmin)

	role, err := s.registry.Role(context.Background(), "0xTARGET")
	s.Require().NoError(err)
	s.Equal(id.RoleUnassigned, role)
}

func (s *ChainSuite) TestRoleAssignmentIsIdempotent() {
	s.bootstrap()

	s.Require().NoError(s.registry.AssignRole(s.as("0xADMIN"), "0xX", id.RoleRetailer))
	s.Require().NoError(s.registry.AssignRole(s.as("0xADMIN"), "0xX", id.RoleRetailer))

	role, err := s.registry.Role(context.Background(), "0xX")
	s.Require().NoError(err)
	s.Equal(id.RoleRetailer, role)
}

func (s *ChainSuite) TestVerificationIsMonotonic() {
	s.bootstrap()
	s.seedVerifiedManufacturer("0xM")

	// Re-registration, repeat verification, and profile updates never clear
	// the flag.
	_, err := s.dir.Register(s.as("0xM"), manufacturer.RegisterInput{BrandName: "Acme Renamed"})
	s.Require().NoError(err)
	_, err = s.dir.Verify(s.as("0xADMIN"), "0xM")
	s.Require().NoError(err)

	verified, err := s.dir.Verified(context.Background(), "0xM")
	s.Require().NoError(err)
	s.True(verified)
}

func (s *ChainSuite) TestConservationUnderInterleavedFlows() {
	s.bootstrap()
	s.seedVerifiedManufacturer("0xM")
	s.Require().NoError(s.addStock("0xM", "PC-A", 50))
	s.Require().NoError(s.addStock("0xM", "PC-B", 30))

	_, err := s.custody.RegisterRetailer(s.as("0xR1"), "Shop One")
	s.Require().NoError(err)
	_, err = s.custody.RegisterRetailer(s.as("0xR2"), "Shop Two")
	s.Require().NoError(err)
	_, err = s.sales.RegisterConsumer(s.as("0xK"))
	s.Require().NoError(err)

	steps := []func() error{
		func() error { _, err := s.custody.TransferToRetailer(s.as("0xM"), "PC-A", "0xR1", 20, "0xH"); return err },
		func() error { _, err := s.custody.TransferToRetailer(s.as("0xM"), "PC-B", "0xR2", 15, "0xH"); return err },
		func() error { _, err := s.sales.SellToConsumer(s.as("0xR1"), "PC-A", "0xK", 5); return err },
		func() error { return s.addStock("0xM", "PC-A", 25) },
		func() error { _, err := s.custody.TransferToRetailer(s.as("0xM"), "PC-A", "0xR2", 10, "0xH"); return err },
		func() error { _, err := s.sales.SellToConsumer(s.as("0xR2"), "PC-A", "0xK", 10); return err },
		func() error { _, err := s.sales.SellToConsumer(s.as("0xR2"), "PC-B", "0xK", 15); return err },
	}
	for i, step := range steps {
		s.Require().NoError(step(), "step %d", i)
		s.conservation("PC-A")
		s.conservation("PC-B")
	}
}

func (s *ChainSuite) seedVerifiedManufacturer(account id.Account) {
	_, err := s.dir.Register(s.as(account), manufacturer.RegisterInput{BrandName: "Acme"})
	s.Require().NoError(err)
	_, err = s.dir.Verify(s.as("0xADMIN"), account)
	s.Require().NoError(err)
	s.Require().NoError(s.registry.AssignRole(s.as("0xADMIN"), account, id.RoleManufacturer))
}

func (s *ChainSuite) addStock(account id.Account, code id.ProductCode, quantity int64) error {
	_, err := s.stock.Add(s.as(account), inventory.AddInput{Code: code, Name: "Widget", Quantity: quantity})
	return err
}
