package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"authchain/internal/eventlog"
	"authchain/internal/ledger"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/requestcontext"
)

const owner = id.Account("0xOWNER")

type RegistryServiceSuite struct {
	suite.Suite
	roles   *InMemoryRoleStore
	admins  *InMemoryAdminStore
	events  *eventlog.InMemoryStore
	service *Service
}

func TestRegistryServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceSuite))
}

func (s *RegistryServiceSuite) SetupTest() {
	s.roles = NewInMemoryRoleStore()
	s.admins = NewInMemoryAdminStore()
	s.events = eventlog.NewInMemoryStore()
	l := ledger.New(eventlog.NewPublisher(s.events))
	s.service = New(l, s.roles, s.admins, owner)
}

func (s *RegistryServiceSuite) asCaller(account id.Account) context.Context {
	return requestcontext.WithCaller(context.Background(), account)
}

func (s *RegistryServiceSuite) TestRegisterAdmin() {
	s.Run("owner can register the first admin", func() {
		record, err := s.service.RegisterAdmin(s.asCaller(owner), "0xADMIN")
		s.Require().NoError(err)
		s.Equal(id.Account("0xADMIN"), record.Account)
		s.Equal(owner, record.GrantedBy)

		role, err := s.roles.Role(context.Background(), "0xADMIN")
		s.Require().NoError(err)
		s.Equal(id.RoleAdmin, role)
	})

	s.Run("existing admin can register another admin", func() {
		_, err := s.service.RegisterAdmin(s.asCaller(owner), "0xADMIN")
		s.Require().NoError(err)

		_, err = s.service.RegisterAdmin(s.asCaller("0xADMIN"), "0xSECOND")
		s.Require().NoError(err)

		role, err := s.roles.Role(context.Background(), "0xSECOND")
		s.Require().NoError(err)
		s.Equal(id.RoleAdmin, role)
	})

	s.Run("stranger is rejected with no state change", func() {
		before, err := s.admins.Count(context.Background())
		s.Require().NoError(err)

		_, err = s.service.RegisterAdmin(s.asCaller("0xSTRANGER"), "0xTARGET")
		s.Require().ErrorIs(err, ErrNotOwnerOrAdmin)

		after, err := s.admins.Count(context.Background())
		s.Require().NoError(err)
		s.Equal(before, after)

		events, err := s.events.List(context.Background(), 0)
		s.Require().NoError(err)
		for _, ev := range events {
			s.NotEqual(id.Account("0xTARGET"), ev.Account)
		}
	})

	s.Run("emits AdminRegistered", func() {
		_, err := s.service.RegisterAdmin(s.asCaller(owner), "0xADMIN")
		s.Require().NoError(err)

		events, err := s.events.List(context.Background(), 0)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(eventlog.AdminRegistered, last.Name)
		s.Equal(id.Account("0xADMIN"), last.Account)
		s.Equal(owner, last.Actor)
	})
}

func (s *RegistryServiceSuite) TestAssignRole() {
	s.Run("admin overwrites role unconditionally", func() {
		_, err := s.service.RegisterAdmin(s.asCaller(owner), "0xADMIN")
		s.Require().NoError(err)

		// No retailer profile exists for the target; the registry does not care.
		err = s.service.AssignRole(s.asCaller("0xADMIN"), "0xTARGET", id.RoleRetailer)
		s.Require().NoError(err)

		role, err := s.service.Role(context.Background(), "0xTARGET")
		s.Require().NoError(err)
		s.Equal(id.RoleRetailer, role)
	})

	s.Run("reassigning the same role is a no-op with the same observable role", func() {
		_, err := s.service.RegisterAdmin(s.asCaller(owner), "0xADMIN")
		s.Require().NoError(err)

		for range 2 {
			err = s.service.AssignRole(s.asCaller("0xADMIN"), "0xTARGET", id.RoleManufacturer)
			s.Require().NoError(err)
		}
		role, err := s.service.Role(context.Background(), "0xTARGET")
		s.Require().NoError(err)
		s.Equal(id.RoleManufacturer, role)
	})

	s.Run("non-admin is rejected", func() {
		err := s.service.AssignRole(s.asCaller("0xSTRANGER"), "0xUNTOUCHED", id.RoleRetailer)
		s.Require().ErrorIs(err, ErrNotAnAdmin)

		role, err := s.service.Role(context.Background(), "0xUNTOUCHED")
		s.Require().NoError(err)
		s.Equal(id.RoleUnassigned, role)
	})

	s.Run("owner without admin role cannot assign roles", func() {
		// registerAdmin accepts the owner; assignUserRoles does not.
		err := s.service.AssignRole(s.asCaller(owner), "0xTARGET", id.RoleRetailer)
		s.Require().ErrorIs(err, ErrNotAnAdmin)
	})

	s.Run("rejects invalid role values", func() {
		err := s.service.AssignRole(s.asCaller(owner), "0xTARGET", id.Role(42))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *RegistryServiceSuite) TestReads() {
	s.Run("unknown account holds unassigned role", func() {
		role, err := s.service.Role(context.Background(), "0xNOBODY")
		s.Require().NoError(err)
		s.Equal(id.RoleUnassigned, role)
	})

	s.Run("unknown admin returns not found", func() {
		_, err := s.service.Admin(context.Background(), "0xNOBODY")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
