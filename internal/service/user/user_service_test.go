package user

import (
	"context"
	"testing"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/store/memstore"
	"github.com/stretchr/testify/suite"
)

type UserSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	svc   *Service
}

func TestUserSuite(t *testing.T) {
	suite.Run(t, new(UserSuite))
}

func (s *UserSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.svc = NewUserService(s.store)
}

func (s *UserSuite) registerDonor(username string, group domain.BloodGroup) domain.Actor {
	resp, err := s.svc.RegisterDonor(s.ctx, &domain.SignupDonorRequest{
		SignupUserRequest: domain.SignupUserRequest{Username: username, Password: "password"},
		BloodGroup:        group,
	})
	s.Require().NoError(err)
	return resp.User.Actor(resp.Profile)
}

func (s *UserSuite) TestRegister() {
	donor := s.registerDonor("dan", domain.BloodGroupAPos)
	s.Equal(domain.RoleDonor, donor.Role)

	resp, err := s.svc.RegisterCivilian(s.ctx, &domain.SignupUserRequest{Username: "carol", Password: "password"})
	s.Require().NoError(err)
	s.Equal(domain.RoleCivilian, resp.Profile.Role)
	s.NotEqual("password", resp.User.Hash)

	s.Run("username taken", func() {
		_, err := s.svc.RegisterCivilian(s.ctx, &domain.SignupUserRequest{Username: "dan", Password: "password"})
		s.ErrorIs(err, constants.ErrUsernameTaken)
	})

	s.Run("donor needs a valid group", func() {
		_, err := s.svc.RegisterDonor(s.ctx, &domain.SignupDonorRequest{
			SignupUserRequest: domain.SignupUserRequest{Username: "x", Password: "password"},
			BloodGroup:        "K",
		})
		s.ErrorIs(err, constants.ErrInvalidGroup)

		_, err = s.store.GetUserByUsername(s.ctx, "x")
		s.ErrorIs(err, constants.ErrDBNotFound)
	})
}

func (s *UserSuite) TestEnsureAdmin() {
	s.Require().NoError(s.svc.EnsureAdmin(s.ctx, "admin", "secret", "admin@example.com"))
	s.Require().NoError(s.svc.EnsureAdmin(s.ctx, "admin", "other", ""))

	admin, err := s.store.GetUserByUsername(s.ctx, "admin")
	s.Require().NoError(err)
	s.True(admin.IsAdmin)
	s.NoError(admin.Validate("secret"))

	me, err := s.svc.Me(s.ctx, admin.Actor(nil))
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, me.Role)
	s.Equal("admin", me.Username)

	s.NoError(s.svc.EnsureAdmin(s.ctx, "", "", ""))
}

func (s *UserSuite) TestMeAndUpdate() {
	donor := s.registerDonor("dan", domain.BloodGroupAPos)

	me, err := s.svc.Me(s.ctx, donor)
	s.Require().NoError(err)
	s.Equal(domain.RoleDonor, me.Role)
	s.Equal(domain.BloodGroupAPos, me.BloodGroup)
	s.True(me.Availability)

	phone := "+123"
	available := false
	updated, err := s.svc.UpdateMe(s.ctx, donor, domain.ProfilePatch{Phone: &phone, Availability: &available})
	s.Require().NoError(err)
	s.Equal("+123", updated.Phone)
	s.False(updated.Availability)
	s.Equal(domain.BloodGroupAPos, updated.BloodGroup)

	bad := domain.BloodGroup("Q")
	_, err = s.svc.UpdateMe(s.ctx, donor, domain.ProfilePatch{BloodGroup: &bad})
	s.ErrorIs(err, constants.ErrInvalidGroup)

	_, err = s.svc.Me(s.ctx, domain.Actor{UserID: 999, Role: domain.RoleDonor})
	s.ErrorIs(err, constants.ErrNotFound)
}

func (s *UserSuite) TestListProfiles() {
	dan := s.registerDonor("dan", domain.BloodGroupAPos)
	s.registerDonor("dora", domain.BloodGroupONeg)
	_, err := s.svc.RegisterCivilian(s.ctx, &domain.SignupUserRequest{Username: "carol", Password: "password"})
	s.Require().NoError(err)
	admin := domain.Actor{UserID: 100, Role: domain.RoleAdmin}

	all, err := s.svc.ListProfiles(s.ctx, admin, "")
	s.Require().NoError(err)
	s.Len(all, 3)

	civilians, err := s.svc.ListProfiles(s.ctx, admin, domain.RoleCivilian)
	s.Require().NoError(err)
	s.Len(civilians, 1)

	own, err := s.svc.ListProfiles(s.ctx, dan, domain.RoleCivilian)
	s.Require().NoError(err)
	s.Require().Len(own, 1)
	s.Equal("dan", own[0].Username)
}

func (s *UserSuite) TestSearchDonors() {
	dan := s.registerDonor("dan", domain.BloodGroupAPos)
	s.registerDonor("dora", domain.BloodGroupAPos)
	s.registerDonor("dima", domain.BloodGroupONeg)
	_, err := s.svc.RegisterCivilian(s.ctx, &domain.SignupUserRequest{Username: "carol", Password: "password"})
	s.Require().NoError(err)

	available := false
	_, err = s.svc.UpdateMe(s.ctx, dan, domain.ProfilePatch{Availability: &available})
	s.Require().NoError(err)

	donors, err := s.svc.SearchDonors(s.ctx, "", "")
	s.Require().NoError(err)
	s.Len(donors, 3)

	byGroup, err := s.svc.SearchDonors(s.ctx, "a+", "")
	s.Require().NoError(err)
	s.Len(byGroup, 2)

	// "+" decoded from a query string as a space
	byGroup, err = s.svc.SearchDonors(s.ctx, "A ", "")
	s.Require().NoError(err)
	s.Len(byGroup, 2)

	both, err := s.svc.SearchDonors(s.ctx, "A+", "true")
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal("dora", both[0].Username)

	_, err = s.svc.SearchDonors(s.ctx, "", "maybe")
	s.ErrorIs(err, constants.ErrBadRequest)

	_, err = s.svc.SearchDonors(s.ctx, "Z", "")
	s.ErrorIs(err, constants.ErrInvalidGroup)
}
