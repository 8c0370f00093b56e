package auth

import (
	"context"
	"testing"
	"time"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/store/memstore"
	"github.com/ougirez/bloodbank/internal/pkg/tokens"
	"github.com/ougirez/bloodbank/internal/pkg/utils"
	"github.com/ougirez/bloodbank/internal/service/user"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
)

type AuthSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	svc   *Service
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupSuite() {
	viper.Set(constants.ViperSecretKey, "test-secret")
}

func (s *AuthSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.svc = NewService(s.store, tokens.NewMemory(), time.Minute, time.Hour)

	users := user.NewUserService(s.store)
	_, err := users.RegisterDonor(s.ctx, &domain.SignupDonorRequest{
		SignupUserRequest: domain.SignupUserRequest{Username: "dan", Password: "password"},
		BloodGroup:        domain.BloodGroupOPos,
	})
	s.Require().NoError(err)
	s.Require().NoError(users.EnsureAdmin(s.ctx, "admin", "secret", ""))
}

func (s *AuthSuite) login(username, password string) *domain.LoginUserResponse {
	resp, err := s.svc.LoginUser(s.ctx, &domain.LoginUserRequest{Username: username, Password: password})
	s.Require().NoError(err)
	return resp
}

func (s *AuthSuite) TestLogin() {
	resp := s.login("dan", "password")
	s.Equal(domain.RoleDonor, resp.Role)
	s.NotEmpty(resp.Access)
	s.NotEmpty(resp.Refresh)
	s.True(resp.ExpiresAt.After(time.Now()))

	token, err := s.svc.Authenticate(s.ctx, resp.Access)
	s.Require().NoError(err)
	s.Equal(domain.RoleDonor, token.Actor().Role)

	admin := s.login("admin", "secret")
	s.Equal(domain.RoleAdmin, admin.Role)

	_, err = s.svc.LoginUser(s.ctx, &domain.LoginUserRequest{Username: "dan", Password: "nope"})
	s.ErrorIs(err, constants.ErrInvalidCredentials)

	_, err = s.svc.LoginUser(s.ctx, &domain.LoginUserRequest{Username: "ghost", Password: "nope"})
	s.ErrorIs(err, constants.ErrInvalidCredentials)
}

func (s *AuthSuite) TestTokenKinds() {
	resp := s.login("dan", "password")

	_, err := s.svc.Authenticate(s.ctx, resp.Refresh)
	s.ErrorIs(err, constants.ErrInvalidToken)

	_, err = s.svc.Refresh(s.ctx, &domain.RefreshTokenRequest{Refresh: resp.Access})
	s.ErrorIs(err, constants.ErrInvalidToken)

	_, err = s.svc.Authenticate(s.ctx, "garbage")
	s.ErrorIs(err, constants.ErrInvalidToken)
}

func (s *AuthSuite) TestRefresh() {
	resp := s.login("dan", "password")

	refreshed, err := s.svc.Refresh(s.ctx, &domain.RefreshTokenRequest{Refresh: resp.Refresh})
	s.Require().NoError(err)
	s.NotEqual(resp.Access, refreshed.Access)
	s.Equal(domain.RoleDonor, refreshed.Role)

	_, err = s.svc.Authenticate(s.ctx, refreshed.Access)
	s.NoError(err)
}

func (s *AuthSuite) TestLogout() {
	resp := s.login("dan", "password")

	access, err := s.svc.Authenticate(s.ctx, resp.Access)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Logout(s.ctx, access, resp.Refresh))

	_, err = s.svc.Authenticate(s.ctx, resp.Access)
	s.ErrorIs(err, constants.ErrRevokedToken)

	_, err = s.svc.Refresh(s.ctx, &domain.RefreshTokenRequest{Refresh: resp.Refresh})
	s.ErrorIs(err, constants.ErrRevokedToken)
}

func (s *AuthSuite) TestLogoutForeignRefresh() {
	dan := s.login("dan", "password")
	admin := s.login("admin", "secret")

	access, err := s.svc.Authenticate(s.ctx, dan.Access)
	s.Require().NoError(err)
	s.ErrorIs(s.svc.Logout(s.ctx, access, admin.Refresh), constants.ErrForbidden)

	_, err = s.svc.Authenticate(s.ctx, dan.Access)
	s.NoError(err)

	other, err := utils.ParseAuthToken(admin.Refresh)
	s.Require().NoError(err)
	s.Equal(utils.TokenKindRefresh, other.Kind)
}
