package stats

import (
	"context"
	"fmt"
	"testing"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/store/memstore"
	"github.com/stretchr/testify/suite"
)

type StatsSuite struct {
	suite.Suite
	ctx   context.Context
	store *memstore.Store
	svc   *Service
	admin domain.Actor
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsSuite))
}

func (s *StatsSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.svc = NewStatsService(s.store)
	s.admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
}

func (s *StatsSuite) addProfiles(role domain.Role, n int) []int64 {
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		user := &domain.User{Username: fmt.Sprintf("%s-%d", role, i)}
		s.Require().NoError(s.store.CreateUser(s.ctx, user))
		s.Require().NoError(s.store.CreateProfile(s.ctx, &domain.Profile{UserID: user.ID, Role: role}))
		ids = append(ids, user.ID)
	}
	return ids
}

func (s *StatsSuite) TestEmptyStore() {
	stats, err := s.svc.Stats(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Zero(stats.DonorCount)
	s.Zero(stats.CivilianCount)
	s.Zero(stats.RequestCount)
	s.NotNil(stats.StockByGroup)
	s.Empty(stats.StockByGroup)
}

func (s *StatsSuite) TestAggregates() {
	s.addProfiles(domain.RoleDonor, 2)
	civilians := s.addProfiles(domain.RoleCivilian, 3)

	for _, stock := range []domain.Stock{
		{domain.BloodGroupAPos: 5},
		{domain.BloodGroupAPos: 3, domain.BloodGroupONeg: 2},
	} {
		s.Require().NoError(s.store.CreateBloodBank(s.ctx, &domain.BloodBank{Name: "bank", Location: "x", Stock: stock}))
	}
	s.Require().NoError(s.store.CreateRequest(s.ctx, &domain.DonationRequest{
		CivilianID: civilians[0],
		BloodGroup: domain.BloodGroupAPos,
		Quantity:   1,
		Address:    "x",
		Status:     domain.RequestStatusPending,
	}))

	stats, err := s.svc.Stats(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Equal(2, stats.DonorCount)
	s.Equal(3, stats.CivilianCount)
	s.Equal(1, stats.RequestCount)
	s.Equal(domain.Stock{domain.BloodGroupAPos: 8, domain.BloodGroupONeg: 2}, stats.StockByGroup)
}

func (s *StatsSuite) TestAdminOnly() {
	for _, role := range []domain.Role{domain.RoleDonor, domain.RoleCivilian} {
		_, err := s.svc.Stats(s.ctx, domain.Actor{UserID: 2, Role: role})
		s.ErrorIs(err, constants.ErrForbidden)
	}
}
