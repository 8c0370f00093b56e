package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/store"
	"github.com/stretchr/testify/suite"
)

type MemstoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func TestMemstoreSuite(t *testing.T) {
	suite.Run(t, new(MemstoreSuite))
}

func (s *MemstoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
}

func (s *MemstoreSuite) createBank(stock domain.Stock) *domain.BloodBank {
	bank := &domain.BloodBank{Name: "Central", Location: "Main st", Stock: stock}
	s.Require().NoError(s.store.CreateBloodBank(s.ctx, bank))
	return bank
}

func (s *MemstoreSuite) TestUsernameIsUnique() {
	s.Require().NoError(s.store.CreateUser(s.ctx, &domain.User{Username: "alice"}))

	err := s.store.CreateUser(s.ctx, &domain.User{Username: "alice"})
	s.ErrorIs(err, constants.ErrDBConflict)
}

func (s *MemstoreSuite) TestReturnedBankIsACopy() {
	bank := s.createBank(domain.Stock{domain.BloodGroupAPos: 5})
	bank.Stock[domain.BloodGroupAPos] = 100

	got, err := s.store.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(5, got.Stock.Get(domain.BloodGroupAPos))

	got.Stock[domain.BloodGroupAPos] = 50
	again, err := s.store.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(5, again.Stock.Get(domain.BloodGroupAPos))
}

func (s *MemstoreSuite) TestUpdateBloodBankStock() {
	bank := s.createBank(domain.Stock{domain.BloodGroupOPos: 10})

	s.Run("writes the returned map", func() {
		updated, err := s.store.UpdateBloodBankStock(s.ctx, bank.ID, func(b *domain.BloodBank) (domain.Stock, error) {
			return b.Stock.Allocate(domain.BloodGroupOPos, 4)
		})
		s.Require().NoError(err)
		s.Equal(6, updated.Stock.Get(domain.BloodGroupOPos))
	})

	s.Run("failure writes nothing", func() {
		_, err := s.store.UpdateBloodBankStock(s.ctx, bank.ID, func(b *domain.BloodBank) (domain.Stock, error) {
			b.Stock[domain.BloodGroupOPos] = 0
			return nil, constants.ErrInsufficientStock
		})
		s.ErrorIs(err, constants.ErrInsufficientStock)

		got, err := s.store.GetBloodBank(s.ctx, bank.ID)
		s.Require().NoError(err)
		s.Equal(6, got.Stock.Get(domain.BloodGroupOPos))
	})

	s.Run("unknown bank", func() {
		_, err := s.store.UpdateBloodBankStock(s.ctx, 999, func(b *domain.BloodBank) (domain.Stock, error) {
			return b.Stock, nil
		})
		s.ErrorIs(err, constants.ErrDBNotFound)
	})
}

func (s *MemstoreSuite) TestInTxRollsBack() {
	bank := s.createBank(domain.Stock{domain.BloodGroupBNeg: 3})
	civilian := &domain.User{Username: "carol"}
	s.Require().NoError(s.store.CreateUser(s.ctx, civilian))

	boom := errors.New("boom")
	err := s.store.InTx(s.ctx, func(tx store.Store) error {
		_, err := tx.UpdateBloodBankStock(s.ctx, bank.ID, func(b *domain.BloodBank) (domain.Stock, error) {
			return b.Stock.Allocate(domain.BloodGroupBNeg, 3)
		})
		s.Require().NoError(err)

		s.Require().NoError(tx.CreateRequest(s.ctx, &domain.DonationRequest{
			CivilianID: civilian.ID,
			BloodGroup: domain.BloodGroupBNeg,
			Quantity:   3,
			Address:    "x",
			Status:     domain.RequestStatusPending,
		}))
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(3, got.Stock.Get(domain.BloodGroupBNeg))

	count, err := s.store.CountRequests(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *MemstoreSuite) TestInTxCommits() {
	s.Require().NoError(s.store.InTx(s.ctx, func(tx store.Store) error {
		return tx.CreateUser(s.ctx, &domain.User{Username: "dave"})
	}))

	_, err := s.store.GetUserByUsername(s.ctx, "dave")
	s.NoError(err)
}

func (s *MemstoreSuite) TestListProfilesFilters() {
	for i, p := range []domain.Profile{
		{Role: domain.RoleDonor, BloodGroup: domain.BloodGroupAPos, Availability: true},
		{Role: domain.RoleDonor, BloodGroup: domain.BloodGroupAPos, Availability: false},
		{Role: domain.RoleDonor, BloodGroup: domain.BloodGroupONeg, Availability: true},
		{Role: domain.RoleCivilian},
	} {
		u := &domain.User{Username: string(rune('a' + i))}
		s.Require().NoError(s.store.CreateUser(s.ctx, u))
		p.UserID = u.ID
		s.Require().NoError(s.store.CreateProfile(s.ctx, &p))
	}

	donor := domain.RoleDonor
	group := domain.BloodGroupAPos
	available := true

	all, err := s.store.ListProfiles(s.ctx, store.ListProfilesOpts{Role: &donor})
	s.Require().NoError(err)
	s.Len(all, 3)

	both, err := s.store.ListProfiles(s.ctx, store.ListProfilesOpts{Role: &donor, BloodGroup: &group, Available: &available})
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal("a", both[0].Username)

	count, err := s.store.CountProfiles(s.ctx, domain.RoleCivilian)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *MemstoreSuite) TestOffers() {
	_, err := s.store.GetOffer(s.ctx, 1)
	s.ErrorIs(err, constants.ErrDBNotFound)

	err = s.store.CreateOffer(s.ctx, &domain.DonationOffer{DonorID: 1, RequestID: 42})
	s.ErrorIs(err, constants.ErrDBNotFound)

	s.ErrorIs(s.store.DeleteOffer(s.ctx, 1), constants.ErrDBNotFound)
}
