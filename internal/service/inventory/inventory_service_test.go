package inventory

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/metrics"
	"github.com/ougirez/bloodbank/internal/pkg/store/memstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type InventorySuite struct {
	suite.Suite
	ctx     context.Context
	store   *memstore.Store
	metrics *metrics.Metrics
	svc     *Service
	admin   domain.Actor
}

func TestInventorySuite(t *testing.T) {
	suite.Run(t, new(InventorySuite))
}

func (s *InventorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memstore.New()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.svc = NewInventoryService(s.store, s.metrics)
	s.admin = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
}

func (s *InventorySuite) createBank(name string, stock domain.Stock) *domain.BloodBank {
	bank, err := s.svc.CreateBloodBank(s.ctx, s.admin, &domain.CreateBloodBankRequest{
		Name:     name,
		Location: "Main st",
		Stock:    stock,
	})
	s.Require().NoError(err)
	return bank
}

func (s *InventorySuite) TestCreateBloodBank() {
	s.Run("admin only", func() {
		_, err := s.svc.CreateBloodBank(s.ctx, domain.Actor{UserID: 2, Role: domain.RoleDonor}, &domain.CreateBloodBankRequest{Name: "x", Location: "y"})
		s.ErrorIs(err, constants.ErrForbidden)
	})

	s.Run("initial stock is validated", func() {
		_, err := s.svc.CreateBloodBank(s.ctx, s.admin, &domain.CreateBloodBankRequest{
			Name:     "x",
			Location: "y",
			Stock:    domain.Stock{domain.BloodGroupAPos: -1},
		})
		s.ErrorIs(err, constants.ErrInvalidQuantity)
	})

	s.Run("empty stock", func() {
		bank := s.createBank("Empty", nil)
		s.NotNil(bank.Stock)
		s.Empty(bank.Stock)
	})
}

func (s *InventorySuite) TestAdd() {
	bank := s.createBank("Central", domain.Stock{domain.BloodGroupAPos: 5})

	updated, err := s.svc.Add(s.ctx, bank.ID, domain.BloodGroupAPos, 3)
	s.Require().NoError(err)
	s.Equal(8, updated.Stock.Get(domain.BloodGroupAPos))

	updated, err = s.svc.Add(s.ctx, bank.ID, domain.BloodGroupONeg, 2)
	s.Require().NoError(err)
	s.Equal(domain.Stock{domain.BloodGroupAPos: 8, domain.BloodGroupONeg: 2}, updated.Stock)

	s.Equal(float64(3), testutil.ToFloat64(s.metrics.StockUnits.WithLabelValues(domain.StockActionAdd, "A+")))
}

func (s *InventorySuite) TestValidationLeavesStock() {
	bank := s.createBank("Central", domain.Stock{domain.BloodGroupAPos: 5})

	_, err := s.svc.Add(s.ctx, bank.ID, "C+", 1)
	s.ErrorIs(err, constants.ErrInvalidGroup)

	_, err = s.svc.Add(s.ctx, bank.ID, domain.BloodGroupAPos, 0)
	s.ErrorIs(err, constants.ErrInvalidQuantity)

	_, err = s.svc.Allocate(s.ctx, bank.ID, domain.BloodGroupAPos, -2)
	s.ErrorIs(err, constants.ErrInvalidQuantity)

	got, err := s.svc.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(domain.Stock{domain.BloodGroupAPos: 5}, got.Stock)
}

func (s *InventorySuite) TestAddOverflowLeavesStock() {
	bank := s.createBank("Central", domain.Stock{domain.BloodGroupOPos: 1})

	_, err := s.svc.Add(s.ctx, bank.ID, domain.BloodGroupOPos, math.MaxInt)
	s.Require().ErrorIs(err, constants.ErrInvalidQuantity)

	got, err := s.svc.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(domain.Stock{domain.BloodGroupOPos: 1}, got.Stock)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StockRejected.WithLabelValues(domain.StockActionAdd)))
}

func (s *InventorySuite) TestAllocate() {
	bank := s.createBank("Central", domain.Stock{domain.BloodGroupOPos: 10})

	updated, err := s.svc.Allocate(s.ctx, bank.ID, domain.BloodGroupOPos, 4)
	s.Require().NoError(err)
	s.Equal(6, updated.Stock.Get(domain.BloodGroupOPos))

	_, err = s.svc.Allocate(s.ctx, bank.ID, domain.BloodGroupOPos, 8)
	s.Require().ErrorIs(err, constants.ErrInsufficientStock)
	s.Contains(err.Error(), "not enough O+ available in Central")

	got, err := s.svc.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(6, got.Stock.Get(domain.BloodGroupOPos))

	s.Equal(float64(1), testutil.ToFloat64(s.metrics.StockRejected.WithLabelValues(domain.StockActionAllocate)))
}

func (s *InventorySuite) TestUnknownBank() {
	_, err := s.svc.Add(s.ctx, 404, domain.BloodGroupAPos, 1)
	s.ErrorIs(err, constants.ErrNotFound)

	_, err = s.svc.Allocate(s.ctx, 404, domain.BloodGroupAPos, 1)
	s.ErrorIs(err, constants.ErrNotFound)

	_, err = s.svc.GetBloodBank(s.ctx, 404)
	s.ErrorIs(err, constants.ErrNotFound)
}

func (s *InventorySuite) TestConcurrentAllocateNeverOverdraws() {
	bank := s.createBank("Central", domain.Stock{domain.BloodGroupABNeg: 5})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.svc.Allocate(s.ctx, bank.ID, domain.BloodGroupABNeg, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(5, succeeded)
	got, err := s.svc.GetBloodBank(s.ctx, bank.ID)
	s.Require().NoError(err)
	s.Equal(0, got.Stock.Get(domain.BloodGroupABNeg))
}

func (s *InventorySuite) TestUpdateStock() {
	bank := s.createBank("Central", domain.Stock{domain.BloodGroupBPos: 2})

	resp, err := s.svc.UpdateStock(s.ctx, &domain.UpdateStockRequest{
		ID:         bank.ID,
		BloodGroup: domain.BloodGroupBPos,
		Quantity:   3,
		Action:     domain.StockActionAdd,
	})
	s.Require().NoError(err)
	s.Equal(5, resp.Stock.Get(domain.BloodGroupBPos))
	s.Equal(domain.StockActionAdd, resp.Action)

	resp, err = s.svc.UpdateStock(s.ctx, &domain.UpdateStockRequest{
		ID:         bank.ID,
		BloodGroup: domain.BloodGroupBPos,
		Quantity:   5,
		Action:     domain.StockActionAllocate,
	})
	s.Require().NoError(err)
	s.Equal(0, resp.Stock.Get(domain.BloodGroupBPos))

	_, err = s.svc.UpdateStock(s.ctx, &domain.UpdateStockRequest{
		ID:         bank.ID,
		BloodGroup: domain.BloodGroupBPos,
		Quantity:   1,
		Action:     "drain",
	})
	s.ErrorIs(err, constants.ErrInvalidAction)
}
