package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
	"github.com/ougirez/bloodbank/internal/pkg/metrics"
	"github.com/ougirez/bloodbank/internal/pkg/store"
)

// Service is the inventory ledger: the only writer of blood bank stock.
type Service struct {
	store   store.Store
	metrics *metrics.Metrics
}

func NewInventoryService(store store.Store, metrics *metrics.Metrics) *Service {
	return &Service{store: store, metrics: metrics}
}

// WithStore returns a ledger bound to st, e.g. an open transaction.
func (s *Service) WithStore(st store.Store) *Service {
	return &Service{store: st, metrics: s.metrics}
}

func (s *Service) Add(ctx context.Context, bankID int64, group domain.BloodGroup, quantity int) (*domain.BloodBank, error) {
	return s.apply(ctx, domain.StockActionAdd, bankID, group, quantity, func(bank *domain.BloodBank) (domain.Stock, error) {
		return bank.Stock.Add(group, quantity)
	})
}

func (s *Service) Allocate(ctx context.Context, bankID int64, group domain.BloodGroup, quantity int) (*domain.BloodBank, error) {
	return s.apply(ctx, domain.StockActionAllocate, bankID, group, quantity, func(bank *domain.BloodBank) (domain.Stock, error) {
		stock, err := bank.Stock.Allocate(group, quantity)
		if errors.Is(err, constants.ErrInsufficientStock) {
			return nil, fmt.Errorf("not enough %s available in %s: %w", group, bank.Name, constants.ErrInsufficientStock)
		}
		return stock, err
	})
}

func (s *Service) apply(
	ctx context.Context,
	action string,
	bankID int64,
	group domain.BloodGroup,
	quantity int,
	fn store.StockMutator,
) (*domain.BloodBank, error) {
	if err := domain.ValidateDelta(group, quantity); err != nil {
		s.metrics.IncStockRejected(action)
		return nil, err
	}

	bank, err := s.store.UpdateBloodBankStock(ctx, bankID, fn)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("blood bank %d: %w", bankID, constants.ErrNotFound)
		}
		if errors.Is(err, constants.ErrInsufficientStock) || errors.Is(err, constants.ErrInvalidQuantity) {
			s.metrics.IncStockRejected(action)
			return nil, err
		}
		return nil, fmt.Errorf("store.UpdateBloodBankStock: %w", err)
	}

	s.metrics.ObserveStock(action, group.String(), quantity)
	logger.Infof(ctx, "blood bank %d: %s %d units of %s, now %d", bankID, action, quantity, group, bank.Stock.Get(group))

	return bank, nil
}

func (s *Service) CreateBloodBank(ctx context.Context, actor domain.Actor, req *domain.CreateBloodBankRequest) (*domain.BloodBank, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}

	stock := req.Stock.Clone()
	if err := stock.Validate(); err != nil {
		return nil, err
	}

	bank := &domain.BloodBank{
		Name:     req.Name,
		Location: req.Location,
		Stock:    stock,
	}
	if err := s.store.CreateBloodBank(ctx, bank); err != nil {
		return nil, fmt.Errorf("store.CreateBloodBank: %w", err)
	}

	logger.Infof(ctx, "created blood bank %d (%s)", bank.ID, bank.Name)
	return bank, nil
}

func (s *Service) GetBloodBank(ctx context.Context, id int64) (*domain.BloodBank, error) {
	bank, err := s.store.GetBloodBank(ctx, id)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("blood bank %d: %w", id, constants.ErrNotFound)
		}
		return nil, fmt.Errorf("store.GetBloodBank: %w", err)
	}

	return bank, nil
}

func (s *Service) ListBloodBanks(ctx context.Context) ([]*domain.BloodBank, error) {
	banks, err := s.store.ListBloodBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListBloodBanks: %w", err)
	}

	return banks, nil
}

// UpdateStock dispatches the PATCH /bloodbanks/:id body to Add or Allocate.
func (s *Service) UpdateStock(ctx context.Context, req *domain.UpdateStockRequest) (*domain.UpdateStockResponse, error) {
	var (
		bank *domain.BloodBank
		err  error
	)

	switch req.Action {
	case domain.StockActionAdd:
		bank, err = s.Add(ctx, req.ID, req.BloodGroup, int(req.Quantity))
	case domain.StockActionAllocate:
		bank, err = s.Allocate(ctx, req.ID, req.BloodGroup, int(req.Quantity))
	default:
		return nil, fmt.Errorf("%q: %w", req.Action, constants.ErrInvalidAction)
	}
	if err != nil {
		return nil, err
	}

	return &domain.UpdateStockResponse{
		BloodBank:  bank,
		BloodGroup: req.BloodGroup,
		Action:     req.Action,
		Quantity:   int(req.Quantity),
	}, nil
}
