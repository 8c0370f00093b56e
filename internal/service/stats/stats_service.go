package stats

import (
	"context"
	"fmt"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/store"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	store store.Store
}

func NewStatsService(store store.Store) *Service {
	return &Service{store: store}
}

// Stats is the administrator dashboard: population counts and the stock
// summed over all banks.
func (s *Service) Stats(ctx context.Context, actor domain.Actor) (*domain.Stats, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}

	var (
		stats = &domain.Stats{StockByGroup: domain.Stock{}}
		banks []*domain.BloodBank
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		stats.DonorCount, err = s.store.CountProfiles(egCtx, domain.RoleDonor)
		if err != nil {
			return fmt.Errorf("count donors: %w", err)
		}
		return nil
	})
	eg.Go(func() (err error) {
		stats.CivilianCount, err = s.store.CountProfiles(egCtx, domain.RoleCivilian)
		if err != nil {
			return fmt.Errorf("count civilians: %w", err)
		}
		return nil
	})
	eg.Go(func() (err error) {
		stats.RequestCount, err = s.store.CountRequests(egCtx)
		if err != nil {
			return fmt.Errorf("store.CountRequests: %w", err)
		}
		return nil
	})
	eg.Go(func() (err error) {
		banks, err = s.store.ListBloodBanks(egCtx)
		if err != nil {
			return fmt.Errorf("store.ListBloodBanks: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, bank := range banks {
		stats.StockByGroup.Merge(bank.Stock)
	}

	return stats, nil
}
