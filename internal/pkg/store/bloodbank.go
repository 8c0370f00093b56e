package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/ougirez/bloodbank/internal/domain"
)

var bloodBankColumns = []string{"id", "name", "location", "stock", "created_at", "updated_at"}

func marshalStock(stock domain.Stock) ([]byte, error) {
	if stock == nil {
		stock = domain.Stock{}
	}
	stockJSON, err := sonic.Marshal(stock)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stock: %w", err)
	}
	return stockJSON, nil
}

func (s *store) CreateBloodBank(ctx context.Context, bank *domain.BloodBank) error {
	stockJSON, err := marshalStock(bank.Stock)
	if err != nil {
		return err
	}

	query := builder().Insert(tableBloodBanks).
		Columns("name", "location", "stock").
		Values(bank.Name, bank.Location, stockJSON).
		Suffix("RETURNING " + strings.Join(bloodBankColumns, ", "))

	if err = s.pool.Getx(ctx, bank, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) GetBloodBank(ctx context.Context, id int64) (*domain.BloodBank, error) {
	return s.getBloodBank(ctx, id, false)
}

func (s *store) getBloodBank(ctx context.Context, id int64, forUpdate bool) (*domain.BloodBank, error) {
	query := builder().Select(bloodBankColumns...).
		From(tableBloodBanks).
		Where(sq.Eq{"id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	var selected domain.BloodBank
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}
	if selected.Stock == nil {
		selected.Stock = domain.Stock{}
	}

	return &selected, nil
}

func (s *store) ListBloodBanks(ctx context.Context) ([]*domain.BloodBank, error) {
	query := builder().Select(bloodBankColumns...).
		From(tableBloodBanks).
		OrderBy("id")

	selected := make([]*domain.BloodBank, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpdateBloodBankStock(ctx context.Context, id int64, fn StockMutator) (*domain.BloodBank, error) {
	var updated domain.BloodBank

	err := s.pool.BeginFunc(ctx, func(tx Pool) error {
		txStore := &store{pool: tx}

		bank, err := txStore.getBloodBank(ctx, id, true)
		if err != nil {
			return err
		}

		stock, err := fn(bank)
		if err != nil {
			return err
		}

		stockJSON, err := marshalStock(stock)
		if err != nil {
			return err
		}

		query := builder().Update(tableBloodBanks).
			Set("stock", stockJSON).
			Set("updated_at", sq.Expr("now()")).
			Where(sq.Eq{"id": id}).
			Suffix("RETURNING " + strings.Join(bloodBankColumns, ", "))

		return wrapErr(tx.Getx(ctx, &updated, query))
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
