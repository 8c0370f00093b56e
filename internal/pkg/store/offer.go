package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

var offerColumns = []string{"id", "donor_id", "request_id", "status", "created_at"}

func (s *store) CreateOffer(ctx context.Context, offer *domain.DonationOffer) error {
	query := builder().Insert(tableOffers).
		Columns("donor_id", "request_id", "status").
		Values(offer.DonorID, offer.RequestID, offer.Status).
		Suffix("RETURNING " + strings.Join(offerColumns, ", "))

	if err := s.pool.Getx(ctx, offer, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) GetOffer(ctx context.Context, id int64) (*domain.DonationOffer, error) {
	query := builder().Select(offerColumns...).
		From(tableOffers).
		Where(sq.Eq{"id": id})

	var selected domain.DonationOffer
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) ListOffers(ctx context.Context, opts ListOffersOpts) ([]*domain.DonationOffer, error) {
	query := builder().Select(offerColumns...).
		From(tableOffers).
		OrderBy("id DESC")

	if opts.DonorID != nil {
		query = query.Where(sq.Eq{"donor_id": *opts.DonorID})
	}
	if opts.RequestID != nil {
		query = query.Where(sq.Eq{"request_id": *opts.RequestID})
	}

	selected := make([]*domain.DonationOffer, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) DeleteOffer(ctx context.Context, id int64) error {
	query := builder().Delete(tableOffers).Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}
