package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

var requestColumns = []string{"id", "civilian_id", "blood_group", "quantity", "address", "status", "blood_bank_id", "created_at"}

func (s *store) CreateRequest(ctx context.Context, request *domain.DonationRequest) error {
	query := builder().Insert(tableRequests).
		Columns("civilian_id", "blood_group", "quantity", "address", "status").
		Values(request.CivilianID, request.BloodGroup, request.Quantity, request.Address, request.Status).
		Suffix("RETURNING " + strings.Join(requestColumns, ", "))

	if err := s.pool.Getx(ctx, request, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) GetRequest(ctx context.Context, id int64) (*domain.DonationRequest, error) {
	return s.getRequest(ctx, id, false)
}

func (s *store) GetRequestForUpdate(ctx context.Context, id int64) (*domain.DonationRequest, error) {
	return s.getRequest(ctx, id, true)
}

func (s *store) getRequest(ctx context.Context, id int64, forUpdate bool) (*domain.DonationRequest, error) {
	query := builder().Select(requestColumns...).
		From(tableRequests).
		Where(sq.Eq{"id": id})
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	var selected domain.DonationRequest
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) ListRequests(ctx context.Context, opts ListRequestsOpts) ([]*domain.DonationRequest, error) {
	query := builder().Select(requestColumns...).
		From(tableRequests).
		OrderBy("id DESC")

	if opts.Status != nil {
		query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.CivilianID != nil {
		query = query.Where(sq.Eq{"civilian_id": *opts.CivilianID})
	}

	selected := make([]*domain.DonationRequest, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpdateRequestStatus(ctx context.Context, request *domain.DonationRequest) error {
	query := builder().Update(tableRequests).
		Set("status", request.Status).
		Set("blood_bank_id", request.BloodBankID).
		Where(sq.Eq{"id": request.ID})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}

func (s *store) CountRequests(ctx context.Context) (int, error) {
	query := builder().Select("count(*)").From(tableRequests)

	var count int
	if err := s.pool.Getx(ctx, &count, query); err != nil {
		return 0, wrapErr(err)
	}

	return count, nil
}
