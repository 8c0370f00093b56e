package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

const (
	tableUsers      = "users"
	tableProfiles   = "profiles"
	tableBloodBanks = "blood_banks"
	tableRequests   = "donation_requests"
	tableOffers     = "donation_offers"

	pgUniqueViolation = "23505"
)

type ListProfilesOpts struct {
	UserID     *int64
	Role       *domain.Role
	BloodGroup *domain.BloodGroup
	Available  *bool
}

type ListRequestsOpts struct {
	Status     *domain.RequestStatus
	CivilianID *int64
}

type ListOffersOpts struct {
	DonorID   *int64
	RequestID *int64
}

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	if pgxscan.NotFound(err) {
		return constants.ErrDBNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return constants.ErrDBConflict
	}
	return err
}

// builder возвращает squirrel SQL Builder обьект.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
