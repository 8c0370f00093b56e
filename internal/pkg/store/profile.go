package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

var profileColumns = []string{"id", "user_id", "user_type", "phone", "address", "blood_group", "availability", "created_at"}

func extendedProfileQuery() sq.SelectBuilder {
	return builder().Select(
		`p.id, p.user_id, p.user_type, p.phone, p.address, p.blood_group, p.availability, p.created_at,
		u.username, u.email, u.first_name, u.last_name`).
		From(tableProfiles + " p").
		Join(tableUsers + " u on u.id=p.user_id")
}

func (s *store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	query := builder().Insert(tableProfiles).
		Columns(profileColumns[1:7]...).
		Values(profile.UserID, profile.Role, profile.Phone, profile.Address, profile.BloodGroup, profile.Availability).
		Suffix("RETURNING " + strings.Join(profileColumns, ", "))

	if err := s.pool.Getx(ctx, profile, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) GetProfileByUserID(ctx context.Context, userID int64) (*domain.ExtendedProfile, error) {
	query := extendedProfileQuery().Where(sq.Eq{"p.user_id": userID})

	var selected domain.ExtendedProfile
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := builder().Update(tableProfiles).
		SetMap(map[string]interface{}{
			"phone":        profile.Phone,
			"address":      profile.Address,
			"blood_group":  profile.BloodGroup,
			"availability": profile.Availability,
		}).
		Where(sq.Eq{"id": profile.ID})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}

func (s *store) ListProfiles(ctx context.Context, opts ListProfilesOpts) ([]*domain.ExtendedProfile, error) {
	query := extendedProfileQuery().OrderBy("p.id")

	if opts.UserID != nil {
		query = query.Where(sq.Eq{"p.user_id": *opts.UserID})
	}
	if opts.Role != nil {
		query = query.Where(sq.Eq{"p.user_type": *opts.Role})
	}
	if opts.BloodGroup != nil {
		query = query.Where(sq.Eq{"p.blood_group": *opts.BloodGroup})
	}
	if opts.Available != nil {
		query = query.Where(sq.Eq{"p.availability": *opts.Available})
	}

	selected := make([]*domain.ExtendedProfile, 0)
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) CountProfiles(ctx context.Context, role domain.Role) (int, error) {
	query := builder().Select("count(*)").
		From(tableProfiles).
		Where(sq.Eq{"user_type": role})

	var count int
	if err := s.pool.Getx(ctx, &count, query); err != nil {
		return 0, wrapErr(err)
	}

	return count, nil
}
