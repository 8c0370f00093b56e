package store

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/bloodbank/internal/domain"
)

var userColumns = []string{"id", "username", "email", "first_name", "last_name", "is_admin", "password_hash", "created_at"}

func (s *store) CreateUser(ctx context.Context, user *domain.User) error {
	query := builder().Insert(tableUsers).
		Columns("username", "email", "first_name", "last_name", "is_admin", "password_hash").
		Values(user.Username, user.Email, user.FirstName, user.LastName, user.IsAdmin, user.UserPassword.Hash).
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	if err := s.pool.Getx(ctx, user, query); err != nil {
		return wrapErr(err)
	}

	return nil
}

func (s *store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"id": id})
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUser(ctx, sq.Eq{"username": username})
}

func (s *store) getUser(ctx context.Context, where sq.Sqlizer) (*domain.User, error) {
	query := builder().Select(userColumns...).
		From(tableUsers).
		Where(where)

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}
