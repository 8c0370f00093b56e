package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
	"github.com/ougirez/bloodbank/internal/pkg/store"
	"github.com/ougirez/bloodbank/internal/pkg/tokens"
	"github.com/ougirez/bloodbank/internal/pkg/utils"
)

type Service struct {
	store      store.Store
	blacklist  tokens.Blacklist
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(store store.Store, blacklist tokens.Blacklist, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		store:      store,
		blacklist:  blacklist,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (svc *Service) LoginUser(ctx context.Context, request *domain.LoginUserRequest) (*domain.LoginUserResponse, error) {
	user, err := svc.store.GetUserByUsername(ctx, request.Username)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("store.GetUserByUsername: %w", err)
	}

	if err = user.UserPassword.Validate(request.Password); err != nil {
		return nil, err
	}

	actor, err := svc.resolveActor(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "login: userID: [%v], role: [%v]", user.ID, actor.Role)

	access, expiresAt, err := svc.issue(actor, utils.TokenKindAccess, svc.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := svc.issue(actor, utils.TokenKindRefresh, svc.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &domain.LoginUserResponse{
		Access:    access,
		Refresh:   refresh,
		ExpiresAt: expiresAt,
		Role:      actor.Role,
	}, nil
}

func (svc *Service) resolveActor(ctx context.Context, user *domain.User) (domain.Actor, error) {
	if user.IsAdmin {
		return user.Actor(nil), nil
	}

	profile, err := svc.store.GetProfileByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return domain.Actor{}, fmt.Errorf("user %d has no profile: %w", user.ID, constants.ErrUnauthorized)
		}
		return domain.Actor{}, fmt.Errorf("store.GetProfileByUserID: %w", err)
	}

	return user.Actor(&profile.Profile), nil
}

func (svc *Service) issue(actor domain.Actor, kind string, ttl time.Duration) (string, time.Time, error) {
	wrapper := &utils.AuthTokenWrapper{
		UserID: actor.UserID,
		Role:   actor.Role,
		Kind:   kind,
	}

	token, err := utils.GenerateAuthToken(wrapper, ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, time.Unix(wrapper.ExpiresAt, 0), nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (svc *Service) Refresh(ctx context.Context, request *domain.RefreshTokenRequest) (*domain.LoginUserResponse, error) {
	wrapper, err := svc.verify(ctx, request.Refresh, utils.TokenKindRefresh)
	if err != nil {
		return nil, err
	}

	// роль могла поменяться, берём её из базы
	user, err := svc.store.GetUserByID(ctx, wrapper.UserID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.ErrInvalidToken
		}
		return nil, fmt.Errorf("store.GetUserByID: %w", err)
	}
	actor, err := svc.resolveActor(ctx, user)
	if err != nil {
		return nil, err
	}

	access, expiresAt, err := svc.issue(actor, utils.TokenKindAccess, svc.accessTTL)
	if err != nil {
		return nil, err
	}

	return &domain.LoginUserResponse{
		Access:    access,
		Refresh:   request.Refresh,
		ExpiresAt: expiresAt,
		Role:      actor.Role,
	}, nil
}

// Authenticate checks an access token and returns the caller identity.
func (svc *Service) Authenticate(ctx context.Context, token string) (*utils.AuthTokenWrapper, error) {
	return svc.verify(ctx, token, utils.TokenKindAccess)
}

func (svc *Service) verify(ctx context.Context, token, kind string) (*utils.AuthTokenWrapper, error) {
	wrapper, err := utils.ParseAuthToken(token)
	if err != nil {
		return nil, err
	}
	if wrapper.Kind != kind {
		return nil, constants.ErrInvalidToken
	}

	revoked, err := svc.blacklist.Contains(ctx, wrapper.Id)
	if err != nil {
		return nil, fmt.Errorf("blacklist.Contains: %w", err)
	}
	if revoked {
		return nil, constants.ErrRevokedToken
	}

	return wrapper, nil
}

// Logout revokes the access token and, when given, the refresh token.
func (svc *Service) Logout(ctx context.Context, access *utils.AuthTokenWrapper, refresh string) error {
	var refreshToken *utils.AuthTokenWrapper
	if refresh != "" {
		wrapper, err := utils.ParseAuthToken(refresh)
		if err != nil {
			return err
		}
		if wrapper.UserID != access.UserID {
			return constants.ErrForbidden
		}
		refreshToken = wrapper
	}

	now := time.Now()
	if err := svc.blacklist.Add(ctx, access.Id, access.TTL(now)); err != nil {
		return fmt.Errorf("blacklist.Add: %w", err)
	}
	if refreshToken != nil {
		if err := svc.blacklist.Add(ctx, refreshToken.Id, refreshToken.TTL(now)); err != nil {
			return fmt.Errorf("blacklist.Add: %w", err)
		}
	}

	logger.Debugf(ctx, "logout: userID: [%v]", access.UserID)
	return nil
}
