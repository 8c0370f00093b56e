package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
	"github.com/ougirez/bloodbank/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewUserService(store store.Store) *Service {
	return &Service{store}
}

func (svc *Service) RegisterDonor(ctx context.Context, request *domain.SignupDonorRequest) (*domain.SignupUserResponse, error) {
	group, err := domain.ParseBloodGroup(string(request.BloodGroup))
	if err != nil {
		return nil, err
	}

	return svc.register(ctx, &request.SignupUserRequest, domain.Profile{
		Role:         domain.RoleDonor,
		BloodGroup:   group,
		Availability: true,
	})
}

func (svc *Service) RegisterCivilian(ctx context.Context, request *domain.SignupUserRequest) (*domain.SignupUserResponse, error) {
	return svc.register(ctx, request, domain.Profile{Role: domain.RoleCivilian})
}

// register creates the user and its profile together.
func (svc *Service) register(ctx context.Context, request *domain.SignupUserRequest, profile domain.Profile) (*domain.SignupUserResponse, error) {
	user := &domain.User{
		Username:  strings.TrimSpace(request.Username),
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	}
	if user.Username == "" {
		return nil, fmt.Errorf("username is required: %w", constants.ErrBadRequest)
	}
	if err := user.UserPassword.Init(request.Password); err != nil {
		return nil, err
	}

	err := svc.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, constants.ErrDBConflict) {
				return fmt.Errorf("%q: %w", user.Username, constants.ErrUsernameTaken)
			}
			return fmt.Errorf("store.CreateUser: %w", err)
		}

		profile.UserID = user.ID
		if err := tx.CreateProfile(ctx, &profile); err != nil {
			return fmt.Errorf("store.CreateProfile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof(ctx, "registered %s %q (user %d)", profile.Role, user.Username, user.ID)

	return &domain.SignupUserResponse{User: user, Profile: &profile}, nil
}

// EnsureAdmin creates the administrator account on first start.
func (svc *Service) EnsureAdmin(ctx context.Context, username, password, email string) error {
	if username == "" {
		return nil
	}

	existing, err := svc.store.GetUserByUsername(ctx, username)
	if err == nil {
		if !existing.IsAdmin {
			logger.Warnf(ctx, "user %q exists but is not an administrator", username)
		}
		return nil
	}
	if !errors.Is(err, constants.ErrDBNotFound) {
		return fmt.Errorf("store.GetUserByUsername: %w", err)
	}
	if password == "" {
		return fmt.Errorf("admin password is empty: %w", constants.ErrBadRequest)
	}

	admin := &domain.User{
		Username: username,
		Email:    email,
		IsAdmin:  true,
	}
	if err = admin.UserPassword.Init(password); err != nil {
		return err
	}
	if err = svc.store.CreateUser(ctx, admin); err != nil {
		// другой инстанс успел первым
		if errors.Is(err, constants.ErrDBConflict) {
			return nil
		}
		return fmt.Errorf("store.CreateUser: %w", err)
	}

	logger.Infof(ctx, "created administrator %q", username)
	return nil
}

// Me returns the caller's profile. Administrators have none, so they get one
// built from the user record.
func (svc *Service) Me(ctx context.Context, actor domain.Actor) (*domain.Me, error) {
	if actor.IsAdmin() {
		user, err := svc.store.GetUserByID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, constants.ErrDBNotFound) {
				return nil, fmt.Errorf("user %d: %w", actor.UserID, constants.ErrNotFound)
			}
			return nil, fmt.Errorf("store.GetUserByID: %w", err)
		}

		return &domain.Me{
			ExtendedProfile: &domain.ExtendedProfile{
				Profile:   domain.Profile{UserID: user.ID, CreatedAt: user.CreatedAt},
				Username:  user.Username,
				Email:     user.Email,
				FirstName: user.FirstName,
				LastName:  user.LastName,
			},
			Role: domain.RoleAdmin,
		}, nil
	}

	profile, err := svc.getProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.Me{ExtendedProfile: profile, Role: profile.Role}, nil
}

func (svc *Service) getProfile(ctx context.Context, userID int64) (*domain.ExtendedProfile, error) {
	profile, err := svc.store.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, fmt.Errorf("profile of user %d: %w", userID, constants.ErrNotFound)
		}
		return nil, fmt.Errorf("store.GetProfileByUserID: %w", err)
	}
	return profile, nil
}

func (svc *Service) UpdateMe(ctx context.Context, actor domain.Actor, patch domain.ProfilePatch) (*domain.ExtendedProfile, error) {
	if actor.IsAdmin() {
		return nil, fmt.Errorf("administrators have no profile: %w", constants.ErrNotFound)
	}

	profile, err := svc.getProfile(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err = patch.Apply(&profile.Profile); err != nil {
		return nil, err
	}

	if err = svc.store.UpdateProfile(ctx, &profile.Profile); err != nil {
		return nil, fmt.Errorf("store.UpdateProfile: %w", err)
	}

	return profile, nil
}

// ListProfiles shows administrators every profile, optionally of one role;
// anyone else only sees their own.
func (svc *Service) ListProfiles(ctx context.Context, actor domain.Actor, role domain.Role) ([]*domain.ExtendedProfile, error) {
	var opts store.ListProfilesOpts
	if actor.IsAdmin() {
		if role != "" {
			if !role.Valid() {
				return nil, fmt.Errorf("user type %q: %w", role, constants.ErrBadRequest)
			}
			opts.Role = &role
		}
	} else {
		opts.UserID = &actor.UserID
	}

	profiles, err := svc.store.ListProfiles(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListProfiles: %w", err)
	}
	return profiles, nil
}

// SearchDonors filters donor profiles by blood group and availability; both
// filters apply when both are given.
func (svc *Service) SearchDonors(ctx context.Context, bloodGroup, available string) ([]*domain.ExtendedProfile, error) {
	donor := domain.RoleDonor
	opts := store.ListProfilesOpts{Role: &donor}

	if bloodGroup != "" {
		// "+" приходит из query string пробелом
		group, err := domain.ParseBloodGroup(strings.ToUpper(strings.ReplaceAll(bloodGroup, " ", "+")))
		if err != nil {
			return nil, err
		}
		opts.BloodGroup = &group
	}
	// available сужает и поиск по группе, см. DESIGN.md
	if available != "" {
		value, err := strconv.ParseBool(available)
		if err != nil {
			return nil, fmt.Errorf("available %q: %w", available, constants.ErrBadRequest)
		}
		opts.Available = &value
	}

	profiles, err := svc.store.ListProfiles(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListProfiles: %w", err)
	}
	return profiles, nil
}
