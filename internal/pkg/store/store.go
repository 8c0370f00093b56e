package store

import (
	"context"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// StockMutator receives a copy of the locked bank and returns the full stock map to persist.
type StockMutator func(bank *domain.BloodBank) (domain.Stock, error)

type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfileByUserID(ctx context.Context, userID int64) (*domain.ExtendedProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	ListProfiles(ctx context.Context, opts ListProfilesOpts) ([]*domain.ExtendedProfile, error)
	CountProfiles(ctx context.Context, role domain.Role) (int, error)
}

type BloodBankStore interface {
	CreateBloodBank(ctx context.Context, bank *domain.BloodBank) error
	GetBloodBank(ctx context.Context, id int64) (*domain.BloodBank, error)
	ListBloodBanks(ctx context.Context) ([]*domain.BloodBank, error)
	// UpdateBloodBankStock reads the stock under a row lock, applies fn and
	// writes the whole map back. If fn fails nothing is written.
	UpdateBloodBankStock(ctx context.Context, id int64, fn StockMutator) (*domain.BloodBank, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *domain.DonationRequest) error
	GetRequest(ctx context.Context, id int64) (*domain.DonationRequest, error)
	// GetRequestForUpdate locks the row until the surrounding transaction ends.
	GetRequestForUpdate(ctx context.Context, id int64) (*domain.DonationRequest, error)
	ListRequests(ctx context.Context, opts ListRequestsOpts) ([]*domain.DonationRequest, error)
	// UpdateRequestStatus writes status and blood_bank_id together.
	UpdateRequestStatus(ctx context.Context, request *domain.DonationRequest) error
	CountRequests(ctx context.Context) (int, error)
}

type OfferStore interface {
	CreateOffer(ctx context.Context, offer *domain.DonationOffer) error
	GetOffer(ctx context.Context, id int64) (*domain.DonationOffer, error)
	ListOffers(ctx context.Context, opts ListOffersOpts) ([]*domain.DonationOffer, error)
	DeleteOffer(ctx context.Context, id int64) error
}

type Store interface {
	UserStore
	ProfileStore
	BloodBankStore
	RequestStore
	OfferStore

	// InTx runs fn against a transactional view of the store. Any error rolls
	// back every write made through that view.
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}

func (s *store) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.pool.BeginFunc(ctx, func(tx Pool) error {
		return fn(&store{pool: tx})
	})
}
