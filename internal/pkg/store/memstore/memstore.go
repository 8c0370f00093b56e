package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/store"
)

type data struct {
	seq      int64
	users    map[int64]domain.User
	profiles map[int64]domain.Profile
	banks    map[int64]domain.BloodBank
	requests map[int64]domain.DonationRequest
	offers   map[int64]domain.DonationOffer
}

func newData() *data {
	return &data{
		users:    make(map[int64]domain.User),
		profiles: make(map[int64]domain.Profile),
		banks:    make(map[int64]domain.BloodBank),
		requests: make(map[int64]domain.DonationRequest),
		offers:   make(map[int64]domain.DonationOffer),
	}
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

func (d *data) clone() *data {
	out := newData()
	out.seq = d.seq
	for k, v := range d.users {
		out.users[k] = v
	}
	for k, v := range d.profiles {
		out.profiles[k] = v
	}
	for k, v := range d.banks {
		v.Stock = v.Stock.Clone()
		out.banks[k] = v
	}
	for k, v := range d.requests {
		out.requests[k] = copyRequest(v)
	}
	for k, v := range d.offers {
		out.offers[k] = v
	}
	return out
}

// Store is an in-memory store.Store. A single mutex serializes every call,
// and InTx holds it for the whole transaction.
type Store struct {
	mu   *sync.Mutex
	data *data
	inTx bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.Mutex{}, data: newData()}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) InTx(_ context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&Store{mu: s.mu, data: s.data, inTx: true}); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func copyRequest(r domain.DonationRequest) domain.DonationRequest {
	if r.BloodBankID != nil {
		id := *r.BloodBankID
		r.BloodBankID = &id
	}
	return r
}

// users

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	defer s.lock()()

	for _, u := range s.data.users {
		if u.Username == user.Username {
			return constants.ErrDBConflict
		}
	}

	user.ID = s.data.nextID()
	user.CreatedAt = time.Now()
	s.data.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	defer s.lock()()

	u, ok := s.data.users[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	defer s.lock()()

	for _, u := range s.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, constants.ErrDBNotFound
}

// profiles

func (s *Store) extend(p domain.Profile) *domain.ExtendedProfile {
	u := s.data.users[p.UserID]
	return &domain.ExtendedProfile{
		Profile:   p,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (s *Store) CreateProfile(_ context.Context, profile *domain.Profile) error {
	defer s.lock()()

	if _, ok := s.data.users[profile.UserID]; !ok {
		return constants.ErrDBNotFound
	}
	for _, p := range s.data.profiles {
		if p.UserID == profile.UserID {
			return constants.ErrDBConflict
		}
	}

	profile.ID = s.data.nextID()
	profile.CreatedAt = time.Now()
	s.data.profiles[profile.ID] = *profile
	return nil
}

func (s *Store) GetProfileByUserID(_ context.Context, userID int64) (*domain.ExtendedProfile, error) {
	defer s.lock()()

	for _, p := range s.data.profiles {
		if p.UserID == userID {
			return s.extend(p), nil
		}
	}
	return nil, constants.ErrDBNotFound
}

func (s *Store) UpdateProfile(_ context.Context, profile *domain.Profile) error {
	defer s.lock()()

	current, ok := s.data.profiles[profile.ID]
	if !ok {
		return constants.ErrDBNotFound
	}

	current.Phone = profile.Phone
	current.Address = profile.Address
	current.BloodGroup = profile.BloodGroup
	current.Availability = profile.Availability
	s.data.profiles[profile.ID] = current
	return nil
}

func (s *Store) ListProfiles(_ context.Context, opts store.ListProfilesOpts) ([]*domain.ExtendedProfile, error) {
	defer s.lock()()

	res := make([]*domain.ExtendedProfile, 0)
	for _, p := range s.data.profiles {
		if opts.UserID != nil && p.UserID != *opts.UserID {
			continue
		}
		if opts.Role != nil && p.Role != *opts.Role {
			continue
		}
		if opts.BloodGroup != nil && p.BloodGroup != *opts.BloodGroup {
			continue
		}
		if opts.Available != nil && p.Availability != *opts.Available {
			continue
		}
		res = append(res, s.extend(p))
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *Store) CountProfiles(_ context.Context, role domain.Role) (int, error) {
	defer s.lock()()

	count := 0
	for _, p := range s.data.profiles {
		if p.Role == role {
			count++
		}
	}
	return count, nil
}

// blood banks

func (s *Store) CreateBloodBank(_ context.Context, bank *domain.BloodBank) error {
	defer s.lock()()

	bank.ID = s.data.nextID()
	bank.CreatedAt = time.Now()
	bank.UpdatedAt = bank.CreatedAt
	if bank.Stock == nil {
		bank.Stock = domain.Stock{}
	}

	stored := *bank
	stored.Stock = bank.Stock.Clone()
	s.data.banks[bank.ID] = stored
	return nil
}

func (s *Store) GetBloodBank(_ context.Context, id int64) (*domain.BloodBank, error) {
	defer s.lock()()

	b, ok := s.data.banks[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	b.Stock = b.Stock.Clone()
	return &b, nil
}

func (s *Store) ListBloodBanks(_ context.Context) ([]*domain.BloodBank, error) {
	defer s.lock()()

	res := make([]*domain.BloodBank, 0, len(s.data.banks))
	for _, b := range s.data.banks {
		b.Stock = b.Stock.Clone()
		res = append(res, &b)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *Store) UpdateBloodBankStock(_ context.Context, id int64, fn store.StockMutator) (*domain.BloodBank, error) {
	defer s.lock()()

	b, ok := s.data.banks[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}

	locked := b
	locked.Stock = b.Stock.Clone()
	stock, err := fn(&locked)
	if err != nil {
		return nil, err
	}

	b.Stock = stock.Clone()
	b.UpdatedAt = time.Now()
	s.data.banks[id] = b

	b.Stock = stock.Clone()
	return &b, nil
}

// requests

func (s *Store) CreateRequest(_ context.Context, request *domain.DonationRequest) error {
	defer s.lock()()

	if _, ok := s.data.users[request.CivilianID]; !ok {
		return constants.ErrDBNotFound
	}

	request.ID = s.data.nextID()
	request.CreatedAt = time.Now()
	s.data.requests[request.ID] = copyRequest(*request)
	return nil
}

func (s *Store) GetRequest(_ context.Context, id int64) (*domain.DonationRequest, error) {
	defer s.lock()()

	r, ok := s.data.requests[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	r = copyRequest(r)
	return &r, nil
}

func (s *Store) GetRequestForUpdate(ctx context.Context, id int64) (*domain.DonationRequest, error) {
	return s.GetRequest(ctx, id)
}

func (s *Store) ListRequests(_ context.Context, opts store.ListRequestsOpts) ([]*domain.DonationRequest, error) {
	defer s.lock()()

	res := make([]*domain.DonationRequest, 0)
	for _, r := range s.data.requests {
		if opts.Status != nil && r.Status != *opts.Status {
			continue
		}
		if opts.CivilianID != nil && r.CivilianID != *opts.CivilianID {
			continue
		}
		r = copyRequest(r)
		res = append(res, &r)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (s *Store) UpdateRequestStatus(_ context.Context, request *domain.DonationRequest) error {
	defer s.lock()()

	current, ok := s.data.requests[request.ID]
	if !ok {
		return constants.ErrDBNotFound
	}
	if request.BloodBankID != nil {
		if _, ok = s.data.banks[*request.BloodBankID]; !ok {
			return constants.ErrDBNotFound
		}
	}

	current.Status = request.Status
	current.BloodBankID = request.BloodBankID
	s.data.requests[request.ID] = copyRequest(current)
	return nil
}

func (s *Store) CountRequests(_ context.Context) (int, error) {
	defer s.lock()()
	return len(s.data.requests), nil
}

// offers

func (s *Store) CreateOffer(_ context.Context, offer *domain.DonationOffer) error {
	defer s.lock()()

	if _, ok := s.data.requests[offer.RequestID]; !ok {
		return constants.ErrDBNotFound
	}

	offer.ID = s.data.nextID()
	offer.CreatedAt = time.Now()
	s.data.offers[offer.ID] = *offer
	return nil
}

func (s *Store) GetOffer(_ context.Context, id int64) (*domain.DonationOffer, error) {
	defer s.lock()()

	o, ok := s.data.offers[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return &o, nil
}

func (s *Store) ListOffers(_ context.Context, opts store.ListOffersOpts) ([]*domain.DonationOffer, error) {
	defer s.lock()()

	res := make([]*domain.DonationOffer, 0)
	for _, o := range s.data.offers {
		if opts.DonorID != nil && o.DonorID != *opts.DonorID {
			continue
		}
		if opts.RequestID != nil && o.RequestID != *opts.RequestID {
			continue
		}
		res = append(res, &o)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (s *Store) DeleteOffer(_ context.Context, id int64) error {
	defer s.lock()()

	if _, ok := s.data.offers[id]; !ok {
		return constants.ErrDBNotFound
	}
	delete(s.data.offers, id)
	return nil
}
