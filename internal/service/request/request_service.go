package request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/bloodbank/internal/domain"
	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"github.com/ougirez/bloodbank/internal/pkg/logger"
	"github.com/ougirez/bloodbank/internal/pkg/metrics"
	"github.com/ougirez/bloodbank/internal/pkg/store"
	"github.com/ougirez/bloodbank/internal/service/inventory"
)

type Service struct {
	store     store.Store
	inventory *inventory.Service
	metrics   *metrics.Metrics
}

func NewRequestService(store store.Store, inventory *inventory.Service, metrics *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		inventory: inventory,
		metrics:   metrics,
	}
}

func notFound(what string, id int64, err error) error {
	if errors.Is(err, constants.ErrDBNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, constants.ErrNotFound)
	}
	return err
}

// Submit creates a Pending request. Stock is not checked here.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, group domain.BloodGroup, quantity int, address string) (*domain.DonationRequest, error) {
	if err := actor.Require(domain.RoleCivilian); err != nil {
		return nil, err
	}
	if err := domain.ValidateDelta(group, quantity); err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address is required: %w", constants.ErrBadRequest)
	}

	request := &domain.DonationRequest{
		CivilianID: actor.UserID,
		BloodGroup: group,
		Quantity:   quantity,
		Address:    address,
		Status:     domain.RequestStatusPending,
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("store.CreateRequest: %w", err)
	}

	s.metrics.IncRequestTransition(string(domain.RequestStatusPending))
	logger.Infof(ctx, "civilian %d submitted request %d: %d units of %s", actor.UserID, request.ID, quantity, group)

	return request, nil
}

// Approve allocates the requested units from bankID and marks the request
// Approved in the same transaction. When the allocation fails the request
// stays Pending and the stock is untouched.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, requestID, bankID int64) (*domain.DonationRequest, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}
	if bankID == 0 {
		return nil, constants.ErrMissingBank
	}

	start := time.Now()
	defer s.metrics.ObserveApprove(start)

	var approved *domain.DonationRequest
	err := s.store.InTx(ctx, func(tx store.Store) error {
		request, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return notFound("request", requestID, err)
		}
		if err = request.EnsurePending(); err != nil {
			return err
		}

		// условный декремент под блокировкой строки банка
		if _, err = s.inventory.WithStore(tx).Allocate(ctx, bankID, request.BloodGroup, request.Quantity); err != nil {
			return err
		}

		if err = request.Approve(bankID); err != nil {
			return err
		}
		if err = tx.UpdateRequestStatus(ctx, request); err != nil {
			return fmt.Errorf("store.UpdateRequestStatus: %w", err)
		}

		approved = request
		return nil
	})
	if err != nil {
		logger.Warnf(ctx, "approve request %d from bank %d: %v", requestID, bankID, err)
		return nil, err
	}

	s.metrics.IncRequestTransition(string(domain.RequestStatusApproved))
	logger.Infof(ctx, "request %d approved from bank %d", requestID, bankID)

	return approved, nil
}

func (s *Service) Reject(ctx context.Context, actor domain.Actor, requestID int64) (*domain.DonationRequest, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return nil, err
	}

	var rejected *domain.DonationRequest
	err := s.store.InTx(ctx, func(tx store.Store) error {
		request, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return notFound("request", requestID, err)
		}
		if err = request.Reject(); err != nil {
			return err
		}
		if err = tx.UpdateRequestStatus(ctx, request); err != nil {
			return fmt.Errorf("store.UpdateRequestStatus: %w", err)
		}

		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncRequestTransition(string(domain.RequestStatusRejected))
	logger.Infof(ctx, "request %d rejected", requestID)

	return rejected, nil
}

// UpdateStatus dispatches the PATCH /requests/:id body.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, req *domain.UpdateRequestStatusRequest) (*domain.DonationRequest, error) {
	switch req.Status {
	case domain.RequestStatusApproved:
		return s.Approve(ctx, actor, req.ID, req.BloodBankID)
	case domain.RequestStatusRejected:
		return s.Reject(ctx, actor, req.ID)
	default:
		return nil, fmt.Errorf("status %q: %w", req.Status, constants.ErrInvalidAction)
	}
}

func (s *Service) GetRequest(ctx context.Context, id int64) (*domain.DonationRequest, error) {
	request, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return nil, notFound("request", id, err)
	}
	return request, nil
}

// ListRequests returns the civilian's own requests, or every request for
// donors and administrators.
func (s *Service) ListRequests(ctx context.Context, actor domain.Actor, status domain.RequestStatus) ([]*domain.DonationRequest, error) {
	var opts store.ListRequestsOpts
	if status != "" {
		parsed, err := domain.ParseRequestStatus(string(status))
		if err != nil {
			return nil, err
		}
		opts.Status = &parsed
	}
	if actor.Role == domain.RoleCivilian {
		opts.CivilianID = &actor.UserID
	}

	requests, err := s.store.ListRequests(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListRequests: %w", err)
	}
	return requests, nil
}

// Offer records a donor's offer for an existing request, whatever its status.
func (s *Service) Offer(ctx context.Context, actor domain.Actor, requestID int64) (*domain.DonationOffer, error) {
	if err := actor.Require(domain.RoleDonor); err != nil {
		return nil, err
	}
	if _, err := s.store.GetRequest(ctx, requestID); err != nil {
		return nil, notFound("request", requestID, err)
	}

	offer := &domain.DonationOffer{
		DonorID:   actor.UserID,
		RequestID: requestID,
		Status:    domain.OfferStatusPending,
	}
	if err := s.store.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("store.CreateOffer: %w", err)
	}

	s.metrics.IncOffersCreated()
	logger.Infof(ctx, "donor %d offered for request %d", actor.UserID, requestID)

	return offer, nil
}

func (s *Service) WithdrawOffer(ctx context.Context, actor domain.Actor, offerID int64) error {
	offer, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return notFound("offer", offerID, err)
	}
	if offer.DonorID != actor.UserID {
		return fmt.Errorf("offer %d belongs to another donor: %w", offerID, constants.ErrForbidden)
	}

	if err = s.store.DeleteOffer(ctx, offerID); err != nil {
		return notFound("offer", offerID, err)
	}

	logger.Infof(ctx, "donor %d withdrew offer %d", actor.UserID, offerID)
	return nil
}

// ListOffers returns every offer for administrators, the caller's own otherwise.
func (s *Service) ListOffers(ctx context.Context, actor domain.Actor) ([]*domain.DonationOffer, error) {
	var opts store.ListOffersOpts
	if !actor.IsAdmin() {
		opts.DonorID = &actor.UserID
	}

	offers, err := s.store.ListOffers(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListOffers: %w", err)
	}
	return offers, nil
}
