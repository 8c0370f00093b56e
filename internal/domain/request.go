package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ougirez/bloodbank/internal/pkg/constants"
)

type BloodBank struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	Stock     Stock     `db:"stock" json:"available_blood"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type RequestStatus string

// Pending -> Approved | Rejected, both terminal.
const (
	RequestStatusPending  RequestStatus = "Pending"
	RequestStatusApproved RequestStatus = "Approved"
	RequestStatusRejected RequestStatus = "Rejected"
)

// ParseRequestStatus accepts any letter case, e.g. "pending".
func ParseRequestStatus(s string) (RequestStatus, error) {
	for _, known := range []RequestStatus{RequestStatusPending, RequestStatusApproved, RequestStatusRejected} {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("status %q: %w", s, constants.ErrBadRequest)
}

func (s RequestStatus) Valid() bool {
	return s == RequestStatusPending || s == RequestStatusApproved || s == RequestStatusRejected
}

type DonationRequest struct {
	ID          int64         `db:"id" json:"id"`
	CivilianID  int64         `db:"civilian_id" json:"civilian_id"`
	BloodGroup  BloodGroup    `db:"blood_group" json:"blood_group"`
	Quantity    int           `db:"quantity" json:"quantity"`
	Address     string        `db:"address" json:"address"`
	Status      RequestStatus `db:"status" json:"status"`
	BloodBankID *int64        `db:"blood_bank_id" json:"blood_bank"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// EnsurePending fails with ErrInvalidState once the request has left Pending.
func (r *DonationRequest) EnsurePending() error {
	if r.Status != RequestStatusPending {
		return fmt.Errorf("request %d is %s: %w", r.ID, r.Status, constants.ErrInvalidState)
	}
	return nil
}

// Approve records the fulfilling bank. Stock must already be allocated.
func (r *DonationRequest) Approve(bankID int64) error {
	if err := r.EnsurePending(); err != nil {
		return err
	}
	r.Status = RequestStatusApproved
	r.BloodBankID = &bankID
	return nil
}

func (r *DonationRequest) Reject() error {
	if err := r.EnsurePending(); err != nil {
		return err
	}
	r.Status = RequestStatusRejected
	return nil
}

type OfferStatus string

// Only Pending is ever reached; Approved/Rejected are kept for the stored enum.
const (
	OfferStatusPending  OfferStatus = "Pending"
	OfferStatusApproved OfferStatus = "Approved"
	OfferStatusRejected OfferStatus = "Rejected"
)

type DonationOffer struct {
	ID        int64       `db:"id" json:"id"`
	DonorID   int64       `db:"donor_id" json:"donor_id"`
	RequestID int64       `db:"request_id" json:"request"`
	Status    OfferStatus `db:"status" json:"status"`
	CreatedAt time.Time   `db:"created_at" json:"offered_at"`
}

type Stats struct {
	DonorCount    int   `json:"total_donors"`
	CivilianCount int   `json:"total_civilians"`
	RequestCount  int   `json:"total_requests"`
	StockByGroup  Stock `json:"available_blood_units"`
}
