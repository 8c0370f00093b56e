package domain

import "time"

type ErrorResponse struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

type SignupUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type SignupDonorRequest struct {
	SignupUserRequest
	BloodGroup BloodGroup `json:"blood_group" validate:"required,blood_group"`
}

type SignupUserResponse struct {
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}

type LoginUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginUserResponse struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      Role      `json:"role"`
}

type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type UpdateProfileRequest struct {
	Phone        *string     `json:"phone" validate:"omitempty,max=20"`
	Address      *string     `json:"address" validate:"omitempty,max=255"`
	BloodGroup   *BloodGroup `json:"blood_group" validate:"omitempty,blood_group"`
	Availability *bool       `json:"availability"`
}

func (r UpdateProfileRequest) Patch() ProfilePatch {
	return ProfilePatch{
		Phone:        r.Phone,
		Address:      r.Address,
		BloodGroup:   r.BloodGroup,
		Availability: r.Availability,
	}
}

type ListProfilesRequest struct {
	UserType Role `query:"user_type"`
}

type SearchDonorsRequest struct {
	BloodGroup string `query:"blood_group"`
	Available  string `query:"available"`
}

type CreateBloodBankRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Location string `json:"location" validate:"required,max=200"`
	Stock    Stock  `json:"available_blood"`
}

const (
	StockActionAdd      = "add"
	StockActionAllocate = "allocate"
)

type UpdateStockRequest struct {
	ID         int64      `param:"id"`
	BloodGroup BloodGroup `json:"blood_group" validate:"required"`
	Quantity   Quantity   `json:"quantity"`
	Action     string     `json:"action" validate:"required,oneof=add allocate"`
}

type UpdateStockResponse struct {
	*BloodBank
	BloodGroup BloodGroup `json:"blood_group"`
	Action     string     `json:"action"`
	Quantity   int        `json:"quantity"`
}

type CreateDonationRequestRequest struct {
	BloodGroup BloodGroup `json:"blood_group" validate:"required"`
	Quantity   Quantity   `json:"quantity"`
	Address    string     `json:"address" validate:"required,max=255"`
}

type ListRequestsRequest struct {
	Status RequestStatus `query:"status"`
}

type UpdateRequestStatusRequest struct {
	ID          int64         `param:"id"`
	Status      RequestStatus `json:"status" validate:"required"`
	BloodBankID int64         `json:"blood_bank"`
}

type CreateOfferRequest struct {
	RequestID int64 `json:"request" validate:"required"`
}
