package domain

import (
	"fmt"
	"time"

	"github.com/ougirez/bloodbank/internal/pkg/constants"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleDonor    Role = "Donor"
	RoleCivilian Role = "Civilian"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDonor || r == RoleCivilian
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Require fails with ErrForbidden unless the actor has one of the roles.
func (a Actor) Require(roles ...Role) error {
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q: %w", a.Role, constants.ErrForbidden)
}

type UserPassword struct {
	Hash string `db:"password_hash" json:"-"`
}

func (p *UserPassword) Init(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}
	p.Hash = string(hash)
	return nil
}

func (p *UserPassword) Validate(password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(password)); err != nil {
		return constants.ErrInvalidCredentials
	}
	return nil
}

type User struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	IsAdmin   bool   `db:"is_admin" json:"-"`
	UserPassword
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Actor resolves the caller identity; administrators have no profile.
func (u *User) Actor(profile *Profile) Actor {
	if u.IsAdmin {
		return Actor{UserID: u.ID, Role: RoleAdmin}
	}
	if profile == nil {
		return Actor{UserID: u.ID}
	}
	return Actor{UserID: u.ID, Role: profile.Role}
}

type Profile struct {
	ID           int64      `db:"id" json:"id"`
	UserID       int64      `db:"user_id" json:"user_id"`
	Role         Role       `db:"user_type" json:"user_type"`
	Phone        string     `db:"phone" json:"phone"`
	Address      string     `db:"address" json:"address"`
	BloodGroup   BloodGroup `db:"blood_group" json:"blood_group"`
	Availability bool       `db:"availability" json:"availability"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type ExtendedProfile struct {
	Profile
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// ProfilePatch holds the self-service editable fields; nil means unchanged.
type ProfilePatch struct {
	Phone        *string
	Address      *string
	BloodGroup   *BloodGroup
	Availability *bool
}

func (p ProfilePatch) Apply(profile *Profile) error {
	if p.BloodGroup != nil {
		if !p.BloodGroup.Valid() {
			return fmt.Errorf("%q: %w", *p.BloodGroup, constants.ErrInvalidGroup)
		}
		profile.BloodGroup = *p.BloodGroup
	}
	if p.Phone != nil {
		profile.Phone = *p.Phone
	}
	if p.Address != nil {
		profile.Address = *p.Address
	}
	if p.Availability != nil {
		profile.Availability = *p.Availability
	}
	return nil
}

// Me is what GET /profile returns: the profile fields plus the role used
// by the frontend for routing.
type Me struct {
	*ExtendedProfile
	Role Role `json:"role"`
}
