package users

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
)

// Profile is the public projection of a user account. The password hash and
// payout details never leave the service through this type.
type Profile struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	ProfilePic  *string        `json:"profile_pic,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// PayoutDetails is visible to the account owner only.
type PayoutDetails struct {
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
}

// OwnProfile extends Profile with owner-only fields.
type OwnProfile struct {
	Profile
	Payout PayoutDetails `json:"payout"`
}

// UpdateProfileInput carries the editable profile fields. Password changes
// go through the reset flow, not here.
type UpdateProfileInput struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email             *string `json:"email" validate:"omitempty,email,max=160"`
	PhoneNumber       *string `json:"phone_number" validate:"omitempty,max=32"`
	ProfilePic        *string `json:"profile_pic" validate:"omitempty,max=255"`
	BankName          *string `json:"bank_name" validate:"omitempty,max=120"`
	BankAccountNumber *string `json:"bank_account_number" validate:"omitempty,max=64"`
}

// ToProfile maps a model row into its public projection.
func ToProfile(user *models.User) Profile {
	return Profile{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		ProfilePic:  user.ProfilePic,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
	}
}

// ToOwnProfile maps a model row into the owner-visible projection.
func ToOwnProfile(user *models.User) OwnProfile {
	return OwnProfile{
		Profile: ToProfile(user),
		Payout: PayoutDetails{
			BankName:          user.BankName,
			BankAccountNumber: user.BankAccountNumber,
		},
	}
}
