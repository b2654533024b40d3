package auth

import (
	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
)

// RegisterInput carries the signup form fields. Role is restricted to the two
// self-service roles; admin accounts are seeded out of band.
type RegisterInput struct {
	Name              string  `json:"name" validate:"required,min=1,max=120"`
	Email             string  `json:"email" validate:"required,email,max=255"`
	Password          string  `json:"password" validate:"required,min=8,max=128"`
	Role              string  `json:"role" validate:"required,oneof=farmer buyer"`
	PhoneNumber       *string `json:"phone_number" validate:"omitempty,max=32"`
	BankName          *string `json:"bank_name" validate:"omitempty,max=120"`
	BankAccountNumber *string `json:"bank_account_number" validate:"omitempty,max=64"`
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult returns the bearer token plus the authenticated profile.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	Profile     users.Profile  `json:"profile"`
	Role        enums.UserRole `json:"role"`
}

// RequestPasswordResetInput identifies the account to reset.
type RequestPasswordResetInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput redeems a reset token for a new password.
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}
