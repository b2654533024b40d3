package users

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes profile operations for authenticated users.
type Service interface {
	GetOwnProfile(ctx context.Context, userID int64) (*OwnProfile, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateOwnProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*OwnProfile, error)
}

type service struct {
	repo Repository
}

// NewService builds a users service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetOwnProfile(ctx context.Context, userID int64) (*OwnProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	profile := ToOwnProfile(user)
	return &profile, nil
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	profile := ToProfile(user)
	return &profile, nil
}

func (s *service) UpdateOwnProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*OwnProfile, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if input.ProfilePic != nil {
		updates["profile_pic"] = *input.ProfilePic
	}
	if input.BankName != nil {
		updates["bank_name"] = *input.BankName
	}
	if input.BankAccountNumber != nil {
		updates["bank_account_number"] = *input.BankAccountNumber
	}
	if len(updates) == 0 {
		return s.GetOwnProfile(ctx, userID)
	}

	if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return s.GetOwnProfile(ctx, userID)
}
