package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agrilinkmw/agrilink-backend/internal/users"
	pkgauth "github.com/agrilinkmw/agrilink-backend/pkg/auth"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/agrilinkmw/agrilink-backend/pkg/mailer"
	"github.com/agrilinkmw/agrilink-backend/pkg/security"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type sessionManager interface {
	Create(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

type resetTokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PasswordResetKey(token string) string
}

// Service exposes the account lifecycle: signup, login, logout, password reset.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*users.Profile, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
	RequestPasswordReset(ctx context.Context, input RequestPasswordResetInput) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type service struct {
	repo     users.Repository
	sessions sessionManager
	resets   resetTokenStore
	mail     mailer.Mailer
	logg     *logger.Logger
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	baseURL  string
}

// NewService builds the auth service with the required dependencies.
func NewService(
	repo users.Repository,
	sessions sessionManager,
	resets resetTokenStore,
	mail mailer.Mailer,
	logg *logger.Logger,
	jwtCfg config.JWTConfig,
	pwCfg config.PasswordConfig,
	appCfg config.AppConfig,
) (Service, error) {
	if repo == nil {
		return nil, errors.New("users repository required")
	}
	if sessions == nil {
		return nil, errors.New("session manager required")
	}
	if resets == nil {
		return nil, errors.New("reset token store required")
	}
	if mail == nil {
		return nil, errors.New("mailer required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		resets:   resets,
		mail:     mail,
		logg:     logg,
		jwtCfg:   jwtCfg,
		pwCfg:    pwCfg,
		baseURL:  strings.TrimRight(appCfg.BaseURL, "/"),
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*users.Profile, error) {
	role, err := enums.ParseUserRole(input.Role)
	if err != nil || role == enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be farmer or buyer")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Farmers receive payouts, so their bank details are mandatory at signup.
	if role == enums.UserRoleFarmer {
		if input.BankName == nil || strings.TrimSpace(*input.BankName) == "" ||
			input.BankAccountNumber == nil || strings.TrimSpace(*input.BankAccountNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmers must provide bank name and account number")
		}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing email")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		PhoneNumber:       input.PhoneNumber,
		BankName:          input.BankName,
		BankAccountNumber: input.BankAccountNumber,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	profile := users.ToProfile(created)
	return &profile, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	jti := uuid.NewString()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	if err := s.sessions.Create(ctx, jti); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	return &LoginResult{
		AccessToken: token,
		Profile:     users.ToProfile(user),
		Role:        user.Role,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) RequestPasswordReset(ctx context.Context, input RequestPasswordResetInput) error {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the address exists.
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	token, err := security.GenerateResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	key := s.resets.PasswordResetKey(token)
	if err := s.resets.Set(ctx, key, strconv.FormatInt(user.ID, 10), s.pwCfg.ResetTokenTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store reset token")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	msg := mailer.Message{
		ToName:    user.Name,
		ToAddress: user.Email,
		Subject:   "Reset your AgriLink password",
		Body:      fmt.Sprintf("Hello %s,\n\nUse the link below to reset your password. It expires in %s.\n\n%s\n", user.Name, s.pwCfg.ResetTokenTTL, link),
	}
	if err := s.mail.Send(ctx, msg); err != nil && s.logg != nil {
		// Reset state is already stored; a mail failure should not leak to the caller.
		s.logg.Error(ctx, "password reset mail failed", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	key := s.resets.PasswordResetKey(strings.TrimSpace(input.Token))

	raw, err := s.resets.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reset token")
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
	}

	hash, err := security.HashPassword(input.NewPassword, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}

	if err := s.resets.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"user_id": userID}), "failed to delete redeemed reset token")
	}
	return nil
}
