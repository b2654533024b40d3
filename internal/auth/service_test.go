package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/mailer"
	"github.com/agrilinkmw/agrilink-backend/pkg/security"
	"github.com/stretchr/testify/require"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail     map[string]*models.User
	byID        map[int64]*models.User
	created     *models.User
	updatedHash string
	updatedID   int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[int64]*models.User),
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = int64(len(s.byID) + 1)
	s.created = user
	s.add(user)
	return user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	s.updatedID = id
	s.updatedHash = hash
	return nil
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) error {
	panic("not implemented")
}

type stubSessions struct {
	created []string
	revoked []string
}

func (s *stubSessions) Create(ctx context.Context, accessID string) error {
	s.created = append(s.created, accessID)
	return nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type stubResets struct {
	values map[string]string
}

func newStubResets() *stubResets {
	return &stubResets{values: make(map[string]string)}
}

func (s *stubResets) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubResets) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", redislib.Nil
}

func (s *stubResets) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubResets) PasswordResetKey(token string) string {
	return "reset:" + token
}

type recordingMailer struct {
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig, config.AppConfig) {
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "agrilink-test",
		ExpirationMinutes: 15,
		SessionTTLMinutes: 60,
	}
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		ResetTokenTTL:    time.Hour,
	}
	appCfg := config.AppConfig{BaseURL: "http://localhost:8080"}
	return jwtCfg, pwCfg, appCfg
}

func newAuthService(t *testing.T, repo *stubUserRepo) (Service, *stubSessions, *stubResets, *recordingMailer) {
	t.Helper()
	jwtCfg, pwCfg, appCfg := testConfigs()
	sessions := &stubSessions{}
	resets := newStubResets()
	mail := &recordingMailer{}
	svc, err := NewService(repo, sessions, resets, mail, nil, jwtCfg, pwCfg, appCfg)
	require.NoError(t, err)
	return svc, sessions, resets, mail
}

func strPtr(s string) *string { return &s }

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _, _ := newAuthService(t, newStubUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "supersecret",
		Role:     "admin",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRegisterFarmerRequiresBankDetails(t *testing.T) {
	svc, _, _, _ := newAuthService(t, newStubUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Phiri",
		Email:    "phiri@example.com",
		Password: "supersecret",
		Role:     "farmer",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _, _ := newAuthService(t, repo)

	profile, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Banda",
		Email:    "  Banda@Example.COM ",
		Password: "supersecret",
		Role:     "buyer",
	})
	require.NoError(t, err)
	require.Equal(t, "banda@example.com", profile.Email)
	require.Equal(t, enums.UserRoleBuyer, repo.created.Role)
	require.NotEqual(t, "supersecret", repo.created.PasswordHash, "password must be stored hashed")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(&models.User{ID: 1, Email: "banda@example.com"})
	svc, _, _, _ := newAuthService(t, repo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Banda",
		Email:    "banda@example.com",
		Password: "supersecret",
		Role:     "buyer",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestLoginCreatesSession(t *testing.T) {
	_, pwCfg, _ := testConfigs()
	hash, err := security.HashPassword("supersecret", pwCfg)
	require.NoError(t, err)

	repo := newStubUserRepo()
	repo.add(&models.User{ID: 1, Name: "Banda", Email: "banda@example.com", PasswordHash: hash, Role: enums.UserRoleBuyer})
	svc, sessions, _, _ := newAuthService(t, repo)

	result, err := svc.Login(context.Background(), LoginInput{Email: "Banda@Example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Equal(t, enums.UserRoleBuyer, result.Role)
	require.Len(t, sessions.created, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	_, pwCfg, _ := testConfigs()
	hash, err := security.HashPassword("supersecret", pwCfg)
	require.NoError(t, err)

	repo := newStubUserRepo()
	repo.add(&models.User{ID: 1, Email: "banda@example.com", PasswordHash: hash})
	svc, sessions, _, _ := newAuthService(t, repo)

	_, err = svc.Login(context.Background(), LoginInput{Email: "banda@example.com", Password: "wrong"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	require.Empty(t, sessions.created)
}

func TestLoginUnknownEmailIsIndistinguishable(t *testing.T) {
	svc, _, _, _ := newAuthService(t, newStubUserRepo())

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	require.Equal(t, "invalid credentials", typed.Message())
}

func TestPasswordResetFlow(t *testing.T) {
	_, pwCfg, _ := testConfigs()
	hash, err := security.HashPassword("oldpassword", pwCfg)
	require.NoError(t, err)

	repo := newStubUserRepo()
	repo.add(&models.User{ID: 1, Name: "Banda", Email: "banda@example.com", PasswordHash: hash})
	svc, _, resets, mail := newAuthService(t, repo)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), RequestPasswordResetInput{Email: "banda@example.com"}))
	require.Len(t, mail.sent, 1)
	require.Contains(t, mail.sent[0].Body, "/reset-password?token=")

	// Pull the token out of the stored key rather than the mail body.
	require.Len(t, resets.values, 1)
	var token string
	for key := range resets.values {
		token = strings.TrimPrefix(key, "reset:")
	}
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), ResetPasswordInput{Token: token, NewPassword: "newpassword"}))
	require.Equal(t, int64(1), repo.updatedID)
	require.NotEmpty(t, repo.updatedHash)
	require.Empty(t, resets.values, "redeemed token must be deleted")

	// The token is single use.
	err = svc.ResetPassword(context.Background(), ResetPasswordInput{Token: token, NewPassword: "another"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRequestPasswordResetSilentForUnknownEmail(t *testing.T) {
	svc, _, resets, mail := newAuthService(t, newStubUserRepo())

	require.NoError(t, svc.RequestPasswordReset(context.Background(), RequestPasswordResetInput{Email: "ghost@example.com"}))
	require.Empty(t, mail.sent)
	require.Empty(t, resets.values)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions, _, _ := newAuthService(t, newStubUserRepo())

	require.NoError(t, svc.Logout(context.Background(), "jti-123"))
	require.Equal(t, []string{"jti-123"}, sessions.revoked)

	err := svc.Logout(context.Background(), "  ")
	require.Error(t, err)
}

func TestRegisterFarmerWithBankDetails(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _, _ := newAuthService(t, repo)

	profile, err := svc.Register(context.Background(), RegisterInput{
		Name:              "Phiri",
		Email:             "phiri@example.com",
		Password:          "supersecret",
		Role:              "farmer",
		BankName:          strPtr("National Bank"),
		BankAccountNumber: strPtr("000123456"),
	})
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleFarmer, repo.created.Role)
	require.NotNil(t, profile)
}
