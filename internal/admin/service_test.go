package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAdminRepo struct {
	counts    map[string]int64
	deleted   []string
	deleteErr map[string]error
	orders    []models.Order
	users     []models.User
}

func (s *stubAdminRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAdminRepo) CountUsers(ctx context.Context) (int64, error)    { return s.counts["users"], nil }
func (s *stubAdminRepo) CountCrops(ctx context.Context) (int64, error)    { return s.counts["crops"], nil }
func (s *stubAdminRepo) CountDemands(ctx context.Context) (int64, error)  { return s.counts["demands"], nil }
func (s *stubAdminRepo) CountMessages(ctx context.Context) (int64, error) { return s.counts["messages"], nil }
func (s *stubAdminRepo) CountOrders(ctx context.Context) (int64, error)   { return s.counts["orders"], nil }
func (s *stubAdminRepo) CountActiveFarmers(ctx context.Context) (int64, error) {
	return s.counts["active_farmers"], nil
}
func (s *stubAdminRepo) CountActiveBuyers(ctx context.Context) (int64, error) {
	return s.counts["active_buyers"], nil
}

func (s *stubAdminRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders, nil
}

func (s *stubAdminRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users, nil
}

func (s *stubAdminRepo) deleteStep(name string) error {
	if err := s.deleteErr[name]; err != nil {
		return err
	}
	s.deleted = append(s.deleted, name)
	return nil
}

func (s *stubAdminRepo) DeleteReviewsForUser(ctx context.Context, userID int64) error {
	return s.deleteStep("reviews")
}
func (s *stubAdminRepo) DeleteMessagesForUser(ctx context.Context, userID int64) error {
	return s.deleteStep("messages")
}
func (s *stubAdminRepo) DeleteOrdersForUser(ctx context.Context, userID int64) error {
	return s.deleteStep("orders")
}
func (s *stubAdminRepo) DeleteDemandsForUser(ctx context.Context, userID int64) error {
	return s.deleteStep("demands")
}
func (s *stubAdminRepo) DeleteCropsForUser(ctx context.Context, userID int64) error {
	return s.deleteStep("crops")
}
func (s *stubAdminRepo) DeleteUser(ctx context.Context, userID int64) error {
	return s.deleteStep("user")
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	panic("not implemented")
}

func (s *stubUserRepo) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	panic("not implemented")
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) error {
	panic("not implemented")
}

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	p.calls++
	return fn(nil)
}

func TestReportAggregatesCounts(t *testing.T) {
	repo := &stubAdminRepo{counts: map[string]int64{
		"users":          10,
		"crops":          4,
		"demands":        3,
		"orders":         6,
		"messages":       12,
		"active_farmers": 2,
		"active_buyers":  5,
	}}
	svc, err := NewService(repo, &stubUserRepo{}, &passthroughTx{}, nil)
	require.NoError(t, err)

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(10), report.TotalUsers)
	require.Equal(t, int64(4), report.TotalCrops)
	require.Equal(t, int64(3), report.TotalDemands)
	require.Equal(t, int64(6), report.TotalOrders)
	require.Equal(t, int64(12), report.TotalMessages)
	require.Equal(t, int64(2), report.ActiveFarmers)
	require.Equal(t, int64(5), report.ActiveBuyers)
}

func TestDeleteUserCascadesChildFirst(t *testing.T) {
	repo := &stubAdminRepo{}
	tx := &passthroughTx{}
	svc, err := NewService(repo, &stubUserRepo{user: &models.User{ID: 3, Role: enums.UserRoleFarmer}}, tx, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), 3))
	require.Equal(t, 1, tx.calls)
	require.Equal(t, []string{"reviews", "messages", "orders", "demands", "crops", "user"}, repo.deleted)
}

func TestDeleteUserUnknown(t *testing.T) {
	repo := &stubAdminRepo{}
	svc, err := NewService(repo, &stubUserRepo{}, &passthroughTx{}, nil)
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), 404)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Empty(t, repo.deleted)
}

func TestDeleteUserStopsOnFailure(t *testing.T) {
	repo := &stubAdminRepo{deleteErr: map[string]error{"orders": errors.New("deadlock")}}
	svc, err := NewService(repo, &stubUserRepo{user: &models.User{ID: 3}}, &passthroughTx{}, nil)
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), 3)
	require.Error(t, err)
	require.NotContains(t, repo.deleted, "user", "user row must not be deleted when a child step fails")
}
