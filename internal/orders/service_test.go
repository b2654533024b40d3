package orders

import (
	"context"
	"testing"

	"github.com/agrilinkmw/agrilink-backend/internal/crops"
	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/mailer"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrdersRepo struct {
	created       *models.Order
	order         *models.Order
	updatedStatus enums.OrderStatus
	updatedID     int64
	buyerOrders   []models.Order
	farmerOrders  []models.Order
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = 42
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) UpdateOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	s.updatedID = id
	s.updatedStatus = status
	return nil
}

func (s *stubOrdersRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Order, error) {
	return s.buyerOrders, nil
}

func (s *stubOrdersRepo) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Order, error) {
	return s.farmerOrders, nil
}

type stubCropsRepo struct {
	crop *models.Crop
}

func (s *stubCropsRepo) WithTx(tx *gorm.DB) crops.Repository { return s }

func (s *stubCropsRepo) Create(ctx context.Context, crop *models.Crop) (*models.Crop, error) {
	panic("not implemented")
}

func (s *stubCropsRepo) FindByID(ctx context.Context, id int64) (*models.Crop, error) {
	if s.crop == nil || s.crop.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.crop, nil
}

func (s *stubCropsRepo) List(ctx context.Context, params pagination.Params, filters crops.Filters) (*crops.List, error) {
	panic("not implemented")
}

func (s *stubCropsRepo) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Crop, error) {
	panic("not implemented")
}

func (s *stubCropsRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubCropsRepo) Delete(ctx context.Context, id int64) error {
	panic("not implemented")
}

type stubUsersRepo struct {
	user *models.User
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubUsersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	panic("not implemented")
}

func (s *stubUsersRepo) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	panic("not implemented")
}

func (s *stubUsersRepo) Delete(ctx context.Context, id int64) error {
	panic("not implemented")
}

type recordingMailer struct {
	sent []mailer.Message
}

func (m *recordingMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func testPayConfig() config.PayChanguConfig {
	return config.PayChanguConfig{
		PublicKey:   "pub-test",
		Currency:    "MWK",
		TxRefPrefix: "agri",
		DeliveryFee: "5000",
		FailureMode: config.PaymentFailureIgnore,
	}
}

func newTestService(t *testing.T, repo *stubOrdersRepo, cropRepo *stubCropsRepo, userRepo *stubUsersRepo) (Service, *recordingMailer) {
	t.Helper()
	builder, err := paychangu.NewPayloadBuilder(testPayConfig(), config.AppConfig{BaseURL: "http://localhost:8080"})
	require.NoError(t, err)
	mail := &recordingMailer{}
	svc, err := NewService(repo, cropRepo, userRepo, builder, mail, nil, nil, testPayConfig())
	require.NoError(t, err)
	return svc, mail
}

func testCrop() *models.Crop {
	return &models.Crop{
		ID:       7,
		FarmerID: 2,
		CropName: "Maize",
		Price:    decimal.NewFromInt(150),
	}
}

func TestPurchasePickupTotal(t *testing.T) {
	repo := &stubOrdersRepo{}
	cropRepo := &stubCropsRepo{crop: testCrop()}
	userRepo := &stubUsersRepo{user: &models.User{ID: 1, Name: "Banda", Email: "banda@example.com"}}
	svc, _ := newTestService(t, repo, cropRepo, userRepo)

	result, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		CropID:         7,
		Quantity:       "10",
		DeliveryOption: "pickup",
		PaymentNumber:  "0999123456",
	})
	require.NoError(t, err)
	require.True(t, result.Order.TotalPrice.Equal(decimal.NewFromInt(1500)), "got %s", result.Order.TotalPrice)
	require.Equal(t, enums.OrderStatusPending, result.Order.OrderStatus)
	require.Equal(t, "agri_order_42", result.Checkout.TxRef)
	require.Equal(t, "1500.00", result.Checkout.Amount)
}

func TestPurchaseDeliveryAddsFee(t *testing.T) {
	repo := &stubOrdersRepo{}
	cropRepo := &stubCropsRepo{crop: testCrop()}
	userRepo := &stubUsersRepo{user: &models.User{ID: 1, Name: "Banda", Email: "banda@example.com"}}
	svc, _ := newTestService(t, repo, cropRepo, userRepo)

	result, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		CropID:         7,
		Quantity:       "10",
		DeliveryOption: "delivery",
		PaymentNumber:  "0999123456",
	})
	require.NoError(t, err)
	require.True(t, result.Order.TotalPrice.Equal(decimal.NewFromInt(6500)), "got %s", result.Order.TotalPrice)
}

func TestPurchaseRejectsOwnListing(t *testing.T) {
	repo := &stubOrdersRepo{}
	cropRepo := &stubCropsRepo{crop: testCrop()}
	userRepo := &stubUsersRepo{}
	svc, _ := newTestService(t, repo, cropRepo, userRepo)

	_, err := svc.Purchase(context.Background(), 2, PurchaseInput{
		CropID:         7,
		Quantity:       "1",
		DeliveryOption: "pickup",
		PaymentNumber:  "0999123456",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	require.Nil(t, repo.created)
}

func TestPurchaseRejectsBadQuantity(t *testing.T) {
	repo := &stubOrdersRepo{}
	cropRepo := &stubCropsRepo{crop: testCrop()}
	userRepo := &stubUsersRepo{}
	svc, _ := newTestService(t, repo, cropRepo, userRepo)

	for _, quantity := range []string{"0", "-3", "abc", ""} {
		_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
			CropID:         7,
			Quantity:       quantity,
			DeliveryOption: "pickup",
			PaymentNumber:  "0999123456",
		})
		require.Error(t, err, "quantity %q", quantity)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
	require.Nil(t, repo.created)
}

func TestPurchaseUnknownCrop(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc, _ := newTestService(t, repo, &stubCropsRepo{}, &stubUsersRepo{})

	_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		CropID:         99,
		Quantity:       "1",
		DeliveryOption: "pickup",
		PaymentNumber:  "0999123456",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSetFulfillmentStatusNotifiesBuyer(t *testing.T) {
	crop := testCrop()
	buyer := &models.User{ID: 1, Name: "Banda", Email: "banda@example.com"}
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          42,
		BuyerID:     1,
		CropID:      crop.ID,
		Crop:        crop,
		Buyer:       buyer,
		OrderStatus: enums.OrderStatusPaid,
	}}
	svc, mail := newTestService(t, repo, &stubCropsRepo{crop: crop}, &stubUsersRepo{user: buyer})

	order, err := svc.SetFulfillmentStatus(context.Background(), 2, 42, "shipped")
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusShipped, order.OrderStatus)
	require.Equal(t, enums.OrderStatusShipped, repo.updatedStatus)
	require.Len(t, mail.sent, 1)
	require.Equal(t, "banda@example.com", mail.sent[0].ToAddress)
}

func TestSetFulfillmentStatusForeignFarmer(t *testing.T) {
	crop := testCrop()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          42,
		BuyerID:     1,
		CropID:      crop.ID,
		Crop:        crop,
		OrderStatus: enums.OrderStatusPaid,
	}}
	svc, _ := newTestService(t, repo, &stubCropsRepo{crop: crop}, &stubUsersRepo{})

	_, err := svc.SetFulfillmentStatus(context.Background(), 99, 42, "shipped")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	require.Zero(t, repo.updatedID, "status must not change for a foreign farmer")
}

func TestSetFulfillmentStatusRejectsPaymentStates(t *testing.T) {
	crop := testCrop()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:          42,
		BuyerID:     1,
		Crop:        crop,
		OrderStatus: enums.OrderStatusPaid,
	}}
	svc, _ := newTestService(t, repo, &stubCropsRepo{crop: crop}, &stubUsersRepo{})

	for _, status := range []string{"paid", "pending", "failed", "bogus"} {
		_, err := svc.SetFulfillmentStatus(context.Background(), 2, 42, status)
		require.Error(t, err, "status %q", status)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestGetVisibility(t *testing.T) {
	crop := testCrop()
	repo := &stubOrdersRepo{order: &models.Order{
		ID:      42,
		BuyerID: 1,
		Crop:    crop,
	}}
	svc, _ := newTestService(t, repo, &stubCropsRepo{crop: crop}, &stubUsersRepo{})

	_, err := svc.Get(context.Background(), 1, enums.UserRoleBuyer, 42)
	require.NoError(t, err, "buyer can see own order")

	_, err = svc.Get(context.Background(), 2, enums.UserRoleFarmer, 42)
	require.NoError(t, err, "farmer can see sale")

	_, err = svc.Get(context.Background(), 77, enums.UserRoleAdmin, 42)
	require.NoError(t, err, "admin can see any order")

	_, err = svc.Get(context.Background(), 77, enums.UserRoleBuyer, 42)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}
