package crops

import (
	"context"
	"testing"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCropsRepo struct {
	crop    *models.Crop
	created *models.Crop
	updates map[string]any
	deleted []int64
}

func (s *stubCropsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCropsRepo) Create(ctx context.Context, crop *models.Crop) (*models.Crop, error) {
	crop.ID = 7
	s.created = crop
	return crop, nil
}

func (s *stubCropsRepo) FindByID(ctx context.Context, id int64) (*models.Crop, error) {
	if s.crop == nil || s.crop.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.crop, nil
}

func (s *stubCropsRepo) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	panic("not implemented")
}

func (s *stubCropsRepo) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Crop, error) {
	panic("not implemented")
}

func (s *stubCropsRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubCropsRepo) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestCreateParsesPrice(t *testing.T) {
	repo := &stubCropsRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	crop, err := svc.Create(context.Background(), 2, CreateInput{
		CropName: "Maize",
		Quantity: "50 bags",
		Price:    "150.50",
	})
	require.NoError(t, err)
	require.True(t, crop.Price.Equal(decimal.RequireFromString("150.50")))
	require.Equal(t, int64(2), repo.created.FarmerID)
}

func TestCreateRejectsBadPrice(t *testing.T) {
	svc, err := NewService(&stubCropsRepo{})
	require.NoError(t, err)

	for _, price := range []string{"0", "-10", "free", ""} {
		_, err := svc.Create(context.Background(), 2, CreateInput{CropName: "Maize", Price: price})
		require.Error(t, err, "price %q", price)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestUpdateOwnerOnly(t *testing.T) {
	repo := &stubCropsRepo{crop: &models.Crop{ID: 7, FarmerID: 2, CropName: "Maize", Price: decimal.NewFromInt(150)}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	name := "Rice"
	_, err = svc.Update(context.Background(), 99, 7, UpdateInput{CropName: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	require.Nil(t, repo.updates)

	_, err = svc.Update(context.Background(), 2, 7, UpdateInput{CropName: &name})
	require.NoError(t, err)
	require.Equal(t, "Rice", repo.updates["crop_name"])
}

func TestDeleteOwnerOnly(t *testing.T) {
	repo := &stubCropsRepo{crop: &models.Crop{ID: 7, FarmerID: 2}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 99, 7)
	require.Error(t, err)
	require.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), 2, 7))
	require.Equal(t, []int64{7}, repo.deleted)
}

func TestGetUnknownCrop(t *testing.T) {
	svc, err := NewService(&stubCropsRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 404)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
