package demands

import (
	"context"
	"testing"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubDemandsRepo struct {
	demand  *models.Demand
	created *models.Demand
	updates map[string]any
	deleted []int64
}

func (s *stubDemandsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubDemandsRepo) Create(ctx context.Context, demand *models.Demand) (*models.Demand, error) {
	demand.ID = 11
	s.created = demand
	return demand, nil
}

func (s *stubDemandsRepo) FindByID(ctx context.Context, id int64) (*models.Demand, error) {
	if s.demand != nil && s.demand.ID == id {
		return s.demand, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDemandsRepo) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	panic("not implemented")
}

func (s *stubDemandsRepo) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Demand, error) {
	if s.demand != nil && s.demand.BuyerID == buyerID {
		return []models.Demand{*s.demand}, nil
	}
	return nil, nil
}

func (s *stubDemandsRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	s.updates = updates
	if s.demand != nil && s.demand.ID == id {
		if name, ok := updates["crop_name"].(string); ok {
			s.demand.CropName = name
		}
	}
	return nil
}

func (s *stubDemandsRepo) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func testDemand() *models.Demand {
	return &models.Demand{ID: 11, BuyerID: 1, CropName: "Groundnuts", Quantity: "20 bags"}
}

func TestCreateTrimsFields(t *testing.T) {
	repo := &stubDemandsRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	demand, err := svc.Create(context.Background(), 1, CreateInput{
		CropName: "  Groundnuts ",
		Quantity: " 20 bags ",
	})
	require.NoError(t, err)
	require.Equal(t, "Groundnuts", demand.CropName)
	require.Equal(t, "20 bags", demand.Quantity)
	require.Equal(t, int64(1), repo.created.BuyerID)
}

func TestUpdateOwnerOnly(t *testing.T) {
	repo := &stubDemandsRepo{demand: testDemand()}
	svc, err := NewService(repo)
	require.NoError(t, err)

	name := "Soya"
	_, err = svc.Update(context.Background(), 99, 11, UpdateInput{CropName: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	require.Nil(t, repo.updates)

	updated, err := svc.Update(context.Background(), 1, 11, UpdateInput{CropName: &name})
	require.NoError(t, err)
	require.Equal(t, "Soya", updated.CropName)
	require.Equal(t, "Soya", repo.updates["crop_name"])
}

func TestDeleteOwnerOnly(t *testing.T) {
	repo := &stubDemandsRepo{demand: testDemand()}
	svc, err := NewService(repo)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), 99, 11)
	require.Error(t, err)
	require.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), 1, 11))
	require.Equal(t, []int64{11}, repo.deleted)
}

func TestGetUnknownDemand(t *testing.T) {
	svc, err := NewService(&stubDemandsRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), 404)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListOwnReturnsBuyersDemands(t *testing.T) {
	repo := &stubDemandsRepo{demand: testDemand()}
	svc, err := NewService(repo)
	require.NoError(t, err)

	rows, err := svc.ListOwn(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Groundnuts", rows[0].CropName)

	rows, err = svc.ListOwn(context.Background(), 2)
	require.NoError(t, err)
	require.Empty(t, rows)
}
