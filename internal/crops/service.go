package crops

import (
	"context"
	"errors"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes crop listing operations with owner-only mutation rights.
type Service interface {
	Create(ctx context.Context, farmerID int64, input CreateInput) (*Crop, error)
	Get(ctx context.Context, id int64) (*Crop, error)
	Browse(ctx context.Context, params pagination.Params, filters Filters) (*Page, error)
	ListOwn(ctx context.Context, farmerID int64) ([]Crop, error)
	Update(ctx context.Context, actorID, cropID int64, input UpdateInput) (*Crop, error)
	Delete(ctx context.Context, actorID, cropID int64) error
}

type service struct {
	repo Repository
}

// NewService builds a crops service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("crops repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, farmerID int64, input CreateInput) (*Crop, error) {
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	crop := &models.Crop{
		FarmerID:    farmerID,
		CropName:    strings.TrimSpace(input.CropName),
		Quantity:    strings.TrimSpace(input.Quantity),
		Price:       price,
		Quality:     input.Quality,
		CropGrade:   input.CropGrade,
		HarvestDate: input.HarvestDate,
		Location:    input.Location,
		Image:       input.Image,
	}

	created, err := s.repo.Create(ctx, crop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create crop")
	}

	out := ToCrop(created)
	return &out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Crop, error) {
	crop, err := s.loadCrop(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToCrop(crop)
	return &out, nil
}

func (s *service) Browse(ctx context.Context, params pagination.Params, filters Filters) (*Page, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list crops")
	}

	page := &Page{Items: make([]Crop, 0, len(list.Items)), NextCursor: list.NextCursor}
	for i := range list.Items {
		page.Items = append(page.Items, ToCrop(&list.Items[i]))
	}
	return page, nil
}

func (s *service) ListOwn(ctx context.Context, farmerID int64) ([]Crop, error) {
	rows, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own crops")
	}
	out := make([]Crop, 0, len(rows))
	for i := range rows {
		out = append(out, ToCrop(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, actorID, cropID int64, input UpdateInput) (*Crop, error) {
	crop, err := s.loadCrop(ctx, cropID)
	if err != nil {
		return nil, err
	}
	if crop.FarmerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "crop does not belong to caller")
	}

	updates := map[string]any{}
	if input.CropName != nil {
		updates["crop_name"] = strings.TrimSpace(*input.CropName)
	}
	if input.Quantity != nil {
		updates["quantity"] = strings.TrimSpace(*input.Quantity)
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		updates["price"] = price
	}
	if input.Quality != nil {
		updates["quality"] = *input.Quality
	}
	if input.CropGrade != nil {
		updates["crop_grade"] = *input.CropGrade
	}
	if input.HarvestDate != nil {
		updates["harvest_date"] = *input.HarvestDate
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, cropID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update crop")
		}
	}
	return s.Get(ctx, cropID)
}

func (s *service) Delete(ctx context.Context, actorID, cropID int64) error {
	crop, err := s.loadCrop(ctx, cropID)
	if err != nil {
		return err
	}
	if crop.FarmerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "crop does not belong to caller")
	}
	if err := s.repo.Delete(ctx, cropID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete crop")
	}
	return nil
}

func (s *service) loadCrop(ctx context.Context, id int64) (*models.Crop, error) {
	crop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load crop")
	}
	return crop, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	if !price.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	return price, nil
}
