package demands

import (
	"context"
	"errors"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes demand posting operations with owner-only mutation rights.
type Service interface {
	Create(ctx context.Context, buyerID int64, input CreateInput) (*Demand, error)
	Get(ctx context.Context, id int64) (*Demand, error)
	Browse(ctx context.Context, params pagination.Params, filters Filters) (*Page, error)
	ListOwn(ctx context.Context, buyerID int64) ([]Demand, error)
	Update(ctx context.Context, actorID, demandID int64, input UpdateInput) (*Demand, error)
	Delete(ctx context.Context, actorID, demandID int64) error
}

type service struct {
	repo Repository
}

// NewService builds a demands service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("demands repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, buyerID int64, input CreateInput) (*Demand, error) {
	demand := &models.Demand{
		BuyerID:  buyerID,
		CropName: strings.TrimSpace(input.CropName),
		Quantity: strings.TrimSpace(input.Quantity),
		Location: input.Location,
		Quality:  input.Quality,
		Message:  input.Message,
		Image:    input.Image,
	}

	created, err := s.repo.Create(ctx, demand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create demand")
	}

	out := ToDemand(created)
	return &out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Demand, error) {
	demand, err := s.loadDemand(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToDemand(demand)
	return &out, nil
}

func (s *service) Browse(ctx context.Context, params pagination.Params, filters Filters) (*Page, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list demands")
	}

	page := &Page{Items: make([]Demand, 0, len(list.Items)), NextCursor: list.NextCursor}
	for i := range list.Items {
		page.Items = append(page.Items, ToDemand(&list.Items[i]))
	}
	return page, nil
}

func (s *service) ListOwn(ctx context.Context, buyerID int64) ([]Demand, error) {
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own demands")
	}
	out := make([]Demand, 0, len(rows))
	for i := range rows {
		out = append(out, ToDemand(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, actorID, demandID int64, input UpdateInput) (*Demand, error) {
	demand, err := s.loadDemand(ctx, demandID)
	if err != nil {
		return nil, err
	}
	if demand.BuyerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "demand does not belong to caller")
	}

	updates := map[string]any{}
	if input.CropName != nil {
		updates["crop_name"] = strings.TrimSpace(*input.CropName)
	}
	if input.Quantity != nil {
		updates["quantity"] = strings.TrimSpace(*input.Quantity)
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Quality != nil {
		updates["quality"] = *input.Quality
	}
	if input.Message != nil {
		updates["message"] = *input.Message
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, demandID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update demand")
		}
	}
	return s.Get(ctx, demandID)
}

func (s *service) Delete(ctx context.Context, actorID, demandID int64) error {
	demand, err := s.loadDemand(ctx, demandID)
	if err != nil {
		return err
	}
	if demand.BuyerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "demand does not belong to caller")
	}
	if err := s.repo.Delete(ctx, demandID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete demand")
	}
	return nil
}

func (s *service) loadDemand(ctx context.Context, id int64) (*models.Demand, error) {
	demand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "demand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load demand")
	}
	return demand, nil
}
