package reviews

import (
	"context"
	"errors"

	"github.com/agrilinkmw/agrilink-backend/internal/orders"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service gates review submission to the buyer who owns the order and keeps
// reviews immutable once created.
type Service interface {
	Submit(ctx context.Context, reviewerID int64, input SubmitInput) (*Review, error)
	ForUser(ctx context.Context, reviewedUserID int64) (*UserReviews, error)
}

type service struct {
	repo      Repository
	orderRepo orders.Repository
}

// NewService builds a reviews service.
func NewService(repo Repository, orderRepo orders.Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("reviews repository required")
	}
	if orderRepo == nil {
		return nil, errors.New("orders repository required")
	}
	return &service{repo: repo, orderRepo: orderRepo}, nil
}

func (s *service) Submit(ctx context.Context, reviewerID int64, input SubmitInput) (*Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	order, err := s.orderRepo.FindOrder(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.BuyerID != reviewerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
	}
	if order.Crop == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order is missing its crop")
	}

	exists, err := s.repo.ExistsForOrderAndReviewer(ctx, input.OrderID, reviewerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already reviewed")
	}

	review := &models.Review{
		OrderID:        input.OrderID,
		ReviewerID:     reviewerID,
		ReviewedUserID: order.Crop.FarmerID,
		Rating:         input.Rating,
		Comment:        input.Comment,
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		// The unique index backstops the existence check under concurrency.
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "order already reviewed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	out := ToReview(created)
	return &out, nil
}

func (s *service) ForUser(ctx context.Context, reviewedUserID int64) (*UserReviews, error) {
	rows, err := s.repo.ListByReviewedUser(ctx, reviewedUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	avg, count, err := s.repo.AverageRating(ctx, reviewedUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate ratings")
	}

	out := &UserReviews{
		Reviews:       make([]Review, 0, len(rows)),
		AverageRating: avg,
		ReviewCount:   count,
	}
	for i := range rows {
		out.Reviews = append(out.Reviews, ToReview(&rows[i]))
	}
	return out, nil
}
