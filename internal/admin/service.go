package admin

import (
	"context"
	"errors"

	"github.com/agrilinkmw/agrilink-backend/internal/orders"
	"github.com/agrilinkmw/agrilink-backend/internal/users"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the admin read reports and the user cascade delete.
type Service interface {
	Report(ctx context.Context) (*Report, error)
	Orders(ctx context.Context) (*OrderListing, error)
	Users(ctx context.Context) (*UserListing, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type service struct {
	repo     Repository
	userRepo users.Repository
	tx       txRunner
	logg     *logger.Logger
}

// NewService builds the admin service.
func NewService(repo Repository, userRepo users.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("admin repository required")
	}
	if userRepo == nil {
		return nil, errors.New("users repository required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner required")
	}
	return &service{repo: repo, userRepo: userRepo, tx: tx, logg: logg}, nil
}

func (s *service) Report(ctx context.Context) (*Report, error) {
	report := &Report{}
	var err error

	if report.TotalUsers, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if report.TotalCrops, err = s.repo.CountCrops(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count crops")
	}
	if report.TotalDemands, err = s.repo.CountDemands(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count demands")
	}
	if report.TotalOrders, err = s.repo.CountOrders(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	if report.TotalMessages, err = s.repo.CountMessages(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count messages")
	}
	if report.ActiveFarmers, err = s.repo.CountActiveFarmers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active farmers")
	}
	if report.ActiveBuyers, err = s.repo.CountActiveBuyers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active buyers")
	}
	return report, nil
}

func (s *service) Orders(ctx context.Context) (*OrderListing, error) {
	rows, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	listing := &OrderListing{Orders: make([]orders.Order, 0, len(rows))}
	for i := range rows {
		listing.Orders = append(listing.Orders, orders.ToOrder(&rows[i]))
	}
	return listing, nil
}

func (s *service) Users(ctx context.Context) (*UserListing, error) {
	rows, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	listing := &UserListing{Users: make([]users.Profile, 0, len(rows))}
	for i := range rows {
		listing.Users = append(listing.Users, users.ToProfile(&rows[i]))
	}
	return listing, nil
}

// DeleteUser removes the account and every dependent row as one transaction.
// Partial failure rolls back the whole cascade.
func (s *service) DeleteUser(ctx context.Context, userID int64) error {
	target, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Child tables first so foreign keys never dangle mid-transaction.
		if err := repo.DeleteReviewsForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete reviews")
		}
		if err := repo.DeleteMessagesForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete messages")
		}
		if err := repo.DeleteOrdersForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete orders")
		}
		if err := repo.DeleteDemandsForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete demands")
		}
		if err := repo.DeleteCropsForUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete crops")
		}
		if err := repo.DeleteUser(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cascade delete user")
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{"deleted_user_id": userID, "deleted_user_role": string(target.Role)})
		s.logg.Info(ctx, "user cascade deleted")
	}
	return nil
}
