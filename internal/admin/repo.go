package admin

import (
	"context"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines the aggregation reads and cascade deletes the admin
// surface needs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CountUsers(ctx context.Context) (int64, error)
	CountCrops(ctx context.Context) (int64, error)
	CountDemands(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountActiveFarmers(ctx context.Context) (int64, error)
	CountActiveBuyers(ctx context.Context) (int64, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	DeleteReviewsForUser(ctx context.Context, userID int64) error
	DeleteMessagesForUser(ctx context.Context, userID int64) error
	DeleteOrdersForUser(ctx context.Context, userID int64) error
	DeleteDemandsForUser(ctx context.Context, userID int64) error
	DeleteCropsForUser(ctx context.Context, userID int64) error
	DeleteUser(ctx context.Context, userID int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an admin repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.User{})
}

func (r *repository) CountCrops(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Crop{})
}

func (r *repository) CountDemands(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Demand{})
}

func (r *repository) CountMessages(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Message{})
}

func (r *repository) CountOrders(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Order{})
}

func (r *repository) count(ctx context.Context, model any) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(model).Count(&total).Error
	return total, err
}

func (r *repository) CountActiveFarmers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Crop{}).
		Distinct("farmer_id").
		Count(&total).Error
	return total, err
}

func (r *repository) CountActiveBuyers(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Demand{}).
		Distinct("buyer_id").
		Count(&total).Error
	return total, err
}

func (r *repository) ListOrders(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Preload("Crop").
		Preload("Crop.Farmer").
		Order("order_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteReviewsForUser(ctx context.Context, userID int64) error {
	// Reviews written by the user, about the user, or attached to orders
	// that will disappear with the user's crops or purchases.
	return r.db.WithContext(ctx).
		Where(
			"reviewer_id = ? OR reviewed_user_id = ? OR order_id IN (?)",
			userID, userID,
			r.db.Model(&models.Order{}).Select("id").Where(
				"buyer_id = ? OR crop_id IN (?)",
				userID,
				r.db.Model(&models.Crop{}).Select("id").Where("farmer_id = ?", userID),
			),
		).
		Delete(&models.Review{}).Error
}

func (r *repository) DeleteMessagesForUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.Message{}).Error
}

func (r *repository) DeleteOrdersForUser(ctx context.Context, userID int64) error {
	// Orders the user placed, plus orders other buyers placed on the user's
	// crops (those crops are about to be deleted).
	return r.db.WithContext(ctx).
		Where(
			"buyer_id = ? OR crop_id IN (?)",
			userID,
			r.db.Model(&models.Crop{}).Select("id").Where("farmer_id = ?", userID),
		).
		Delete(&models.Order{}).Error
}

func (r *repository) DeleteDemandsForUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("buyer_id = ?", userID).Delete(&models.Demand{}).Error
}

func (r *repository) DeleteCropsForUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("farmer_id = ?", userID).Delete(&models.Crop{}).Error
}

func (r *repository) DeleteUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("id = ?", userID).Delete(&models.User{}).Error
}
