package crops

import (
	"context"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for crop listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, crop *models.Crop) (*models.Crop, error)
	FindByID(ctx context.Context, id int64) (*models.Crop, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	ListByFarmer(ctx context.Context, farmerID int64) ([]models.Crop, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// Filters narrows the public crop listing.
type Filters struct {
	CropName string
	Location string
}

// List is a page of crops plus the cursor for the next page.
type List struct {
	Items      []models.Crop
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a crops repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, crop *models.Crop) (*models.Crop, error) {
	if err := r.db.WithContext(ctx).Create(crop).Error; err != nil {
		return nil, err
	}
	return crop, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Crop, error) {
	var crop models.Crop
	err := r.db.WithContext(ctx).
		Preload("Farmer").
		Where("id = ?", id).
		First(&crop).Error
	if err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Crop{}).
		Preload("Farmer").
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filters.CropName != "" {
		query = query.Where("crop_name ILIKE ?", "%"+filters.CropName+"%")
	}
	if filters.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filters.Location+"%")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Crop
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &List{Items: rows}
	if len(rows) > limit {
		list.Items = rows[:limit]
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID int64) ([]models.Crop, error) {
	var rows []models.Crop
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Crop{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Crop{}).Error
}
