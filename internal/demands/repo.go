package demands

import (
	"context"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for demand postings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, demand *models.Demand) (*models.Demand, error)
	FindByID(ctx context.Context, id int64) (*models.Demand, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]models.Demand, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// Filters narrows the public demand listing.
type Filters struct {
	CropName string
	Location string
}

// List is a page of demands plus the cursor for the next page.
type List struct {
	Items      []models.Demand
	NextCursor string
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a demands repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, demand *models.Demand) (*models.Demand, error) {
	if err := r.db.WithContext(ctx).Create(demand).Error; err != nil {
		return nil, err
	}
	return demand, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Demand, error) {
	var demand models.Demand
	err := r.db.WithContext(ctx).
		Preload("Buyer").
		Where("id = ?", id).
		First(&demand).Error
	if err != nil {
		return nil, err
	}
	return &demand, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Demand{}).
		Preload("Buyer").
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

	var rows []models.Demand
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

func (r *repository) ListByBuyer(ctx context.Context, buyerID int64) ([]models.Demand, error) {
	var rows []models.Demand
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
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
		Model(&models.Demand{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Demand{}).Error
}
