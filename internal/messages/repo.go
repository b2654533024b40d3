package messages

import (
	"context"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for messages.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	ListInbox(ctx context.Context, receiverID int64) ([]models.Message, error)
	ListSent(ctx context.Context, senderID int64) ([]models.Message, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a messages repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (r *repository) ListInbox(ctx context.Context, receiverID int64) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("sent_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListSent(ctx context.Context, senderID int64) ([]models.Message, error) {
	var rows []models.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("sent_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
