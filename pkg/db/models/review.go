package models

import "time"

// Review is the buyer's post-purchase rating of the crop's farmer. At most
// one review per (order, reviewer); immutable once created.
type Review struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID        int64     `gorm:"column:order_id;not null;uniqueIndex:idx_reviews_order_reviewer"`
	ReviewerID     int64     `gorm:"column:reviewer_id;not null;uniqueIndex:idx_reviews_order_reviewer"`
	ReviewedUserID int64     `gorm:"column:reviewed_user_id;not null;index"`
	Rating         int       `gorm:"column:rating;not null"`
	Comment        *string   `gorm:"column:comment"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
