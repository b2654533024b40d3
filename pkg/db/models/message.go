package models

import "time"

// Message is a direct or contact-form message. Contact-form senders are
// anonymous: sender_id is null and sender_name/sender_contact are captured
// instead. Rows are never mutated after creation.
type Message struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SenderID      *int64    `gorm:"column:sender_id;index"`
	ReceiverID    int64     `gorm:"column:receiver_id;not null;index"`
	CropID        *int64    `gorm:"column:crop_id"`
	DemandID      *int64    `gorm:"column:demand_id"`
	SenderName    *string   `gorm:"column:sender_name"`
	SenderContact *string   `gorm:"column:sender_contact"`
	Subject       *string   `gorm:"column:subject"`
	Body          string    `gorm:"column:message;not null"`
	SentAt        time.Time `gorm:"column:sent_at;autoCreateTime"`
}
