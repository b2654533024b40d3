package messages

import (
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
)

// SendInput carries an authenticated direct message, optionally referencing
// the listing that prompted it.
type SendInput struct {
	ReceiverID int64   `json:"receiver_id" validate:"required,gt=0"`
	Subject    *string `json:"subject" validate:"omitempty,max=200"`
	Body       string  `json:"body" validate:"required,min=1,max=5000"`
	CropID     *int64  `json:"crop_id" validate:"omitempty,gt=0"`
	DemandID   *int64  `json:"demand_id" validate:"omitempty,gt=0"`
}

// ContactInput carries an anonymous contact-form message. The recipient is
// always the platform admin inbox, never chosen by the caller.
type ContactInput struct {
	SenderName    string  `json:"sender_name" validate:"required,min=1,max=120"`
	SenderContact string  `json:"sender_contact" validate:"required,min=3,max=160"`
	Subject       *string `json:"subject" validate:"omitempty,max=200"`
	Body          string  `json:"body" validate:"required,min=1,max=5000"`
}

// Message is the API projection of a message row.
type Message struct {
	ID            int64     `json:"id"`
	SenderID      *int64    `json:"sender_id,omitempty"`
	ReceiverID    int64     `json:"receiver_id"`
	SenderName    *string   `json:"sender_name,omitempty"`
	SenderContact *string   `json:"sender_contact,omitempty"`
	Subject       *string   `json:"subject,omitempty"`
	Body          string    `json:"body"`
	CropID        *int64    `json:"crop_id,omitempty"`
	DemandID      *int64    `json:"demand_id,omitempty"`
	SentAt        time.Time `json:"sent_at"`
}

// ToMessage maps a model row into its API projection.
func ToMessage(message *models.Message) Message {
	return Message{
		ID:            message.ID,
		SenderID:      message.SenderID,
		ReceiverID:    message.ReceiverID,
		SenderName:    message.SenderName,
		SenderContact: message.SenderContact,
		Subject:       message.Subject,
		Body:          message.Body,
		CropID:        message.CropID,
		DemandID:      message.DemandID,
		SentAt:        message.SentAt,
	}
}
