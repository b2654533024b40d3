package messages

import (
	"context"
	"errors"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service handles authenticated direct messages and anonymous contact-form
// messages. Messages are append-only.
type Service interface {
	Send(ctx context.Context, senderID int64, input SendInput) (*Message, error)
	SendContact(ctx context.Context, input ContactInput) (*Message, error)
	Inbox(ctx context.Context, userID int64) ([]Message, error)
	Sent(ctx context.Context, userID int64) ([]Message, error)
}

type service struct {
	repo     Repository
	userRepo users.Repository
}

// NewService builds a messages service.
func NewService(repo Repository, userRepo users.Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("messages repository required")
	}
	if userRepo == nil {
		return nil, errors.New("users repository required")
	}
	return &service{repo: repo, userRepo: userRepo}, nil
}

func (s *service) Send(ctx context.Context, senderID int64, input SendInput) (*Message, error) {
	if senderID == input.ReceiverID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}
	if err := s.ensureReceiver(ctx, input.ReceiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   &senderID,
		ReceiverID: input.ReceiverID,
		Subject:    input.Subject,
		Body:       strings.TrimSpace(input.Body),
		CropID:     input.CropID,
		DemandID:   input.DemandID,
	}

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}
	out := ToMessage(created)
	return &out, nil
}

// SendContact delivers an anonymous contact-form message to the admin inbox.
// The endpoint is public, so the recipient is resolved server-side rather
// than trusted from the request.
func (s *service) SendContact(ctx context.Context, input ContactInput) (*Message, error) {
	admins, err := s.userRepo.ListByRole(ctx, enums.UserRoleAdmin)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin recipient")
	}
	if len(admins) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "no admin account configured to receive contact messages")
	}

	senderName := strings.TrimSpace(input.SenderName)
	senderContact := strings.TrimSpace(input.SenderContact)
	message := &models.Message{
		ReceiverID:    admins[0].ID,
		SenderName:    &senderName,
		SenderContact: &senderContact,
		Subject:       input.Subject,
		Body:          strings.TrimSpace(input.Body),
	}

	created, err := s.repo.Create(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact message")
	}
	out := ToMessage(created)
	return &out, nil
}

func (s *service) Inbox(ctx context.Context, userID int64) ([]Message, error) {
	rows, err := s.repo.ListInbox(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inbox")
	}
	return mapMessages(rows), nil
}

func (s *service) Sent(ctx context.Context, userID int64) ([]Message, error) {
	rows, err := s.repo.ListSent(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sent messages")
	}
	return mapMessages(rows), nil
}

func (s *service) ensureReceiver(ctx context.Context, receiverID int64) error {
	if _, err := s.userRepo.FindByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "receiver not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receiver")
	}
	return nil
}

func mapMessages(rows []models.Message) []Message {
	out := make([]Message, 0, len(rows))
	for i := range rows {
		out = append(out, ToMessage(&rows[i]))
	}
	return out
}
