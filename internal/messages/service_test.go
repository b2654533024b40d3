package messages

import (
	"context"
	"testing"

	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubMessagesRepo struct {
	created []*models.Message
	inbox   []models.Message
	sent    []models.Message
}

func (s *stubMessagesRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubMessagesRepo) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	message.ID = int64(len(s.created) + 1)
	s.created = append(s.created, message)
	return message, nil
}

func (s *stubMessagesRepo) ListInbox(ctx context.Context, receiverID int64) ([]models.Message, error) {
	return s.inbox, nil
}

func (s *stubMessagesRepo) ListSent(ctx context.Context, senderID int64) ([]models.Message, error) {
	return s.sent, nil
}

type stubUserLookup struct {
	known  map[int64]bool
	admins []models.User
}

func (s *stubUserLookup) WithTx(tx *gorm.DB) users.Repository { return s }

func (s *stubUserLookup) Create(ctx context.Context, user *models.User) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUserLookup) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.known[id] {
		return &models.User{ID: id}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserLookup) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	panic("not implemented")
}

func (s *stubUserLookup) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubUserLookup) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	panic("not implemented")
}

func (s *stubUserLookup) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	if role == enums.UserRoleAdmin {
		return s.admins, nil
	}
	return nil, nil
}

func (s *stubUserLookup) Delete(ctx context.Context, id int64) error {
	panic("not implemented")
}

func newMessagesService(t *testing.T, repo *stubMessagesRepo, known ...int64) Service {
	t.Helper()
	lookup := &stubUserLookup{known: make(map[int64]bool)}
	for _, id := range known {
		lookup.known[id] = true
	}
	svc, err := NewService(repo, lookup)
	require.NoError(t, err)
	return svc
}

func TestSendRecordsSender(t *testing.T) {
	repo := &stubMessagesRepo{}
	svc := newMessagesService(t, repo, 2)

	msg, err := svc.Send(context.Background(), 1, SendInput{ReceiverID: 2, Body: "  Is the maize still available?  "})
	require.NoError(t, err)
	require.NotNil(t, msg.SenderID)
	require.Equal(t, int64(1), *msg.SenderID)
	require.Equal(t, "Is the maize still available?", msg.Body)
}

func TestSendToSelfRejected(t *testing.T) {
	repo := &stubMessagesRepo{}
	svc := newMessagesService(t, repo, 1)

	_, err := svc.Send(context.Background(), 1, SendInput{ReceiverID: 1, Body: "hello"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Empty(t, repo.created)
}

func TestSendToUnknownReceiver(t *testing.T) {
	repo := &stubMessagesRepo{}
	svc := newMessagesService(t, repo)

	_, err := svc.Send(context.Background(), 1, SendInput{ReceiverID: 404, Body: "hello"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Empty(t, repo.created)
}

func TestContactMessageRoutesToAdminInbox(t *testing.T) {
	repo := &stubMessagesRepo{}
	lookup := &stubUserLookup{
		known:  map[int64]bool{7: true},
		admins: []models.User{{ID: 3, Role: enums.UserRoleAdmin}},
	}
	svc, err := NewService(repo, lookup)
	require.NoError(t, err)

	msg, err := svc.SendContact(context.Background(), ContactInput{
		SenderName:    " Mary Phiri ",
		SenderContact: " 0999123456 ",
		Body:          "I want to buy your beans",
	})
	require.NoError(t, err)
	require.Equal(t, int64(3), msg.ReceiverID, "contact messages must land in the admin inbox")
	require.Nil(t, msg.SenderID)
	require.NotNil(t, msg.SenderName)
	require.Equal(t, "Mary Phiri", *msg.SenderName)
	require.Equal(t, "0999123456", *msg.SenderContact)
}

func TestContactMessageWithoutAdminAccount(t *testing.T) {
	repo := &stubMessagesRepo{}
	svc := newMessagesService(t, repo)

	_, err := svc.SendContact(context.Background(), ContactInput{
		SenderName:    "Mary Phiri",
		SenderContact: "0999123456",
		Body:          "hello",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeDependency, typed.Code())
	require.Empty(t, repo.created)
}

func TestInboxAndSent(t *testing.T) {
	sender := int64(9)
	repo := &stubMessagesRepo{
		inbox: []models.Message{{ID: 1, ReceiverID: 2, Body: "hi", SenderID: &sender}},
		sent:  []models.Message{{ID: 2, ReceiverID: 5, Body: "re", SenderID: &sender}},
	}
	svc := newMessagesService(t, repo, 2)

	inbox, err := svc.Inbox(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "hi", inbox[0].Body)

	sent, err := svc.Sent(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, int64(5), sent[0].ReceiverID)
}
