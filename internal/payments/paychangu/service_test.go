package paychangu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db/models"
	"github.com/agrilinkmw/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkmw/agrilink-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryIdempotencyStore struct {
	keys map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{keys: make(map[string]string)}
}

func (m *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return m.keys[key], nil
}

func (m *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func (m *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

type stubOrderStore struct {
	order     *models.Order
	updateErr error
	updates   []enums.OrderStatus
}

func (s *stubOrderStore) FindOrder(ctx context.Context, id int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderStore) UpdateOrderStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates = append(s.updates, status)
	s.order.OrderStatus = status
	return nil
}

func reconcileConfig(mode config.PaymentFailureMode) config.PayChanguConfig {
	return config.PayChanguConfig{
		PublicKey:   "pub-test",
		TxRefPrefix: "agri",
		DeliveryFee: "5000",
		FailureMode: mode,
	}
}

func newReconcileService(t *testing.T, store *stubOrderStore, mode config.PaymentFailureMode) Service {
	t.Helper()
	guard, err := NewIdempotencyGuard(newMemoryIdempotencyStore(), time.Hour)
	require.NoError(t, err)
	svc, err := NewService(store, guard, reconcileConfig(mode), nil, nil)
	require.NoError(t, err)
	return svc
}

func TestHandleEventMarksOrderPaid(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusPending}}
	svc := newReconcileService(t, store, config.PaymentFailureIgnore)

	outcome, err := svc.HandleEvent(context.Background(), WebhookEvent{TxRef: "agri_order_42", Status: "success"})
	require.NoError(t, err)
	require.True(t, outcome.Paid)
	require.False(t, outcome.Duplicate)
	require.Equal(t, []enums.OrderStatus{enums.OrderStatusPaid}, store.updates)
}

func TestHandleEventReplayIsAcknowledgedOnce(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusPending}}
	svc := newReconcileService(t, store, config.PaymentFailureIgnore)

	event := WebhookEvent{TxRef: "agri_order_42", Status: "success"}

	first, err := svc.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	require.True(t, first.Paid)

	second, err := svc.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	require.True(t, second.Duplicate)
	require.Len(t, store.updates, 1, "replay must not write again")
}

func TestHandleEventMalformedReference(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusPending}}
	svc := newReconcileService(t, store, config.PaymentFailureIgnore)

	_, err := svc.HandleEvent(context.Background(), WebhookEvent{TxRef: "garbage", Status: "success"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Empty(t, store.updates, "malformed reference must not mutate orders")
}

func TestHandleEventNeverDemotesFulfillment(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusShipped}}
	svc := newReconcileService(t, store, config.PaymentFailureIgnore)

	outcome, err := svc.HandleEvent(context.Background(), WebhookEvent{TxRef: "agri_order_42", Status: "success"})
	require.NoError(t, err)
	require.True(t, outcome.Duplicate)
	require.Empty(t, store.updates)
	require.Equal(t, enums.OrderStatusShipped, store.order.OrderStatus)
}

func TestHandleEventRetriesAfterStoreFailure(t *testing.T) {
	store := &stubOrderStore{
		order:     &models.Order{ID: 42, OrderStatus: enums.OrderStatusPending},
		updateErr: errors.New("connection reset"),
	}
	svc := newReconcileService(t, store, config.PaymentFailureIgnore)

	event := WebhookEvent{TxRef: "agri_order_42", Status: "success"}

	_, err := svc.HandleEvent(context.Background(), event)
	require.Error(t, err)

	// The guard mark is released on failure, so the provider's redelivery
	// succeeds instead of being suppressed as a duplicate.
	store.updateErr = nil
	outcome, err := svc.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	require.True(t, outcome.Paid)
	require.False(t, outcome.Duplicate)
	require.Equal(t, []enums.OrderStatus{enums.OrderStatusPaid}, store.updates)
}

func TestHandleEventFailureIgnoredByDefault(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusPending}}
	svc := newReconcileService(t, store, config.PaymentFailureIgnore)

	outcome, err := svc.HandleEvent(context.Background(), WebhookEvent{TxRef: "agri_order_42", Status: "failed"})
	require.NoError(t, err)
	require.True(t, outcome.Ignored)
	require.Empty(t, store.updates)
	require.Equal(t, enums.OrderStatusPending, store.order.OrderStatus)
}

func TestHandleEventFailureMarksPendingOrder(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusPending}}
	svc := newReconcileService(t, store, config.PaymentFailureMarkFailed)

	outcome, err := svc.HandleEvent(context.Background(), WebhookEvent{TxRef: "agri_order_42", Status: "failed"})
	require.NoError(t, err)
	require.True(t, outcome.Failed)
	require.Equal(t, []enums.OrderStatus{enums.OrderStatusFailed}, store.updates)
}

func TestHandleEventFailureNeverDemotesPaidOrder(t *testing.T) {
	store := &stubOrderStore{order: &models.Order{ID: 42, OrderStatus: enums.OrderStatusPaid}}
	svc := newReconcileService(t, store, config.PaymentFailureMarkFailed)

	outcome, err := svc.HandleEvent(context.Background(), WebhookEvent{TxRef: "agri_order_42", Status: "failed"})
	require.NoError(t, err)
	require.True(t, outcome.Ignored)
	require.Empty(t, store.updates)
	require.Equal(t, enums.OrderStatusPaid, store.order.OrderStatus)
}
