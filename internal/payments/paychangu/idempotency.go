package paychangu

import (
	"context"
	"fmt"
	"time"

	pkgredis "github.com/agrilinkmw/agrilink-backend/pkg/redis"
)

const idempotencyScope = "paychangu_webhook"

// IdempotencyGuard suppresses duplicate webhook deliveries via redis SetNX.
type IdempotencyGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyGuard builds a guard with the configured suppression window.
func NewIdempotencyGuard(store pkgredis.IdempotencyStore, ttl time.Duration) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyGuard{store: store, ttl: ttl}, nil
}

// CheckAndMark returns true when this delivery is the first within the
// window. Marking happens atomically so concurrent replays race safely.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, deliveryID string) (bool, error) {
	key := g.store.IdempotencyKey(idempotencyScope, deliveryID)
	return g.store.SetNX(ctx, key, "1", g.ttl)
}

// Release drops the mark so a failed delivery can be retried by the provider.
func (g *IdempotencyGuard) Release(ctx context.Context, deliveryID string) error {
	key := g.store.IdempotencyKey(idempotencyScope, deliveryID)
	return g.store.Del(ctx, key)
}
