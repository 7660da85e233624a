package services

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Collection names the entity collections whose snapshots the insights
// layer reads.
type Collection string

const (
	CollectionInventory Collection = "inventory"
	CollectionOrders    Collection = "orders"
	CollectionCustomers Collection = "customers"
	CollectionPayments  Collection = "payments"
	CollectionDelivery  Collection = "delivery"
)

// invalidateChannel carries collection names whose snapshots are stale.
const invalidateChannel = "retail.invalidate"

// SnapshotCache keeps the latest loaded snapshot of each collection and
// drops it whenever any writer (this process or another replica)
// publishes an invalidation on the Redis channel. Readers get a cached
// array until the next write, so repeated insight calls don't re-query
// unchanged collections.
type SnapshotCache struct {
	rdb    *redis.Client
	logger *zap.Logger

	mu        sync.RWMutex
	snapshots map[Collection]interface{}
}

func NewSnapshotCache(rdb *redis.Client, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		rdb:       rdb,
		logger:    logger,
		snapshots: make(map[Collection]interface{}),
	}
}

// Get returns the cached snapshot for a collection, if present.
func (c *SnapshotCache) Get(col Collection) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.snapshots[col]
	return v, ok
}

// Set stores a freshly loaded snapshot. Consumers must treat the stored
// value as immutable.
func (c *SnapshotCache) Set(col Collection, snapshot interface{}) {
	c.mu.Lock()
	c.snapshots[col] = snapshot
	c.mu.Unlock()
}

// Invalidate drops the local snapshot and notifies other subscribers.
// Publish failures are logged, not propagated: a stale remote cache
// self-heals on its next write and the local drop already happened.
func (c *SnapshotCache) Invalidate(ctx context.Context, col Collection) {
	c.mu.Lock()
	delete(c.snapshots, col)
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	if err := c.rdb.Publish(ctx, invalidateChannel, string(col)).Err(); err != nil {
		c.logger.Warn("snapshot invalidation publish failed",
			zap.String("collection", string(col)),
			zap.Error(err),
		)
	}
}

// Listen subscribes to the invalidation channel and drops snapshots as
// messages arrive. It blocks until ctx is cancelled; run it in its own
// goroutine.
func (c *SnapshotCache) Listen(ctx context.Context) {
	if c.rdb == nil {
		return
	}

	sub := c.rdb.Subscribe(ctx, invalidateChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.mu.Lock()
			delete(c.snapshots, Collection(msg.Payload))
			c.mu.Unlock()
		}
	}
}
