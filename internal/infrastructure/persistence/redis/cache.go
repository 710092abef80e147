package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edustore/checkout-service/internal/domain/catalog"
	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

const catalogKey = "catalog:items"

type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewCache(conn *Connection, log *logger.Logger) *Cache {
	client := monitoring.InstrumentRedisClient(conn.GetClient())

	return &Cache{
		client: client,
		logger: log,
	}
}

func (c *Cache) GetCatalog(ctx context.Context) ([]catalog.Item, error) {
	payload, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var items []catalog.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Cache) SetCatalog(ctx context.Context, items []catalog.Item, expiration time.Duration) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, catalogKey, payload, expiration).Err()
}

func (c *Cache) AcquireCheckoutLock(ctx context.Context, userID string, expiration time.Duration) (bool, error) {
	lockKey := fmt.Sprintf("lock:checkout:%s", userID)
	return c.client.SetNX(ctx, lockKey, "1", expiration).Result()
}

func (c *Cache) ReleaseCheckoutLock(ctx context.Context, userID string) error {
	lockKey := fmt.Sprintf("lock:checkout:%s", userID)
	return c.client.Del(ctx, lockKey).Err()
}

func (c *Cache) MarkGatewayOrderResolved(ctx context.Context, gatewayOrderID string, expiration time.Duration) error {
	key := fmt.Sprintf("gateway_order:resolved:%s", gatewayOrderID)
	return c.client.Set(ctx, key, "1", expiration).Err()
}

func (c *Cache) GatewayOrderResolved(ctx context.Context, gatewayOrderID string) (bool, error) {
	key := fmt.Sprintf("gateway_order:resolved:%s", gatewayOrderID)
	result, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}
