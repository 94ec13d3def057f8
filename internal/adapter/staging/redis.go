package staging

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "collectdesk:order:pending:"

// Redis shares the staging area between instances; expiry is the key TTL.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func key(orderID string) string {
	return keyPrefix + orderID
}

func (r *Redis) Stage(ctx context.Context, orderID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key(orderID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("stage order %s: %w", orderID, err)
	}
	return nil
}

func (r *Redis) IsOpen(ctx context.Context, orderID string) (bool, error) {
	n, err := r.client.Exists(ctx, key(orderID)).Result()
	if err != nil {
		return false, fmt.Errorf("check order %s: %w", orderID, err)
	}
	return n > 0, nil
}

func (r *Redis) Remove(ctx context.Context, orderID string) error {
	if err := r.client.Del(ctx, key(orderID)).Err(); err != nil {
		return fmt.Errorf("unstage order %s: %w", orderID, err)
	}
	return nil
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
