package kv

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps each list as a Redis set. Order is not preserved; lists are
// returned sorted.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the server at url (redis://host:port/db) and verifies
// the connection.
func NewRedis(ctx context.Context, url string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Redis{client: client}, nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// GetStringList returns the members of the set at key.
// An empty set and a missing key are indistinguishable in Redis; both
// report ok == false.
func (r *Redis) GetStringList(ctx context.Context, key string) ([]string, bool, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	if len(members) == 0 {
		return nil, false, nil
	}
	sort.Strings(members)
	return members, true, nil
}

// SetStringList replaces the set at key in a single transaction.
func (r *Redis) SetStringList(ctx context.Context, key string, values []string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			members := make([]any, len(values))
			for i, v := range values {
				members[i] = v
			}
			pipe.SAdd(ctx, key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
