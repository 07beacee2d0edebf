package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"mikune/events"
	"mikune/models"
)

const keyPrefix = "mikune:leaderboard:"

// LeaderboardCache stores ranked leaderboards in Redis as JSON
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache connects to the Redis instance at redisURL
func NewLeaderboardCache(redisURL string, ttl time.Duration) (*LeaderboardCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10

	return &LeaderboardCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Key returns the cache key for a leaderboard view
func Key(kind models.LeaderboardKind, limit int) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, kind, limit)
}

func (c *LeaderboardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LeaderboardCache) Close() error {
	return c.client.Close()
}

// Get returns a cached leaderboard. The bool is false on a miss.
func (c *LeaderboardCache) Get(ctx context.Context, kind models.LeaderboardKind, limit int) ([]models.LeaderboardEntry, bool, error) {
	data, err := c.client.Get(ctx, Key(kind, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var entries []models.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached leaderboard: %w", err)
	}
	return entries, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, kind models.LeaderboardKind, limit int, entries []models.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}
	if err := c.client.Set(ctx, Key(kind, limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached leaderboard
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan leaderboard keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete leaderboard keys: %w", err)
	}
	return nil
}

// InvalidateOn drops cached leaderboards whenever an account's money or
// level may have changed
func (c *LeaderboardCache) InvalidateOn(bus *events.Bus) {
	handler := func(ctx context.Context, event events.Event) {
		if err := c.Invalidate(ctx); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Warn("Failed to invalidate leaderboard cache")
		}
	}
	bus.Subscribe(events.EventTypeBalanceChange, handler)
	bus.Subscribe(events.EventTypeUserCreated, handler)
}
