package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const unreadTTL = 30 * time.Second

// UnreadCache caches per-user unread notification counts in Redis.
// Clients poll the notification feed every few seconds, so the count is
// the hottest query in the system. A nil *UnreadCache is valid and
// disables caching entirely.
type UnreadCache struct {
	rdb *redis.Client
}

// NewUnreadCache connects to Redis. Returns nil (cache disabled) when
// addr is empty.
func NewUnreadCache(addr, password string, db int) *UnreadCache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &UnreadCache{rdb: rdb}
}

// Close releases the Redis connection
func (c *UnreadCache) Close() {
	if c == nil {
		return
	}
	c.rdb.Close()
}

func key(userID string) string {
	return "unread:" + userID
}

// Get returns the cached unread count for a user. The second return is
// false on a miss or any Redis failure; callers fall back to the database.
func (c *UnreadCache) Get(ctx context.Context, userID string) (int, bool) {
	if c == nil {
		return 0, false
	}
	val, err := c.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("Unread cache get failed")
		}
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// Set stores the unread count for a user with a short TTL
func (c *UnreadCache) Set(ctx context.Context, userID string, count int) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, key(userID), count, unreadTTL).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Unread cache set failed")
	}
}

// Invalidate drops the cached count after any notification write
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, key(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Unread cache invalidate failed")
	}
}
