package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/interfac/user-manager/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

// UserCache caches user records by username. Key format: user:<username>.
// The cache is strictly best-effort: any Redis failure degrades to a store
// read, it never surfaces to the caller.
type UserCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, log zerolog.Logger) *UserCache {
	return &UserCache{client: client, log: log}
}

// cachedUser carries the persisted fields through Redis. The password hash
// travels too so the login path can serve from cache; it never leaves the
// process in this form.
type cachedUser struct {
	User         domain.User `json:"user"`
	PasswordHash string      `json:"password_hash"`
}

func (c *UserCache) Get(ctx context.Context, username string) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("username", username).Msg("user cache read failed")
		}
		return nil, false
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		c.log.Warn().Err(err).Str("username", username).Msg("user cache entry corrupt")
		_ = c.client.Del(ctx, c.key(username)).Err()
		return nil, false
	}

	user := cu.User
	user.PasswordHash = cu.PasswordHash
	return &user, true
}

func (c *UserCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(cachedUser{User: *user, PasswordHash: user.PasswordHash})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(user.Username), raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("username", user.Username).Msg("user cache write failed")
	}
}

func (c *UserCache) Invalidate(ctx context.Context, username string) {
	if err := c.client.Del(ctx, c.key(username)).Err(); err != nil {
		c.log.Warn().Err(err).Str("username", username).Msg("user cache invalidation failed")
	}
}

func (c *UserCache) key(username string) string {
	return "user:" + username
}
