package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionChecker resolves a session token to the user it was issued for.
type SessionChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewSessionChecker(ttl time.Duration, redisClient *redis.Client) *SessionChecker {
	return &SessionChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (c *SessionChecker) UserID(ctx context.Context, token string) (int, error) {
	val, err := c.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, err
	}

	sess, err := decodeSession(val)
	if err != nil {
		return 0, err
	}

	if c.now().Sub(sess.CreatedAt) > c.ttl {
		return 0, ErrSessionExpired
	}

	return sess.UserID, nil
}
