package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitstats/pkg"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitstats-session||"
	tokensSetKey     = "fitstats-sessions"
	tokenLength      = 35
)

var (
	ErrNoSession      = errors.New("no session for token")
	ErrSessionExpired = errors.New("session expired")
)

type session struct {
	UserID    int
	CreatedAt time.Time
}

func (s session) encode() string {
	return fmt.Sprintf("%d|%d", s.UserID, s.CreatedAt.Unix())
}

func decodeSession(val string) (session, error) {
	userIDStr, createdAtStr, found := strings.Cut(val, "|")
	if !found {
		return session{}, fmt.Errorf("malformed session value: %q", val)
	}
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		return session{}, fmt.Errorf("parse session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return session{}, fmt.Errorf("parse session created at: %w", err)
	}
	return session{UserID: userID, CreatedAt: time.Unix(createdAtUnix, 0)}, nil
}

// SessionStore issues and revokes session tokens. Sessions live in redis under
// sessionKeyPrefix+token and are indexed in the tokensSetKey set for cleanup.
type SessionStore struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewSessionStore(ttl time.Duration, redisClient *redis.Client) *SessionStore {
	return &SessionStore{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (s *SessionStore) Create(ctx context.Context, userID int, createdAt time.Time) (string, error) {
	token, err := s.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	val := session{UserID: userID, CreatedAt: createdAt}.encode()
	if err := s.redisClient.Set(ctx, sessionKeyPrefix+token, val, 0).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if err := s.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", fmt.Errorf("index session: %w", err)
	}

	return token, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	deleted, err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if err := s.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return fmt.Errorf("unindex session: %w", err)
	}

	if deleted == 0 {
		return ErrNoSession
	}
	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (s *SessionStore) ScanAndClean(ctx context.Context) {
	sessionTokens, err := s.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("session store, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("session store, scan and clean abort, no sessions")
		return
	}

	log.Debugf("session store, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		val, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if errors.Is(err, redis.Nil) {
			// dangling index entry
			toRemove = append(toRemove, token)
			continue
		}
		if err != nil {
			log.Errorf("session store, scan and clean token: %s", err)
			continue
		}

		sess, err := decodeSession(val)
		if err != nil || time.Since(sess.CreatedAt) > s.ttl {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := s.Delete(ctx, token); err != nil && !errors.Is(err, ErrNoSession) {
			log.Errorf("session store, clean token: %s", err)
		}
	}
	log.Debugf("session store, scan and clean removed %d sessions", len(toRemove))
}
