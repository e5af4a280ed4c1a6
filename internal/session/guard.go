package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc/metadata"

	"github.com/gheider394-beep/2-sub000/internal/cache"
	apperr "github.com/gheider394-beep/2-sub000/internal/errors"
)

type tokenKey struct{}

// WithToken attaches a session token to the context for direct (in-process)
// calls into the engines.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext extracts the session token, preferring an explicit
// context value over gRPC metadata ("authorization", optional Bearer prefix).
func TokenFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(tokenKey{}).(string); ok && v != "" {
		return v, true
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("authorization"); len(vals) > 0 {
			token := strings.TrimSpace(strings.TrimPrefix(vals[0], "Bearer"))
			if token != "" {
				return token, true
			}
		}
	}
	return "", false
}

// Guard resolves the current actor from live session state in Redis.
// Sessions expire server-side via TTL, so every check hits the live store;
// there is no cached "authenticated" flag to go stale.
type Guard struct {
	cache *cache.RedisCache
	ttl   time.Duration

	// WatchInterval is how often Watch polls for expiry. Tests shrink it.
	WatchInterval time.Duration
}

// NewGuard creates a Guard issuing sessions with the given TTL.
func NewGuard(c *cache.RedisCache, ttl time.Duration) *Guard {
	return &Guard{
		cache:         c,
		ttl:           ttl,
		WatchInterval: 5 * time.Second,
	}
}

// Issue creates a session for userID and returns its opaque token.
func (g *Guard) Issue(ctx context.Context, userID uint64) (string, error) {
	token := uuid.NewString()
	key := g.cache.KeyForSession(token)
	if err := g.cache.Set(ctx, key, strconv.FormatUint(userID, 10), g.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Revoke deletes a session immediately.
func (g *Guard) Revoke(ctx context.Context, token string) error {
	return g.cache.Del(ctx, g.cache.KeyForSession(token))
}

// RequireActor resolves the calling user or fails with ErrUnauthenticated.
// Called at the top of every mutating engine operation, before any write.
// A hit slides the session TTL forward.
func (g *Guard) RequireActor(ctx context.Context) (uint64, error) {
	token, ok := TokenFromContext(ctx)
	if !ok {
		return 0, apperr.ErrUnauthenticated
	}

	key := g.cache.KeyForSession(token)
	val, err := g.cache.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return 0, apperr.ErrUnauthenticated
	} else if err != nil {
		return 0, err
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, apperr.ErrUnauthenticated
	}

	_ = g.cache.Client.Expire(ctx, key, g.ttl).Err()
	return userID, nil
}

// Watch polls the session until it disappears (expiry or revocation), then
// invokes onExpire exactly once. Returns immediately; the watch stops when
// ctx is canceled.
func (g *Guard) Watch(ctx context.Context, token string, onExpire func()) {
	key := g.cache.KeyForSession(token)
	go func() {
		ticker := time.NewTicker(g.WatchInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, err := g.cache.Get(ctx, key)
				if errors.Is(err, redis.Nil) {
					onExpire()
					return
				}
			}
		}
	}()
}
