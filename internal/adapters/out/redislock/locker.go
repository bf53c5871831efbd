// Package redislock implements ports.OrderLocker on Redis so that several
// instances of the service serialize writes to the same order.
package redislock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL       = 30 * time.Second
	DefaultKeyPrefix = "storefront:order-lock:"
)

// releaseScript deletes the key only when it still holds our token, so an
// expired lock taken over by another holder is never released by mistake.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// Client is the subset of the go-redis client the locker uses.
type Client interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

var _ ports.OrderLocker = &Locker{}

type Locker struct {
	client    Client
	ttl       time.Duration
	keyPrefix string
	logger    *slog.Logger
}

type Option func(*Locker)

// WithTTL bounds how long a crashed holder keeps the lock.
func WithTTL(ttl time.Duration) Option {
	return func(l *Locker) { l.ttl = ttl }
}

func WithKeyPrefix(prefix string) Option {
	return func(l *Locker) { l.keyPrefix = prefix }
}

func NewLocker(client Client, logger *slog.Logger, opts ...Option) (*Locker, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Locker{
		client:    client,
		ttl:       DefaultTTL,
		keyPrefix: DefaultKeyPrefix,
		logger:    logger.With("component", "redislock"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Lock polls SET NX PX with exponential backoff until the key is taken or
// ctx is done.
func (l *Locker) Lock(ctx context.Context, id kernel.UUID) (func(), error) {
	key := l.keyPrefix + id.String()
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 5 * time.Millisecond
	policy.MaxInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = 0

	acquire := func() error {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("acquire %s: %w", key, err))
		}
		if !ok {
			return errLockHeld
		}
		return nil
	}
	if err := backoff.Retry(acquire, backoff.WithContext(policy, ctx)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be canceled; release regardless.
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
			defer cancel()
			if err := l.client.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
				l.logger.WarnContext(ctx, "failed to release order lock", "key", key, "error", err)
			}
		})
	}, nil
}

var errLockHeld = errors.New("lock is held")

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
