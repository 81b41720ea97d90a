package lockstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var ErrNilClient = errors.New("lockstore: nil redis client")

// releaseScript deletes the lock only when it still holds our token, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = goredis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Redis serializes mutators across processes using SET NX PX with a random
// token and a token-checked release. The TTL bounds how long a crashed
// holder can block other mutators.
type Redis struct {
	rdb   goredis.UniversalClient
	ttl   time.Duration
	retry time.Duration
}

var _ Locker = (*Redis)(nil)

type RedisConfig struct {
	Client        goredis.UniversalClient
	TTL           time.Duration // lock auto-expiry; 0 => 30s
	RetryInterval time.Duration // poll interval while contended; 0 => 25ms
}

func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	l := &Redis{rdb: cfg.Client, ttl: cfg.TTL, retry: cfg.RetryInterval}
	if l.ttl <= 0 {
		l.ttl = 30 * time.Second
	}
	if l.retry <= 0 {
		l.retry = 25 * time.Millisecond
	}
	return l, nil
}

func (l *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(buf)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		t := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// best-effort: an unreleased lock self-expires after ttl
			rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = releaseScript.Run(rctx, l.rdb, []string{key}, token).Err()
		})
	}, nil
}

// Close is a no-op; the redis client is caller-owned.
func (l *Redis) Close(context.Context) error { return nil }
