package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/kanoon-backend/internal/platform/logger"
)

// Connect dials addr and pings it.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Limiter is a fixed-window counter per key.
type Limiter struct {
	log    *logger.Logger
	rdb    goredis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewLimiter(log *logger.Logger, rdb goredis.Cmdable, limit int, window time.Duration) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		log:    log.With("service", "RateLimiter"),
		rdb:    rdb,
		prefix: "kanoon:ratelimit",
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *Limiter) windowKey(key string, now time.Time) (string, time.Duration) {
	slot := now.UnixNano() / int64(l.window)
	reset := time.Duration(int64(l.window) - now.UnixNano()%int64(l.window))
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, slot), reset
}

// Allow counts one hit for key in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return Decision{Allowed: true, Remaining: -1}, nil
	}
	redisKey, reset := l.windowKey(key, l.now())

	var incr *goredis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.Expire(ctx, redisKey, l.window+time.Second)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit incr: %w", err)
	}
	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: count <= l.limit, Remaining: remaining, ResetIn: reset}, nil
}

func (l *Limiter) Limit() int {
	if l == nil {
		return 0
	}
	return l.limit
}
