package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the window, counts, and records the hit atomically.
// Members carry a nonce so hits in the same millisecond are distinct.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)

	if count < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	else
		return {0, 0}
	end
`)

// WindowStore is a Redis sorted-set sliding window.
// It satisfies ratelimit.Store and is shared across processes.
type WindowStore struct {
	client *Client
	seq    atomic.Uint64
}

// NewWindowStore creates a Redis backed sliding window store
func NewWindowStore(client *Client) *WindowStore {
	return &WindowStore{client: client}
}

// Hit records one request for key if the window has room.
// Returns (allowed, remaining, error).
func (s *WindowStore) Hit(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, error) {
	if !s.client.Enabled() {
		return true, limit, nil
	}

	nowMs := now.UnixMilli()
	member := fmt.Sprintf("%d-%s", nowMs, strconv.FormatUint(s.seq.Add(1), 36))

	result, err := slidingWindowScript.Run(ctx, s.client.Redis(), []string{s.client.key("ratelimit", key)},
		nowMs,
		nowMs-window.Milliseconds(),
		limit,
		window.Milliseconds(),
		member,
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit script failed: %w", err)
	}

	allowed := result[0].(int64) == 1
	remaining := int(result[1].(int64))

	return allowed, remaining, nil
}
