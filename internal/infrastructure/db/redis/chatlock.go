package redis

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL = 90 * time.Second
	lockRetryBase  = 20 * time.Millisecond
)

// ChatLocker provides per-chat mutual exclusion backed by Redis SET NX.
// Message appends assign order_in_chat as count-then-write, so all appends
// for one chat must run under this lock.
// Key format: chatlock:<chat_id>
type ChatLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChatLocker creates a ChatLocker wrapping the given Redis client. The
// TTL bounds how long a crashed holder can block a chat, but it must exceed
// the longest time a turn holds the lock, which includes the full upstream
// completion timeout: a lock that expired mid-turn lets a second turn
// interleave its count-then-write with ours. A non-positive ttl falls back
// to a default sized for the stock completion timeout.
func NewChatLocker(client *redis.Client, ttl time.Duration) *ChatLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &ChatLocker{client: client, ttl: ttl}
}

// Lock acquires the chat's lock, polling with jitter until it succeeds or
// ctx expires. Unlike a best-effort cache, an unreachable Redis fails the
// acquisition: persisting a message with an unguarded order would break the
// contiguous-ordering invariant.
func (l *ChatLocker) Lock(ctx context.Context, chatID string) (func(), error) {
	key := l.key(chatID)
	token := fmt.Sprintf("%d", rand.Int63())

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("chat lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("chat lock: %w", ctx.Err())
		case <-time.After(lockRetryBase + time.Duration(rand.Int63n(int64(lockRetryBase)))):
		}
	}

	unlock := func() {
		// Release only our own token; a lock that expired and was
		// re-acquired by another holder stays untouched.
		const release = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		l.client.Eval(context.Background(), release, []string{key}, token)
	}
	return unlock, nil
}

func (l *ChatLocker) key(chatID string) string {
	return fmt.Sprintf("chatlock:%s", chatID)
}
