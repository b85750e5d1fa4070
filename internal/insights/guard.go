package insights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrChatPending is returned when a session already has a chat request in flight.
var ErrChatPending = errors.New("a chat request is already pending for this session")

// PendingGuard allows at most one in-flight chat request per session.
type PendingGuard interface {
	// Acquire marks the session as pending. It returns ErrChatPending when
	// the session is already pending. The returned func clears the mark.
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// InMemoryPendingGuard tracks pending sessions in process memory.
type InMemoryPendingGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewInMemoryPendingGuard() *InMemoryPendingGuard {
	return &InMemoryPendingGuard{pending: make(map[string]struct{})}
}

func (g *InMemoryPendingGuard) Acquire(_ context.Context, sessionID string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[sessionID]; busy {
		return nil, ErrChatPending
	}
	g.pending[sessionID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, sessionID)
			g.mu.Unlock()
		})
	}, nil
}

// Pending reports whether sessionID currently holds the guard.
func (g *InMemoryPendingGuard) Pending(sessionID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[sessionID]
	return busy
}

// releaseScript deletes the key only while it still holds our token, so an
// expired guard re-acquired by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisPendingGuard shares the pending mark between replicas with SET NX.
// The key expires after ttl so a crashed replica cannot block a session.
type RedisPendingGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisPendingGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisPendingGuard {
	return &RedisPendingGuard{client: client, ttl: ttl, logger: logger}
}

func pendingKey(sessionID string) string {
	return fmt.Sprintf("adpulse:chat:pending:%s", sessionID)
}

func (g *RedisPendingGuard) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := pendingKey(sessionID)
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire chat guard: %w", err)
	}
	if !ok {
		return nil, ErrChatPending
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be done; release on a fresh one.
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, g.client, []string{key}, token).Err(); err != nil {
				g.logger.Error("failed to release chat guard, session stays pending until the key expires",
					zap.String("session_id", sessionID),
					zap.Duration("ttl", g.ttl),
					zap.Error(err),
				)
			}
		})
	}, nil
}
