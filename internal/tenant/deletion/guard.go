package deletion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "a2admin/pkg/domain"
)

// ErrDeletionInProgress is returned by Guard.Acquire when another run holds
// the tenant.
var ErrDeletionInProgress = errors.New("tenant deletion already in progress")

// Guard serializes deletion runs per tenant.
type Guard interface {
	Acquire(ctx context.Context, tenantID id.TenantID) (release func(), err error)
}

// MemoryGuard is a per-process guard.
type MemoryGuard struct {
	mu      sync.Mutex
	running map[id.TenantID]struct{}
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{running: make(map[id.TenantID]struct{})}
}

func (g *MemoryGuard) Acquire(_ context.Context, tenantID id.TenantID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.running[tenantID]; busy {
		return nil, ErrDeletionInProgress
	}
	g.running[tenantID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.running, tenantID)
			g.mu.Unlock()
		})
	}, nil
}

const redisGuardKeyPrefix = "tenant:deletion:"

// releaseScript deletes the lease only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard holds a SET NX PX lease so runs are exclusive across replicas.
// The lease expires on its own if the holder dies.
type RedisGuard struct {
	client *redis.Client
	lease  time.Duration
	logger *slog.Logger
}

// NewRedisGuard builds a guard whose lease should outlive the run timeout.
func NewRedisGuard(client *redis.Client, lease time.Duration, logger *slog.Logger) *RedisGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisGuard{client: client, lease: lease, logger: logger}
}

func (g *RedisGuard) Acquire(ctx context.Context, tenantID id.TenantID) (func(), error) {
	key := redisGuardKeyPrefix + tenantID.String()
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.lease).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire deletion lease: %w", err)
	}
	if !ok {
		return nil, ErrDeletionInProgress
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err(); err != nil {
			g.logger.WarnContext(ctx, "failed to release deletion lease",
				"tenant_id", tenantID.String(),
				"error", err,
			)
		}
	}, nil
}
