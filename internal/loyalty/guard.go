package loyalty

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// GrantGuard prevents a loyalty discount from being granted twice within the
// same commit window. The marker is a redis SETNX with a TTL: the first
// grant wins, a concurrent second attempt in the same window is refused, and
// the marker expires on its own once the window passes.
type GrantGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGrantGuard builds a guard around the given redis client.
func NewGrantGuard(client *redis.Client, ttl time.Duration) *GrantGuard {
	if client == nil {
		panic("loyalty: redis client required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &GrantGuard{client: client, ttl: ttl}
}

func grantKey(customerID string) string {
	return "loyalty:grant:" + customerID
}

// TryAcquire marks the customer's discount as consumed for the current
// window. It returns false when a grant was already recorded.
func (g *GrantGuard) TryAcquire(ctx context.Context, customerID string) (bool, error) {
	ok, err := g.client.SetNX(ctx, grantKey(customerID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("loyalty: acquire grant marker: %w", err)
	}
	return ok, nil
}

// Release drops the marker, used when the guarded booking fails to commit so
// the customer does not lose their discount.
func (g *GrantGuard) Release(ctx context.Context, customerID string) error {
	if err := g.client.Del(ctx, grantKey(customerID)).Err(); err != nil {
		return fmt.Errorf("loyalty: release grant marker: %w", err)
	}
	return nil
}
