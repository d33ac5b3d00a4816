package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"byggekrav/internal/claims/models"
	id "byggekrav/pkg/domain"
)

const (
	claimKeyPrefix  = "claims:row:"
	defaultCacheTTL = 5 * time.Minute
)

// Cache wraps a Store with a Redis snapshot of claim rows. Reads are served
// from Redis when a fresh snapshot exists; every write goes through to the
// inner store and drops the snapshot. Cache failures are logged and degrade
// to the inner store, never to the caller.
//
// Event logs are not cached: alert evaluation needs the authoritative log.
type Cache struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheTTL overrides the snapshot lifetime.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCache wraps inner with a Redis claim-row cache.
func NewCache(inner Store, client *redis.Client, logger *slog.Logger, opts ...CacheOption) *Cache {
	c := &Cache{
		inner:  inner,
		client: client,
		ttl:    defaultCacheTTL,
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func claimKey(claimID id.ClaimID) string {
	return claimKeyPrefix + claimID.String()
}

func (c *Cache) CreateClaim(ctx context.Context, claim *models.Claim) error {
	return c.inner.CreateClaim(ctx, claim)
}

func (c *Cache) GetClaim(ctx context.Context, claimID id.ClaimID) (*models.Claim, error) {
	key := claimKey(claimID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var claim models.Claim
		if err := json.Unmarshal(raw, &claim); err == nil {
			return &claim, nil
		}
		// Unreadable snapshot, fall through to the store and overwrite.
		c.logger.Warn("dropping unreadable claim snapshot", "claim_id", claimID.String())
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("claim cache read failed", "claim_id", claimID.String(), "error", err)
	}

	claim, err := c.inner.GetClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(claim); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("claim cache write failed", "claim_id", claimID.String(), "error", err)
		}
	}
	return claim, nil
}

func (c *Cache) UpdateClaim(ctx context.Context, claim *models.Claim) error {
	if err := c.inner.UpdateClaim(ctx, claim); err != nil {
		return err
	}
	c.invalidate(ctx, claim.ID)
	return nil
}

func (c *Cache) AppendEvent(ctx context.Context, event *models.ClaimEvent) error {
	if err := c.inner.AppendEvent(ctx, event); err != nil {
		return err
	}
	// Appends usually bump the row version right after; drop the snapshot
	// eagerly so interleaved readers do not see a stale version.
	c.invalidate(ctx, event.ClaimID)
	return nil
}

func (c *Cache) ListEvents(ctx context.Context, claimID id.ClaimID) ([]models.ClaimEvent, error) {
	return c.inner.ListEvents(ctx, claimID)
}

func (c *Cache) invalidate(ctx context.Context, claimID id.ClaimID) {
	if err := c.client.Del(ctx, claimKey(claimID)).Err(); err != nil {
		c.logger.Warn("claim cache invalidation failed", "claim_id", claimID.String(), "error", err)
	}
}
