package routing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/feeleurope/luxeagent/ai/cache"
)

// CacheConfig contains configuration for CachedClassifier.
type CacheConfig struct {
	Capacity int           // Maximum number of entries (default: 500)
	TTL      time.Duration // default: 30min
}

// CachedClassifier remembers decisions per query and coalesces concurrent
// classifications of the same query into one upstream call.
// Failures are never cached.
type CachedClassifier struct {
	next  Classifier
	cache *cache.LRU[string, Decision]
	group singleflight.Group
}

// NewCachedClassifier wraps next with a decision cache.
func NewCachedClassifier(next Classifier, cfg CacheConfig) *CachedClassifier {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 500
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	return &CachedClassifier{
		next:  next,
		cache: cache.New[string, Decision](cfg.Capacity, cfg.TTL),
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (Decision, error) {
	key := hashKey(text)
	if d, ok := c.cache.Get(key); ok {
		slog.Debug("router cache hit", "input", truncate(text, 50), "intent", d.Intent)
		return d, nil
	}

	// The call is shared by every waiter, so one caller going away must not
	// cancel it for the others.
	upstreamCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(key, func() (any, error) {
		d, err := c.next.Classify(upstreamCtx, text)
		if err != nil {
			return Decision{}, err
		}
		c.cache.Set(key, d)
		return d, nil
	})
	if err != nil {
		return Decision{}, err
	}
	if shared {
		slog.Debug("router classification shared", "input", truncate(text, 50))
	}
	return v.(Decision), nil
}

// Stats returns cache statistics.
func (c *CachedClassifier) Stats() cache.Stats {
	return c.cache.Stats()
}

// Purge drops every cached decision.
func (c *CachedClassifier) Purge() {
	c.cache.Purge()
}

// hashKey creates a stable hash key for input.
func hashKey(input string) string {
	hash := sha256.Sum256([]byte(input))
	return "route:" + hex.EncodeToString(hash[:8]) // First 8 bytes (64 bits) sufficient
}
