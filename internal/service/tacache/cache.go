package tacache

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"AssetRadar/internal/domain/models"
	applogger "AssetRadar/pkg/logger"
)

// Store is the backing storage for the cache: a single flat JSON object
// mapping fingerprint to stored entry.
type Store interface {
	Load() (map[string]json.RawMessage, error)
	Save(map[string]json.RawMessage) error
}

type envelope struct {
	Timestamp int64           `json:"timestamp"`
	TTL       int64           `json:"ttl,omitempty"`
	Data      *models.Analysis `json:"data"`
}

// Cache is a TTL keyed store for technical-analysis results. Every Set is
// written through to the backing store immediately so restarts do not lose
// recently fetched data.
type Cache struct {
	mu      sync.Mutex
	entries map[string]json.RawMessage
	ttl     time.Duration
	store   Store
	logger  *applogger.Logger
	now     func() time.Time
}

// New loads existing entries from the store. A load failure yields an empty
// cache, not an error.
func New(store Store, ttl time.Duration, l *applogger.Logger) *Cache {
	c := &Cache{
		entries: make(map[string]json.RawMessage),
		ttl:     ttl,
		store:   store,
		logger:  l,
		now:     time.Now,
	}

	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			l.Warn("analysis cache load failed, starting empty", applogger.Error(err))
		} else if loaded != nil {
			c.entries = loaded
		}
	}

	return c
}

// Key builds the canonical fingerprint for a lookup.
func Key(symbol, exchange, screener string, interval models.Interval) string {
	return fmt.Sprintf("%s|%s|%s|%s", strings.ToUpper(symbol), exchange, screener, interval)
}

// Get returns the cached analysis for the fingerprint, or false when absent
// or expired. Legacy entries stored without the timestamp envelope are
// returned as-is and treated as fresh.
func (c *Cache) Get(key string) (*models.Analysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Timestamp > 0 && env.Data != nil {
		ttl := c.ttl
		if env.TTL > 0 {
			ttl = time.Duration(env.TTL) * time.Second
		}
		if c.now().Sub(time.Unix(env.Timestamp, 0)) > ttl {
			return nil, false
		}
		return env.Data, true
	}

	// Legacy format: the analysis object stored directly.
	var legacy models.Analysis
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.Symbol != "" {
		return &legacy, true
	}

	return nil, false
}

// Set stores the analysis under the fingerprint and writes through to the
// backing store. An optional TTL override applies to this entry only.
func (c *Cache) Set(key string, a *models.Analysis, ttlOverride ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := envelope{
		Timestamp: c.now().Unix(),
		Data:      a,
	}
	if len(ttlOverride) > 0 && ttlOverride[0] > 0 {
		env.TTL = int64(ttlOverride[0].Seconds())
	}

	raw, err := json.Marshal(env)
	if err != nil {
		c.logger.Warn("analysis cache marshal failed", applogger.Error(err))
		return
	}
	c.entries[key] = raw

	if c.store != nil {
		snapshot := make(map[string]json.RawMessage, len(c.entries))
		for k, v := range c.entries {
			snapshot[k] = v
		}
		if err := c.store.Save(snapshot); err != nil {
			c.logger.Warn("analysis cache persist failed", applogger.Error(err))
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
