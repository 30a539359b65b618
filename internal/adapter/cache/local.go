package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reelvoice/reelvoice/internal/ports"
)

type entry struct {
	value    string
	deadline time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && e.deadline.Before(now)
}

// LocalCache implements the ports.Cache interface using an in-memory map.
// Used as a fallback when Redis is unavailable; transcripts then only
// survive as long as the process does.
type LocalCache struct {
	data   map[string]entry
	mu     sync.RWMutex
	log    *zap.Logger
	stopCh chan struct{}
}

// NewLocalCache creates a new in-memory cache with periodic expiry sweeps.
func NewLocalCache(sweepInterval time.Duration, log *zap.Logger) ports.Cache {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	c := &LocalCache{
		data:   make(map[string]entry),
		log:    log,
		stopCh: make(chan struct{}),
	}

	go c.sweepLoop(sweepInterval)

	log.Info("Local in-memory cache initialized",
		zap.Duration("sweep_interval", sweepInterval),
	)
	return c
}

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok || e.expired(time.Now()) {
		return "", ports.ErrCacheMiss
	}

	return e.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		strVal = string(data)
	}

	e := entry{value: strVal}
	if expiration > 0 {
		e.deadline = time.Now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	close(c.stopCh)
	return nil
}

func (c *LocalCache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range c.data {
		if e.expired(now) {
			delete(c.data, key)
			removed++
		}
	}

	if removed > 0 {
		c.log.Debug("Cache sweep completed", zap.Int("expired_entries", removed))
	}
}
