package memory

import (
	"context"
	"encoding"
	"sync"
	"time"

	"github.com/ceylonworkforce/jobboard/internal/cache"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache is an in-process cache with the same value contract as the Redis
// cache. Expired entries are dropped on read and by a periodic sweep.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	stop       chan struct{}
	closed     bool
}

func New(opts cache.Options) *Cache {
	if opts.DefaultTTL == 0 {
		opts.DefaultTTL = cache.DefaultOptions().DefaultTTL
	}
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: opts.DefaultTTL,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	if opts.CleanupInterval > 0 {
		go c.sweep(opts.CleanupInterval)
	}
	return c
}

func (c *Cache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = append([]byte(nil), v...)
	case encoding.BinaryMarshaler:
		b, err := v.MarshalBinary()
		if err != nil {
			return err
		}
		data = b
	default:
		return cache.ErrInvalidValue
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return cache.ErrClosed
	}
	c.entries[key] = entry{data: data, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string, dst any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return cache.ErrClosed
	}
	e, ok := c.entries[key]
	if ok && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return cache.ErrNotFound
	}

	switch v := dst.(type) {
	case *string:
		*v = string(e.data)
	case encoding.BinaryUnmarshaler:
		return v.UnmarshalBinary(e.data)
	default:
		return cache.ErrInvalidValue
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return cache.ErrClosed
	}
	delete(c.entries, key)
	return nil
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	return nil
}
