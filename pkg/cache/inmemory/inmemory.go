package inmemory

import (
	"context"
	"sync"
	"time"
)

type item struct {
	answer    string
	expiresAt time.Time
}

// InMemory implements cache.Cache using a map. Entries expire after ttl;
// a zero ttl keeps them for the lifetime of the process.
type InMemory struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	now   func() time.Time
}

// New creates a new InMemory cache.
func New(ttl time.Duration) *InMemory {
	return &InMemory{
		items: make(map[string]item),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *InMemory) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}

	if c.expired(it) {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A Set may have replaced the entry since the read lock was released.
		cur, ok := c.items[key]
		if !ok {
			return "", false, nil
		}
		if c.expired(cur) {
			delete(c.items, key)
			return "", false, nil
		}
		return cur.answer, true, nil
	}
	return it.answer, true, nil
}

func (c *InMemory) expired(it item) bool {
	return !it.expiresAt.IsZero() && !c.now().Before(it.expiresAt)
}

func (c *InMemory) Set(ctx context.Context, key, answer string) error {
	it := item{answer: answer}
	if c.ttl > 0 {
		it.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = it
	return nil
}
