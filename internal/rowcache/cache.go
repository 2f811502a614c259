// ABOUTME: Thread-safe TTL cache of computed descriptor rows
// ABOUTME: Keys hash the molfile bytes with mode and k so renamed copies still hit

package rowcache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"github.com/2389/molindex/internal/analysis"
)

// Key identifies a computation. Filename is not part of it; callers relabel
// cached rows with the uploaded name.
func Key(content []byte, mode analysis.Mode, k int) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(mode))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(k)))
	return hex.EncodeToString(h.Sum(nil))
}

type entry struct {
	values  map[string]any
	keys    []string
	stored  time.Time
	element *list.Element
}

// Cache is size-bounded with least-recently-used eviction. Entries older than
// the TTL are misses and are swept by a background goroutine.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   *list.List // oldest use at front
	ttl     time.Duration
	maxSize int
	hits    uint64
	misses  uint64
	done    chan struct{}
	closed  bool
}

// New creates a cache and starts its sweeper.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns a copy of the row stored under key, relabeled with filename
// under filenameKey.
func (c *Cache) Get(key, filenameKey, filename string) (analysis.Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || time.Since(e.stored) >= c.ttl {
		c.misses++
		return analysis.Row{}, false
	}
	c.hits++
	c.order.MoveToBack(e.element)

	row := analysis.NewRow()
	for _, k := range e.keys {
		if k == filenameKey {
			row.Set(k, filename)
			continue
		}
		row.Set(k, e.values[k])
	}
	return row, true
}

// Put stores row under key, evicting the least recently used entry when full.
func (c *Cache) Put(key string, row analysis.Row) {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make(map[string]any, len(row.Values))
	for k, v := range row.Values {
		values[k] = v
	}
	keys := append([]string(nil), row.Keys...)

	if e, ok := c.entries[key]; ok {
		e.values, e.keys, e.stored = values, keys, time.Now()
		c.order.MoveToBack(e.element)
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = &entry{
		values:  values,
		keys:    keys,
		stored:  time.Now(),
		element: c.order.PushBack(key),
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// evictOldest must be called with mu held.
func (c *Cache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, key)
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.Sub(e.stored) > c.ttl {
			c.order.Remove(e.element)
			delete(c.entries, key)
		}
	}
}

// Close stops the sweeper. It is safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
