package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	defaultTTL time.Duration
	sweepEvery time.Duration
	capacity   int
}

// WithDefaultTTL is the lifetime used for Set with a zero ttl. Default 1h.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		if d != 0 {
			o.defaultTTL = d
		}
	}
}

// WithCleanupInterval sets how often expired entries are purged in the
// background, 1m by default. Zero turns the sweeper off; expired entries
// are then dropped when touched.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.sweepEvery = d }
}

// WithMaxEntries bounds the cache, evicting the least recently used entry
// to make room. Zero means no bound.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) { o.capacity = n }
}

// Stats are Memory counters at one point in time.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// node is an entry on the recency list; head is the most recently used.
type node[V any] struct {
	prev, next *node[V]
	expires    time.Time // zero: never
	value      V
	key        string
}

func (n *node[V]) expiredAt(now time.Time) bool {
	return !n.expires.IsZero() && now.After(n.expires)
}

// Memory is an in-process Cache with per-entry expiry and an optional LRU
// bound.
type Memory[V any] struct {
	mu         sync.Mutex
	index      map[string]*node[V]
	head, tail *node[V]
	onEvict    func(key string, value V)
	stop       chan struct{}
	closed     bool
	opts       memoryOptions

	hits, misses, evictions atomic.Uint64
}

// NewMemory starts the sweeper unless it is disabled; stop it with Close.
//
//	c := cache.NewMemory[string](cache.WithDefaultTTL(5*time.Minute), cache.WithMaxEntries(10_000))
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{defaultTTL: time.Hour, sweepEvery: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{index: make(map[string]*node[V]), stop: make(chan struct{}), opts: o}
	if o.sweepEvery > 0 {
		go m.sweepLoop()
	}
	return m
}

// OnEvict sets a callback for every removal: LRU pressure, expiry, Delete
// and Clear. It runs under the cache lock, so it must not use the cache.
func (m *Memory[V]) OnEvict(fn func(key string, value V)) {
	m.mu.Lock()
	m.onEvict = fn
	m.mu.Unlock()
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.live(key, time.Now())
	if n == nil {
		m.misses.Add(1)
		var zero V
		return zero, ErrNotFound
	}
	m.hits.Add(1)
	m.touch(n)
	return n.value, nil
}

func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(key, time.Now()) != nil, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	var expires time.Time
	switch {
	case ttl == 0:
		if m.opts.defaultTTL > 0 {
			expires = time.Now().Add(m.opts.defaultTTL)
		}
	case ttl > 0:
		expires = time.Now().Add(ttl)
	}

	if n, ok := m.index[key]; ok {
		n.value, n.expires = value, expires
		m.touch(n)
		return nil
	}

	if m.opts.capacity > 0 && len(m.index) >= m.opts.capacity && m.tail != nil {
		m.drop(m.tail)
		m.evictions.Add(1)
	}
	n := &node[V]{key: key, value: value, expires: expires}
	m.index[key] = n
	m.pushFront(n)
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if n, ok := m.index[key]; ok {
		m.drop(n)
	}
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for m.head != nil {
		m.drop(m.head)
	}
	return nil
}

// Len counts stored entries, including expired ones not yet purged.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.index)
}

func (m *Memory[V]) Stats() Stats {
	return Stats{
		Hits:      m.hits.Load(),
		Misses:    m.misses.Load(),
		Evictions: m.evictions.Load(),
		Entries:   m.Len(),
	}
}

// Close stops the sweeper and rejects further writes. Reads keep working.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.stop)
		groups.Delete(m)
	}
	return nil
}

func (m *Memory[V]) sweepLoop() {
	t := time.NewTicker(m.opts.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case now := <-t.C:
			m.purge(now)
		}
	}
}

func (m *Memory[V]) purge(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for n := m.tail; n != nil; {
		prev := n.prev
		if n.expiredAt(now) {
			m.drop(n)
		}
		n = prev
	}
}

// The helpers below expect m.mu to be held.

// live returns the entry for key, dropping it first if it has expired.
func (m *Memory[V]) live(key string, now time.Time) *node[V] {
	n, ok := m.index[key]
	if !ok {
		return nil
	}
	if n.expiredAt(now) {
		m.drop(n)
		return nil
	}
	return n
}

func (m *Memory[V]) drop(n *node[V]) {
	m.unlink(n)
	delete(m.index, n.key)
	if m.onEvict != nil {
		m.onEvict(n.key, n.value)
	}
}

func (m *Memory[V]) touch(n *node[V]) {
	if m.head != n {
		m.unlink(n)
		m.pushFront(n)
	}
}

func (m *Memory[V]) pushFront(n *node[V]) {
	n.prev, n.next = nil, m.head
	if m.head != nil {
		m.head.prev = n
	}
	m.head = n
	if m.tail == nil {
		m.tail = n
	}
}

func (m *Memory[V]) unlink(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

var _ Cache[any] = (*Memory[any])(nil)
