// Package cache provides a byte-bounded LRU used to keep recently touched
// segments parsed and ready for lookups.
package cache

import (
	"container/list"
	"sync"
)

// Sized is implemented by cached values that know their byte weight.
type Sized interface {
	Size() int
}

// LRU is a thread-safe least-recently-used cache bounded by the summed
// Size of its values.
type LRU[K comparable, V Sized] struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	items    map[K]*list.Element
	order    *list.List
}

type lruEntry[K comparable, V Sized] struct {
	key   K
	value V
}

// New creates an LRU holding at most capacity bytes.
func New[K comparable, V Sized](capacity int64) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set caches the value. A value larger than the whole capacity is not
// cached at all.
func (c *LRU[K, V]) Set(key K, value V) {
	weight := int64(value.Size())
	if weight > c.capacity {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		ent := el.Value.(*lruEntry[K, V])
		c.size += weight - int64(ent.value.Size())
		ent.value = value
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&lruEntry[K, V]{key: key, value: value})
		c.items[key] = el
		c.size += weight
	}
	for c.size > c.capacity {
		back := c.order.Back()
		if back == nil {
			break
		}
		c.removeElement(back)
	}
}

// Remove drops the value if present.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

func (c *LRU[K, V]) removeElement(el *list.Element) {
	ent := el.Value.(*lruEntry[K, V])
	c.order.Remove(el)
	delete(c.items, ent.key)
	c.size -= int64(ent.value.Size())
}

// Len returns the number of cached values.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Bytes returns the summed weight of the cached values.
func (c *LRU[K, V]) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}
