// Package keyedmutex provides per-key exclusive locks. The fulfillment
// engine uses one instance per contended resource class: stock mutations are
// serialized per SKU, and route building is serialized per driver-date pair.
// Operations on different keys never contend.
package keyedmutex

import "sync"

// KeyedMutex hands out one mutex per string key. Mutexes are created lazily
// on first use and retained for the lifetime of the instance; the key space
// (SKUs, driver-date pairs) is bounded, so entries are never evicted.
type KeyedMutex struct {
	locks sync.Map
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the exclusive lock for key, blocking until it is available.
func (m *KeyedMutex) Lock(key string) {
	m.mutex(key).Lock()
}

// Unlock releases the lock for key. Calling Unlock for a key that is not
// locked panics, matching sync.Mutex semantics.
func (m *KeyedMutex) Unlock(key string) {
	m.mutex(key).Unlock()
}

// TryLock acquires the lock for key without blocking. It returns true when
// the lock was acquired. Used by the route planner so that two concurrent
// planning runs for the same driver-date fail fast instead of queueing.
func (m *KeyedMutex) TryLock(key string) bool {
	return m.mutex(key).TryLock()
}

func (m *KeyedMutex) mutex(key string) *sync.Mutex {
	actual, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}
