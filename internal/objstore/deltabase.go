package objstore

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// deltaBaseKey identifies one decompressed delta base payload by the pack
// it came from and its offset within that pack.
type deltaBaseKey struct {
	pack   PackedFile
	offset int64
}

type deltaBaseEntry struct {
	data []byte
}

// DeltaBaseCache holds fully-inflated delta base objects so that chains of
// deltas referencing the same base do not re-inflate it repeatedly. It is a
// byte-bounded cache (bounded by DeltaBaseCacheLimit) kept entirely
// separate from the window array: a window holds raw pack bytes, a delta
// base entry holds inflated object bytes, and the two are evicted
// independently.
type DeltaBaseCache struct {
	mu    sync.Mutex
	limit int64
	used  int64
	lru   *lru.Cache

	// byPack indexes live keys per pack so Purge can remove them without
	// iterating lru.Cache, which exposes no enumeration API.
	byPack map[PackedFile]map[deltaBaseKey]struct{}
}

// NewDeltaBaseCache constructs a cache bounded by limit bytes. groupcache's
// lru.Cache counts entries, not bytes, so eviction is driven by an
// explicit byte budget checked on every insert, with OnEvicted wired to
// keep the budget counter correct.
func NewDeltaBaseCache(limit int64) *DeltaBaseCache {
	c := &DeltaBaseCache{
		limit:  limit,
		byPack: make(map[PackedFile]map[deltaBaseKey]struct{}),
	}
	l := lru.New(0) // unbounded entry count; byte budget is enforced by us.
	l.OnEvicted = func(key lru.Key, value interface{}) {
		dk := key.(deltaBaseKey)
		c.used -= int64(len(value.(*deltaBaseEntry).data))
		if set := c.byPack[dk.pack]; set != nil {
			delete(set, dk)
		}
	}
	c.lru = l
	return c
}

// Get returns the cached inflated payload for (pack, offset), if present.
func (c *DeltaBaseCache) Get(pack PackedFile, offset int64) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(deltaBaseKey{pack, offset})
	if !ok {
		return nil, false
	}
	return v.(*deltaBaseEntry).data, true
}

// Put stores data as the inflated payload for (pack, offset), evicting the
// least-recently-used entries until the new total fits within limit. An
// entry larger than the whole limit is not cached, mirroring the window
// cache's own window-larger-than-limit rejection.
func (c *DeltaBaseCache) Put(pack PackedFile, offset int64, data []byte) {
	if int64(len(data)) > c.limit {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := deltaBaseKey{pack, offset}
	if _, ok := c.lru.Get(key); ok {
		c.lru.Remove(key)
	}

	for c.used+int64(len(data)) > c.limit && c.lru.Len() > 0 {
		c.lru.RemoveOldest()
	}

	c.lru.Add(key, &deltaBaseEntry{data: data})
	c.used += int64(len(data))

	set := c.byPack[pack]
	if set == nil {
		set = make(map[deltaBaseKey]struct{})
		c.byPack[pack] = set
	}
	set[key] = struct{}{}
}

// Purge drops every cached entry belonging to pack, mirroring WindowCache's
// per-pack Purge.
func (c *DeltaBaseCache) Purge(pack PackedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.byPack[pack]
	for key := range set {
		c.lru.Remove(key) // triggers OnEvicted, which also deletes from set
	}
	delete(c.byPack, pack)
}
