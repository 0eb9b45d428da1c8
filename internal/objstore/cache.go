package objstore

import (
	"sort"
	"sync"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// packState tracks the openCount a PackedFile itself does not have to
// carry as mutable state: a pack is logically closed when openCount drops
// to zero. Keeping it cache-side instead of on the provider keeps
// PackedFile implementations dumb.
type packState struct {
	openCount int
}

// WindowCache is the bounded pool of byte windows shared by every open
// pack. All mutating operations are serialized by mu; reading bytes
// through an already-pinned cursor needs no lock.
type WindowCache struct {
	mu sync.Mutex

	cfg             CacheConfig
	windowSizeShift uint
	windowSize      int

	windows       []*byteWindow // sorted by (provider.Hash(), id)
	openByteCount int64
	accessClock   int64

	packs map[PackedFile]*packState

	dropMu    sync.Mutex
	dropQueue []*windowHandle
}

// NewWindowCache constructs a cache with the given configuration.
func NewWindowCache(cfg CacheConfig) (*WindowCache, error) {
	shift, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return &WindowCache{
		cfg:             cfg,
		windowSizeShift: shift,
		windowSize:      cfg.PackedGitWindowSize,
		packs:           make(map[PackedFile]*packState),
	}, nil
}

// capacity returns the maximum number of live windows the current
// configuration allows.
func (c *WindowCache) capacity() int {
	return int(c.cfg.PackedGitLimit) / c.windowSize
}

// Reconfigure applies a new configuration immediately: on limit decrease
// the cache prunes to fit; on window-size or mmap-mode change every window
// is evicted, since none of them are valid under the new geometry.
func (c *WindowCache) Reconfigure(cfg CacheConfig) error {
	shift, err := cfg.validate()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	evictAll := shift != c.windowSizeShift || cfg.PackedGitMMAP != c.cfg.PackedGitMMAP
	prune := !evictAll && cfg.PackedGitLimit < c.cfg.PackedGitLimit

	c.cfg = cfg
	c.windowSizeShift = shift
	c.windowSize = cfg.PackedGitWindowSize

	if evictAll {
		for _, w := range c.windows {
			w.handle.clear()
			c.closeIfIdle(w.provider)
		}
		c.windows = nil
		c.openByteCount = 0
		return nil
	}

	if prune {
		c.releaseMemory(nil, -1, 0)
	}
	return nil
}

// Get pins into cursor the window containing byteOffset of pack, loading it
// on a miss.
func (c *WindowCache) Get(cursor *WindowCursor, pack PackedFile, byteOffset int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cursor.releaseLocked()

	id := int(byteOffset >> c.windowSizeShift)

	if idx, ok := c.find(pack, id); ok {
		w := c.windows[idx]
		if w.handle.acquire() {
			c.accessClock++
			w.lastAccessed = c.accessClock
			cursor.pin(w)
			return nil
		}
	}

	ps := c.packs[pack]
	if ps == nil {
		ps = &packState{}
		c.packs[pack] = ps
	}

	if ps.openCount == 0 {
		if err := pack.CacheOpen(); err != nil {
			return &gitobj.IoError{Op: "cacheOpen", Err: err}
		}
		ps.openCount = 1

		// cacheOpen may have recursively populated the window we are
		// trying to load ourselves; retry the search before loading.
		if idx, ok := c.find(pack, id); ok {
			w := c.windows[idx]
			if w.handle.acquire() {
				c.accessClock++
				w.lastAccessed = c.accessClock
				cursor.pin(w)
				return nil
			}
		}
	} else {
		ps.openCount++
	}

	idx, _ := c.find(pack, id)
	if idx < 0 {
		idx = 0
	}

	wSize := c.windowSizeFor(pack, id)
	idx = c.releaseMemory(pack, idx, wSize)
	if idx < 0 {
		idx = 0
	}

	win, err := c.loadWindow(pack, id, wSize)
	if err != nil {
		ps.openCount--
		if ps.openCount == 0 {
			pack.CacheClose()
		}
		return err
	}
	win.handle.acquire()

	c.windows = append(c.windows, nil)
	copy(c.windows[idx+1:], c.windows[idx:])
	c.windows[idx] = win

	c.accessClock++
	win.lastAccessed = c.accessClock
	c.openByteCount += int64(win.size)

	cursor.pin(win)
	return nil
}

// Purge drops all windows for pack and forces its logical close
// unconditionally, regardless of any live pins.
func (c *WindowCache) Purge(pack PackedFile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.windows[:0:0]
	for _, w := range c.windows {
		if w.provider == pack {
			w.handle.clear()
			c.openByteCount -= int64(w.size)
		} else {
			kept = append(kept, w)
		}
	}
	c.windows = kept

	if ps, ok := c.packs[pack]; ok && ps.openCount > 0 {
		ps.openCount = 0
		pack.CacheClose()
	}
}

// AdviseDrop is an external-pressure hook: any bounded signal (an OS
// low-memory notification, a periodic trim routine) can call this to ask
// the cache to reclaim a window's bytes without waiting for LRU pressure.
// The request is acted on at the next drain; a window still pinned at that
// point stays live and the request is discarded.
func (c *WindowCache) AdviseDrop(pack PackedFile, byteOffset int64) {
	c.mu.Lock()
	id := int(byteOffset >> c.windowSizeShift)
	idx, ok := c.find(pack, id)
	var h *windowHandle
	if ok {
		h = c.windows[idx].handle
	}
	c.mu.Unlock()
	if h != nil {
		h.adviseDrop()
	}
}

// enqueueIfUnpinned is called by windowHandle.adviseDrop; the drop queue is
// kept separate from the cache mutex so advise-drop signals never block on
// cache contention.
func (c *WindowCache) enqueueIfUnpinned(h *windowHandle) {
	c.dropMu.Lock()
	c.dropQueue = append(c.dropQueue, h)
	c.dropMu.Unlock()
}

// drainCleared pops every handle queued by AdviseDrop/enqueueIfUnpinned and
// removes any that are still unpinned from the live index. It is called by
// releaseMemory, which runs when Get misses and when Reconfigure lowers the
// limit.
func (c *WindowCache) drainCleared(willRead PackedFile) {
	c.dropMu.Lock()
	queued := c.dropQueue
	c.dropQueue = nil
	c.dropMu.Unlock()

	for _, h := range queued {
		if h.pinned() {
			continue // reacquired before we got to it; leave it live.
		}
		idx := c.indexOf(h)
		if idx < 0 {
			continue // already evicted by LRU or a prior drain pass.
		}
		w := c.windows[idx]
		h.clear()
		c.openByteCount -= int64(w.size)
		c.windows = append(c.windows[:idx], c.windows[idx+1:]...)
		c.closeIfIdleUnless(w.provider, willRead)
	}
}

func (c *WindowCache) indexOf(h *windowHandle) int {
	for i, w := range c.windows {
		if w.handle == h {
			return i
		}
	}
	return -1
}

// releaseMemory drains cleared windows, then evicts unpinned live windows
// in ascending lastAccessed order until the cache is back within its
// capacity and byte-count limits.
func (c *WindowCache) releaseMemory(willRead PackedFile, insertionIndex int, willAdd int) int {
	c.drainCleared(willRead)

	maxWindowCount := c.capacity()
	for len(c.windows) >= maxWindowCount ||
		(len(c.windows) > 0 && c.openByteCount+int64(willAdd) > c.cfg.PackedGitLimit) {
		oldest := -1
		for i, w := range c.windows {
			if w.handle.pinned() {
				continue
			}
			if oldest < 0 || w.lastAccessed < c.windows[oldest].lastAccessed {
				oldest = i
			}
		}
		if oldest < 0 {
			// Everything live is pinned; we cannot make room.
			break
		}

		w := c.windows[oldest]
		w.handle.clear()
		c.openByteCount -= int64(w.size)
		c.windows = append(c.windows[:oldest], c.windows[oldest+1:]...)
		c.closeIfIdleUnless(w.provider, willRead)

		if insertionIndex >= 0 && oldest < insertionIndex {
			insertionIndex--
		}
	}

	if insertionIndex < 0 {
		return 0
	}
	return insertionIndex
}

func (c *WindowCache) closeIfIdleUnless(p PackedFile, willRead PackedFile) {
	ps := c.packs[p]
	if ps == nil {
		return
	}
	ps.openCount--
	if ps.openCount == 0 && p != willRead {
		p.CacheClose()
	}
}

func (c *WindowCache) closeIfIdle(p PackedFile) {
	c.closeIfIdleUnless(p, nil)
}

// find performs a binary search over the sorted window index.
func (c *WindowCache) find(pack PackedFile, id int) (int, bool) {
	h := pack.Hash()
	i := sort.Search(len(c.windows), func(i int) bool {
		w := c.windows[i]
		if w.provider.Hash() != h {
			return w.provider.Hash() >= h
		}
		return w.id >= id
	})
	if i < len(c.windows) && c.windows[i].provider == pack && c.windows[i].id == id {
		return i, true
	}
	return i, false
}

func (c *WindowCache) windowSizeFor(pack PackedFile, id int) int {
	length := pack.Length()
	pos := int64(id) << c.windowSizeShift
	if length < pos+int64(c.windowSize) {
		return int(length - pos)
	}
	return c.windowSize
}

func (c *WindowCache) loadWindow(pack PackedFile, id int, size int) (*byteWindow, error) {
	offset := int64(id) << c.windowSizeShift

	win := &byteWindow{provider: pack, id: id, offset: offset, size: size}
	win.handle = newWindowHandle(c)
	win.handle.win = win

	if c.cfg.PackedGitMMAP {
		data, unmap, err := pack.Mmap(offset, size)
		if err != nil {
			return nil, &gitobj.IoError{Op: "mmap", Err: err}
		}
		win.data = data
		win.unmap = unmap
		return win, nil
	}

	buf := make([]byte, size)
	if _, err := pack.ReadAt(buf, offset); err != nil {
		return nil, &gitobj.IoError{Op: "pread", Err: err}
	}
	win.data = buf
	return win, nil
}

// Stats is a point-in-time snapshot used by tests and diagnostics.
type Stats struct {
	OpenWindowCount int
	ResidentBytes   int64
}

// Stats reports the cache's current occupancy.
func (c *WindowCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{OpenWindowCount: len(c.windows), ResidentBytes: c.openByteCount}
}
