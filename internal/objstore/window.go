package objstore

import "sync"

// byteWindow is an immutable view of [id*W, id*W+size) bytes of one pack.
// Eviction clears it (unmaps/frees the backing bytes); while a cursor holds
// a pin on it through its handle it cannot be cleared.
type byteWindow struct {
	provider PackedFile
	id       int
	offset   int64
	size     int
	data     []byte
	unmap    func() error

	lastAccessed int64

	handle *windowHandle
}

// windowHandle is an explicit reference-counted stand-in for reachability-
// based eviction: a cursor's pin is acquire/release on the handle, and
// AdviseDrop enqueues it on the cache's drain queue, where it is cleared at
// the next drain if nobody holds a pin on it by then, mirroring a
// clearedWindowQueue drained on cache misses.
type windowHandle struct {
	mu      sync.Mutex
	refs    int
	cleared bool
	win     *byteWindow
	cache   *WindowCache
}

func newWindowHandle(cache *WindowCache) *windowHandle {
	return &windowHandle{cache: cache}
}

// acquire pins the window, preventing AdviseDrop from clearing it until a
// matching release. It returns false if the window has already been
// cleared (evicted) and must be reloaded.
func (h *windowHandle) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cleared {
		return false
	}
	h.refs++
	return true
}

// release unpins the window. It does not itself evict the window — a
// released window simply becomes eligible for the next LRU pass; releasing
// a cursor implicitly allows LRU to consider that window again on the next
// miss.
func (h *windowHandle) release() {
	h.mu.Lock()
	if h.refs > 0 {
		h.refs--
	}
	h.mu.Unlock()
}

// pinned reports whether any cursor currently holds this window.
func (h *windowHandle) pinned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs > 0
}

// adviseDrop is the hook external memory pressure (an OS low-memory signal,
// a periodic trim routine, or in these tests, an explicit call) uses to ask
// the window to give up its bytes as soon as nobody is reading through it.
func (h *windowHandle) adviseDrop() {
	h.cache.enqueueIfUnpinned(h)
}

// clear marks the handle cleared and releases the backing bytes. Must be
// called with the cache's mutex held and only once the handle is confirmed
// unpinned.
func (h *windowHandle) clear() {
	h.mu.Lock()
	h.cleared = true
	win := h.win
	h.win = nil
	h.mu.Unlock()
	if win != nil && win.unmap != nil {
		_ = win.unmap()
	}
}
