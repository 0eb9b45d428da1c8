package objstore

import "fmt"

// WindowCursor is the per-reader handle: at most one window pinned at a
// time, released either explicitly or implicitly by the next Get through
// the same cursor. A cursor must not be shared across goroutines.
type WindowCursor struct {
	cache *WindowCache
	win   *byteWindow
}

// NewCursor returns a cursor bound to cache. A cursor is cheap and is
// typically stack-allocated per read operation.
func NewCursor(cache *WindowCache) *WindowCursor {
	return &WindowCursor{cache: cache}
}

func (cur *WindowCursor) pin(w *byteWindow) {
	cur.win = w
}

// releaseLocked unpins the cursor's current window. The cache mutex must be
// held: WindowCache.Get already holds it, and Release takes it first.
func (cur *WindowCursor) releaseLocked() {
	if cur.win == nil {
		return
	}
	cur.win.handle.release()
	cur.win = nil
}

// Release unpins whatever window this cursor currently holds. Safe to call
// on an already-released cursor.
func (cur *WindowCursor) Release() {
	if cur.win == nil {
		return
	}
	cur.cache.mu.Lock()
	cur.releaseLocked()
	cur.cache.mu.Unlock()
}

// Copy fills dst starting at absolute offset pos within pack, pinning
// successive windows as needed and releasing each as soon as the next one
// is pinned. A read that spans a window boundary transparently continues
// into the next window.
func (cur *WindowCursor) Copy(pack PackedFile, pos int64, dst []byte) (int, error) {
	total := 0
	for total < len(dst) {
		if err := cur.cache.Get(cur, pack, pos); err != nil {
			return total, err
		}
		w := cur.win
		within := int(pos - w.offset)
		if within < 0 || within > w.size {
			return total, fmt.Errorf("objstore: cursor offset %d outside window [%d,%d)", pos, w.offset, w.offset+int64(w.size))
		}
		n := copy(dst[total:], w.data[within:w.size])
		if n == 0 {
			break
		}
		total += n
		pos += int64(n)
	}
	return total, nil
}

// ReadByte returns the single byte at absolute offset pos within pack.
func (cur *WindowCursor) ReadByte(pack PackedFile, pos int64) (byte, error) {
	var buf [1]byte
	if _, err := cur.Copy(pack, pos, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
