package objstore

// PackedFile is the provider interface a byte-windowed file implements so
// the cache can load windows over it on demand.
type PackedFile interface {
	// Length returns the total length of the backing file in bytes.
	Length() int64

	// Hash is a stable integer used only to impose a deterministic order
	// among descriptors in the cache's sorted window index.
	Hash() int

	// CacheOpen is invoked by the cache the first time any window of this
	// pack becomes live (openCount transitions 0 -> 1). It should open
	// the underlying OS file handle.
	CacheOpen() error

	// CacheClose is invoked when the pack's openCount returns to zero. It
	// should release the OS file handle.
	CacheClose()

	// ReadAt fills dst from the backing file starting at offset, the way
	// io.ReaderAt does. Used for pread-style (non-mmap) windows.
	ReadAt(dst []byte, offset int64) (int, error)

	// Mmap maps [offset, offset+size) of the backing file and returns the
	// mapped bytes along with an unmap function the cache calls when the
	// window is evicted. Used only when the cache is configured for
	// packedGitMMAP.
	Mmap(offset int64, size int) (data []byte, unmap func() error, err error)
}
