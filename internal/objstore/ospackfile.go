package objstore

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// nextPackHash hands out a process-wide increasing ordinal, giving every
// OSPackFile a Hash() that imposes a deterministic, insertion-independent
// ordering in the cache's sorted window index.
var (
	packHashMu sync.Mutex
	packHashN  int
)

func nextPackHash() int {
	packHashMu.Lock()
	defer packHashMu.Unlock()
	packHashN++
	return packHashN
}

// OSPackFile is the on-disk PackedFile implementation: a single *.pack file
// opened lazily and closed once the cache's openCount for it returns to
// zero.
type OSPackFile struct {
	path string
	hash int
	size int64

	mu sync.Mutex
	f  *os.File
}

// OpenOSPackFile stats path without opening it; the backing file descriptor
// is acquired lazily through CacheOpen the first time a window is loaded.
func OpenOSPackFile(path string) (*OSPackFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("objstore: stat %s: %w", path, err)
	}
	return &OSPackFile{path: path, hash: nextPackHash(), size: fi.Size()}, nil
}

func (p *OSPackFile) Length() int64 { return p.size }
func (p *OSPackFile) Hash() int     { return p.hash }

func (p *OSPackFile) CacheOpen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f != nil {
		return nil
	}
	f, err := os.Open(p.path)
	if err != nil {
		return err
	}
	p.f = f
	return nil
}

func (p *OSPackFile) CacheClose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return
	}
	_ = p.f.Close()
	p.f = nil
}

func (p *OSPackFile) ReadAt(dst []byte, offset int64) (int, error) {
	p.mu.Lock()
	f := p.f
	p.mu.Unlock()
	if f == nil {
		return 0, fmt.Errorf("objstore: %s: read on closed pack", p.path)
	}
	return f.ReadAt(dst, offset)
}

func (p *OSPackFile) Mmap(offset int64, size int) ([]byte, func() error, error) {
	p.mu.Lock()
	f := p.f
	p.mu.Unlock()
	if f == nil {
		return nil, nil, fmt.Errorf("objstore: %s: mmap on closed pack", p.path)
	}
	data, err := unix.Mmap(int(f.Fd()), offset, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	unmap := func() error { return unix.Munmap(data) }
	return data, unmap, nil
}

func (p *OSPackFile) String() string { return p.path }
