package objstore

import "sync"

// memPackFile is an in-memory PackedFile used across objstore tests so they
// don't need real files on disk to exercise the cache.
type memPackFile struct {
	hash int
	data []byte

	mu       sync.Mutex
	opens    int
	openErr  error
	mmapErr  error
	closedAt int
}

func newMemPackFile(hash int, data []byte) *memPackFile {
	return &memPackFile{hash: hash, data: data}
}

func (p *memPackFile) Length() int64 { return int64(len(p.data)) }
func (p *memPackFile) Hash() int     { return p.hash }

func (p *memPackFile) CacheOpen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openErr != nil {
		return p.openErr
	}
	p.opens++
	return nil
}

func (p *memPackFile) CacheClose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closedAt++
}

func (p *memPackFile) ReadAt(dst []byte, offset int64) (int, error) {
	n := copy(dst, p.data[offset:])
	return n, nil
}

func (p *memPackFile) Mmap(offset int64, size int) ([]byte, func() error, error) {
	if p.mmapErr != nil {
		return nil, nil, p.mmapErr
	}
	return p.data[offset : offset+int64(size)], func() error { return nil }, nil
}
