package repository

// memPackFile is an in-memory objstore.PackedFile used to exercise the
// pack-entry and delta-resolution logic without a real file on disk, the
// same way objstore's own tests stand in for an on-disk pack.
type memPackFile struct {
	hash int
	data []byte
}

func newMemPackFile(hash int, data []byte) *memPackFile {
	return &memPackFile{hash: hash, data: data}
}

func (p *memPackFile) Length() int64    { return int64(len(p.data)) }
func (p *memPackFile) Hash() int        { return p.hash }
func (p *memPackFile) CacheOpen() error { return nil }
func (p *memPackFile) CacheClose()      {}

func (p *memPackFile) ReadAt(dst []byte, offset int64) (int, error) {
	n := copy(dst, p.data[offset:])
	return n, nil
}

func (p *memPackFile) Mmap(offset int64, size int) ([]byte, func() error, error) {
	return p.data[offset : offset+int64(size)], func() error { return nil }, nil
}
