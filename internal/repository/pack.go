package repository

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/masmgr/bugspots-go/internal/objstore"
)

// Pack object-type tags as they appear in a pack entry's length header.
// 5 is reserved and never produced by any writer.
const (
	packObjCommit   = 1
	packObjTree     = 2
	packObjBlob     = 3
	packObjTag      = 4
	packObjOfsDelta = 6
	packObjRefDelta = 7
)

// packFile pairs one *.idx with its *.pack, the unit packSet dispatches
// lookups across.
type packFile struct {
	idx *packIndex
	pf  objstore.PackedFile
}

// packSet is every pack a repository has, sharing one WindowCache and one
// DeltaBaseCache across all of them the way a real Git process does: a
// delta chain in one pack commonly bottoms out in a base stored in
// another.
type packSet struct {
	packs      []*packFile
	cache      *objstore.WindowCache
	deltaCache *objstore.DeltaBaseCache

	// resolveOutside is consulted when a REF_DELTA's base is not present
	// in any pack in this set (a thin pack referencing a loose object, or
	// an object that lives in a pack opened after this one). Set by
	// Repository once both the pack set and loose store exist, breaking
	// what would otherwise be a construction-order cycle.
	resolveOutside func(id gitobj.ID) (gitobj.ObjectType, []byte, error)
}

// openPackSet discovers every *.idx/*.pack pair under objects/pack within
// fs and wires them to a shared window cache and delta-base cache. gitDir
// is the real OS directory fs is rooted at: pack files are opened by plain
// OS path rather than through billy, since the window cache's mmap and
// pread windows need a concrete *os.File.
func openPackSet(fs billy.Filesystem, gitDir string, cache *objstore.WindowCache, deltaCache *objstore.DeltaBaseCache) (*packSet, error) {
	ps := &packSet{cache: cache, deltaCache: deltaCache}

	entries, err := fs.ReadDir("objects/pack")
	if err != nil {
		if os.IsNotExist(err) {
			return ps, nil
		}
		return nil, fmt.Errorf("repository: list objects/pack: %w", err)
	}

	for _, fi := range entries {
		name := fi.Name()
		if !strings.HasSuffix(name, ".idx") {
			continue
		}
		base := strings.TrimSuffix(name, ".idx")

		idxFile, err := fs.Open("objects/pack/" + name)
		if err != nil {
			return nil, fmt.Errorf("repository: open %s: %w", name, err)
		}
		idx, err := readPackIndex(idxFile)
		idxFile.Close()
		if err != nil {
			return nil, fmt.Errorf("repository: parse %s: %w", name, err)
		}

		packPath := filepath.Join(gitDir, "objects", "pack", base+".pack")
		pf, err := objstore.OpenOSPackFile(packPath)
		if err != nil {
			return nil, fmt.Errorf("repository: open %s: %w", base+".pack", err)
		}

		ps.packs = append(ps.packs, &packFile{idx: idx, pf: pf})
	}

	return ps, nil
}

func (ps *packSet) hasObject(id gitobj.ID) bool {
	for _, p := range ps.packs {
		if _, ok := p.idx.findOffset(id); ok {
			return true
		}
	}
	return false
}

func (ps *packSet) open(id gitobj.ID) (*gitobj.Loader, error) {
	for _, p := range ps.packs {
		offset, ok := p.idx.findOffset(id)
		if !ok {
			continue
		}
		typ, data, err := ps.deltaBaseAt(p, offset)
		if err != nil {
			return nil, err
		}
		return &gitobj.Loader{Type: typ, Size: int64(len(data)), ReadCloser: io.NopCloser(bytes.NewReader(data))}, nil
	}
	return nil, &gitobj.MissingObjectError{ID: id}
}

// resolveByID is the REF_DELTA base resolver: try every pack's own index
// first (the overwhelmingly common case, a delta and its base in the same
// pack), then fall back to whatever the repository wired in for objects
// living outside this pack set.
func (ps *packSet) resolveByID(id gitobj.ID) (gitobj.ObjectType, []byte, error) {
	for _, p := range ps.packs {
		if offset, ok := p.idx.findOffset(id); ok {
			return ps.deltaBaseAt(p, offset)
		}
	}
	if ps.resolveOutside != nil {
		return ps.resolveOutside(id)
	}
	return gitobj.ObjBad, nil, &gitobj.MissingObjectError{ID: id}
}

// inflateFresh reads and fully resolves the object at byteOffset without
// consulting the delta-base cache for this entry itself (though it may
// consult it, and populate it, for bases found along the way).
func (ps *packSet) inflateFresh(p *packFile, byteOffset int64) (gitobj.ObjectType, []byte, error) {
	cur := objstore.NewCursor(ps.cache)
	defer cur.Release()

	rawType, _, next, err := readPackedHeader(cur, p.pf, byteOffset)
	if err != nil {
		return gitobj.ObjBad, nil, err
	}

	switch rawType {
	case packObjCommit, packObjTree, packObjBlob, packObjTag:
		data, err := inflateZlibFrom(cur, p.pf, next)
		if err != nil {
			return gitobj.ObjBad, nil, err
		}
		return objectTypeFromPackTag(rawType), data, nil

	case packObjOfsDelta:
		relOffset, deltaStart, err := readOfsDeltaBase(cur, p.pf, next)
		if err != nil {
			return gitobj.ObjBad, nil, err
		}
		baseOffset := byteOffset - int64(relOffset)
		baseType, baseData, err := ps.deltaBaseAt(p, baseOffset)
		if err != nil {
			return gitobj.ObjBad, nil, err
		}
		deltaBytes, err := inflateZlibFrom(cur, p.pf, deltaStart)
		if err != nil {
			return gitobj.ObjBad, nil, err
		}
		result, err := applyDelta(baseData, deltaBytes)
		if err != nil {
			return gitobj.ObjBad, nil, &gitobj.CorruptObjectError{Err: err}
		}
		return baseType, result, nil

	case packObjRefDelta:
		var baseID gitobj.ID
		if _, err := cur.Copy(p.pf, next, baseID[:]); err != nil {
			return gitobj.ObjBad, nil, &gitobj.IoError{Op: "read ref-delta base id", Err: err}
		}
		deltaStart := next + gitobj.IDLength
		baseType, baseData, err := ps.resolveByID(baseID)
		if err != nil {
			return gitobj.ObjBad, nil, err
		}
		deltaBytes, err := inflateZlibFrom(cur, p.pf, deltaStart)
		if err != nil {
			return gitobj.ObjBad, nil, err
		}
		result, err := applyDelta(baseData, deltaBytes)
		if err != nil {
			return gitobj.ObjBad, nil, &gitobj.CorruptObjectError{Err: err}
		}
		return baseType, result, nil

	default:
		return gitobj.ObjBad, nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("unrecognized pack object type %d", rawType)}
	}
}

// deltaBaseAt resolves the object at baseOffset within p, consulting the
// delta-base cache keyed by (pack, offset) before re-inflating it. Used
// both for an OFS_DELTA's base and for a top-level Open lookup, so a
// frequently-requested object re-read through the same offset benefits
// from the cache too.
func (ps *packSet) deltaBaseAt(p *packFile, offset int64) (gitobj.ObjectType, []byte, error) {
	if typ, data, ok := ps.cacheGet(p, offset); ok {
		return typ, data, nil
	}
	typ, data, err := ps.inflateFresh(p, offset)
	if err != nil {
		return gitobj.ObjBad, nil, err
	}
	ps.cachePut(p, offset, typ, data)
	return typ, data, nil
}

// cacheGet/cachePut store a one-byte object-type tag ahead of the payload
// in DeltaBaseCache's otherwise type-agnostic byte cache, so a cache hit
// can report the object's type without re-reading the pack to recover it.
func (ps *packSet) cacheGet(p *packFile, offset int64) (gitobj.ObjectType, []byte, bool) {
	tagged, ok := ps.deltaCache.Get(p.pf, offset)
	if !ok || len(tagged) == 0 {
		return gitobj.ObjBad, nil, false
	}
	return gitobj.ObjectType(tagged[0]), tagged[1:], true
}

func (ps *packSet) cachePut(p *packFile, offset int64, typ gitobj.ObjectType, data []byte) {
	tagged := make([]byte, 1+len(data))
	tagged[0] = byte(typ)
	copy(tagged[1:], data)
	ps.deltaCache.Put(p.pf, offset, tagged)
}

func objectTypeFromPackTag(rawType int) gitobj.ObjectType {
	switch rawType {
	case packObjCommit:
		return gitobj.ObjCommit
	case packObjTree:
		return gitobj.ObjTree
	case packObjBlob:
		return gitobj.ObjBlob
	case packObjTag:
		return gitobj.ObjTag
	default:
		return gitobj.ObjBad
	}
}

// readPackedHeader decodes a pack entry's type+size header starting at
// pos: the first byte packs the 3-bit type into bits 4-6 and the low 4
// bits of a little-endian-ish, continuation-flagged size; each further
// byte (while bit 7 is set) contributes 7 more size bits.
func readPackedHeader(cur *objstore.WindowCursor, pf objstore.PackedFile, pos int64) (rawType int, size uint64, next int64, err error) {
	b, err := cur.ReadByte(pf, pos)
	if err != nil {
		return 0, 0, 0, &gitobj.IoError{Op: "read pack object header", Err: err}
	}
	pos++
	rawType = int((b >> 4) & 0x7)
	size = uint64(b & 0x0f)
	shift := uint(4)
	for b&0x80 != 0 {
		b, err = cur.ReadByte(pf, pos)
		if err != nil {
			return 0, 0, 0, &gitobj.IoError{Op: "read pack object header", Err: err}
		}
		pos++
		size |= uint64(b&0x7f) << shift
		shift += 7
	}
	return rawType, size, pos, nil
}

// readOfsDeltaBase decodes an OFS_DELTA's base-offset varint: a different
// encoding than the header's, base-128 with an implicit +1 per
// continuation byte so that every encodable value has a unique
// representation.
func readOfsDeltaBase(cur *objstore.WindowCursor, pf objstore.PackedFile, pos int64) (relOffset uint64, next int64, err error) {
	c, err := cur.ReadByte(pf, pos)
	if err != nil {
		return 0, 0, &gitobj.IoError{Op: "read ofs-delta base offset", Err: err}
	}
	pos++
	relOffset = uint64(c & 0x7f)
	for c&0x80 != 0 {
		c, err = cur.ReadByte(pf, pos)
		if err != nil {
			return 0, 0, &gitobj.IoError{Op: "read ofs-delta base offset", Err: err}
		}
		pos++
		relOffset = ((relOffset + 1) << 7) | uint64(c&0x7f)
	}
	return relOffset, pos, nil
}

// packCursorReader adapts a WindowCursor into an io.Reader over one pack,
// advancing a private position on every Read so compress/zlib can stream
// an object's deflate payload without the caller knowing its compressed
// length up front — the deflate stream itself is self-terminating.
type packCursorReader struct {
	cur *objstore.WindowCursor
	pf  objstore.PackedFile
	pos int64
}

func (r *packCursorReader) Read(p []byte) (int, error) {
	n, err := r.cur.Copy(r.pf, r.pos, p)
	r.pos += int64(n)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

func inflateZlibFrom(cur *objstore.WindowCursor, pf objstore.PackedFile, pos int64) ([]byte, error) {
	zr, err := zlib.NewReader(&packCursorReader{cur: cur, pf: pf, pos: pos})
	if err != nil {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("open delta/object stream: %w", err)}
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("inflate: %w", err)}
	}
	return data, nil
}

// applyDelta replays a git pack delta instruction stream against base,
// producing the delta's target content. The stream opens with the
// source and target sizes (each a base-128 varint, unrelated to the
// offset/header varints above), followed by copy ("bit 7 set: read an
// offset/size pair out of the opcode's low bits") and insert ("bit 7
// clear: the opcode itself is the literal length") instructions.
func applyDelta(base, delta []byte) ([]byte, error) {
	srcSize, pos, err := readDeltaVarint(delta, 0)
	if err != nil {
		return nil, err
	}
	if srcSize != uint64(len(base)) {
		return nil, fmt.Errorf("delta source size %d does not match base length %d", srcSize, len(base))
	}
	dstSize, pos, err := readDeltaVarint(delta, pos)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, 0, dstSize)
	for pos < len(delta) {
		op := delta[pos]
		pos++
		if op&0x80 != 0 {
			var offset, size int
			for i, bit := range [4]byte{0x01, 0x02, 0x04, 0x08} {
				if op&bit != 0 {
					if pos >= len(delta) {
						return nil, fmt.Errorf("truncated copy opcode")
					}
					offset |= int(delta[pos]) << (8 * i)
					pos++
				}
			}
			for i, bit := range [3]byte{0x10, 0x20, 0x40} {
				if op&bit != 0 {
					if pos >= len(delta) {
						return nil, fmt.Errorf("truncated copy opcode")
					}
					size |= int(delta[pos]) << (8 * i)
					pos++
				}
			}
			if size == 0 {
				size = 0x10000
			}
			if offset < 0 || offset+size > len(base) {
				return nil, fmt.Errorf("copy instruction out of range: offset=%d size=%d base=%d", offset, size, len(base))
			}
			dst = append(dst, base[offset:offset+size]...)
		} else if op != 0 {
			n := int(op)
			if pos+n > len(delta) {
				return nil, fmt.Errorf("truncated insert opcode")
			}
			dst = append(dst, delta[pos:pos+n]...)
			pos += n
		} else {
			return nil, fmt.Errorf("reserved delta opcode 0")
		}
	}
	if uint64(len(dst)) != dstSize {
		return nil, fmt.Errorf("delta produced %d bytes, expected %d", len(dst), dstSize)
	}
	return dst, nil
}

func readDeltaVarint(buf []byte, pos int) (uint64, int, error) {
	var size uint64
	shift := uint(0)
	for {
		if pos >= len(buf) {
			return 0, 0, fmt.Errorf("truncated delta varint")
		}
		b := buf[pos]
		pos++
		size |= uint64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	return size, pos, nil
}
