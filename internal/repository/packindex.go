package repository

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/pjbgf/sha1cd"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// packIndexMagic is the four-byte signature that opens a version-2 pack
// index; version 1 (which omits it and starts straight in on the fan-out
// table) is old enough that no writer still produces it, so only v2 is
// supported here.
var packIndexMagic = [4]byte{0xff, 't', 'O', 'c'}

// packIndex is a parsed .idx file: the 256-entry fan-out table plus the
// sorted id, CRC32, and pack-offset tables it indexes into.
type packIndex struct {
	fanout  [256]uint32
	ids     []gitobj.ID
	crc32s  []uint32
	offsets []uint64
}

// readPackIndex parses a v2 pack index from r, verifying its trailing
// SHA-1 checksum over everything but the checksum itself.
func readPackIndex(r io.Reader) (*packIndex, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("repository: read pack index: %w", err)
	}
	if len(body) < 20 {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("pack index too short (%d bytes)", len(body))}
	}

	signed := body[:len(body)-20]
	want := body[len(body)-20:]
	sum := sha1cd.New()
	sum.Write(signed)
	if got := sum.Sum(nil); string(got) != string(want) {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("pack index checksum mismatch")}
	}

	if len(signed) < 8 || signed[0] != packIndexMagic[0] || signed[1] != packIndexMagic[1] ||
		signed[2] != packIndexMagic[2] || signed[3] != packIndexMagic[3] {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("not a version-2 pack index (missing magic)")}
	}
	version := binary.BigEndian.Uint32(signed[4:8])
	if version != 2 {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("unsupported pack index version %d", version)}
	}

	pos := 8
	var idx packIndex
	for i := 0; i < 256; i++ {
		if pos+4 > len(signed) {
			return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("truncated fan-out table")}
		}
		idx.fanout[i] = binary.BigEndian.Uint32(signed[pos : pos+4])
		pos += 4
	}
	n := int(idx.fanout[255])

	idx.ids = make([]gitobj.ID, n)
	for i := 0; i < n; i++ {
		if pos+gitobj.IDLength > len(signed) {
			return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("truncated id table")}
		}
		copy(idx.ids[i][:], signed[pos:pos+gitobj.IDLength])
		pos += gitobj.IDLength
	}

	idx.crc32s = make([]uint32, n)
	for i := 0; i < n; i++ {
		if pos+4 > len(signed) {
			return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("truncated crc32 table")}
		}
		idx.crc32s[i] = binary.BigEndian.Uint32(signed[pos : pos+4])
		pos += 4
	}

	offsets32 := make([]uint32, n)
	for i := 0; i < n; i++ {
		if pos+4 > len(signed) {
			return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("truncated offset table")}
		}
		offsets32[i] = binary.BigEndian.Uint32(signed[pos : pos+4])
		pos += 4
	}

	idx.offsets = make([]uint64, n)
	for i, v := range offsets32 {
		if v&0x80000000 == 0 {
			idx.offsets[i] = uint64(v)
			continue
		}
		extIdx := int(v &^ 0x80000000)
		extPos := pos + extIdx*8
		if extPos+8 > len(signed) {
			return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("truncated 8-byte offset table")}
		}
		idx.offsets[i] = binary.BigEndian.Uint64(signed[extPos : extPos+8])
	}

	return &idx, nil
}

// findOffset returns the pack-file offset of id, and whether it was found.
// ids is sorted within each fan-out bucket, so the search within a bucket
// is a binary search rather than a linear scan.
func (idx *packIndex) findOffset(id gitobj.ID) (int64, bool) {
	lo := 0
	if id[0] > 0 {
		lo = int(idx.fanout[id[0]-1])
	}
	hi := int(idx.fanout[id[0]])

	i := lo + sort.Search(hi-lo, func(i int) bool {
		return !gitobj.Less(idx.ids[lo+i], id)
	})
	if i >= hi || idx.ids[i] != id {
		return 0, false
	}
	return int64(idx.offsets[i]), true
}
