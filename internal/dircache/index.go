package dircache

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/pjbgf/sha1cd"
)

const (
	indexSignature = "DIRC"
	entryHeaderLen = 62 // fixed-width fields before the variable-length path
)

// Cache is an in-memory view of a git index file: the flat, sorted list of
// entries plus a lazily-built tree of per-directory summaries used to
// drive a tree-walk iterator without re-stat'ing the working tree.
type Cache struct {
	entries []*Entry
	tree    *cacheTree
}

// ReadIndexFile loads and validates the index file at path relative to
// gitDir, verifying its trailing SHA-1 checksum.
func ReadIndexFile(gitDir, name string) (*Cache, error) {
	full, err := securejoin.SecureJoin(gitDir, name)
	if err != nil {
		return nil, fmt.Errorf("dircache: resolve index path: %w", err)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("dircache: open index: %w", err)
	}
	defer f.Close()
	return ReadIndex(f)
}

// ReadIndex parses an index file from r.
func ReadIndex(r io.Reader) (*Cache, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dircache: read index: %w", err)
	}
	if len(body) < 12+20 {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("dircache: index too short (%d bytes)", len(body))}
	}

	want := body[len(body)-20:]
	signed := body[:len(body)-20]
	sum := sha1cd.New()
	sum.Write(signed)
	if got := sum.Sum(nil); string(got) != string(want) {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("dircache: checksum mismatch")}
	}

	br := bufio.NewReader(bytes.NewReader(signed))

	var hdr [12]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("dircache: read header: %w", err)
	}
	if string(hdr[0:4]) != indexSignature {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("dircache: bad signature %q", hdr[0:4])}
	}
	version := binary.BigEndian.Uint32(hdr[4:8])
	if version < 2 || version > 4 {
		return nil, &gitobj.CorruptObjectError{Err: fmt.Errorf("dircache: unsupported index version %d", version)}
	}
	count := binary.BigEndian.Uint32(hdr[8:12])

	entries := make([]*Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := readEntry(br, version)
		if err != nil {
			return nil, fmt.Errorf("dircache: read entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}

	// Extensions (TREE, REUC, ...) run to the end of signed; none of them
	// are needed since the per-directory summary tree is rebuilt fresh
	// from the flat entry list (buildCacheTree) rather than trusted from
	// a possibly stale on-disk cache, so each is skipped by its length.
	for {
		var tag [4]byte
		n, err := io.ReadFull(br, tag[:])
		if err == io.EOF || n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dircache: read extension tag: %w", err)
		}
		var lenBuf [4]byte
		if _, err := io.ReadFull(br, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("dircache: read extension length: %w", err)
		}
		size := binary.BigEndian.Uint32(lenBuf[:])
		if _, err := io.CopyN(io.Discard, br, int64(size)); err != nil {
			return nil, fmt.Errorf("dircache: skip extension %q: %w", tag, err)
		}
	}

	return &Cache{entries: entries}, nil
}

func readEntry(r io.Reader, version uint32) (*Entry, error) {
	var fixed [entryHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, err
	}

	ctimeSec := binary.BigEndian.Uint32(fixed[0:4])
	ctimeNs := binary.BigEndian.Uint32(fixed[4:8])
	mtimeSec := binary.BigEndian.Uint32(fixed[8:12])
	mtimeNs := binary.BigEndian.Uint32(fixed[12:16])
	dev := binary.BigEndian.Uint32(fixed[16:20])
	ino := binary.BigEndian.Uint32(fixed[20:24])
	mode := binary.BigEndian.Uint32(fixed[24:28])
	uid := binary.BigEndian.Uint32(fixed[28:32])
	gid := binary.BigEndian.Uint32(fixed[32:36])
	size := binary.BigEndian.Uint32(fixed[36:40])
	var id gitobj.ID
	copy(id[:], fixed[40:60])
	flags := binary.BigEndian.Uint16(fixed[60:62])

	stage := Stage((flags >> 12) & 0x3)
	assumeValid := flags&0x8000 != 0
	extended := flags&0x4000 != 0
	nameLen := int(flags & 0x0fff)

	var intentToAdd, skipWorktree bool
	if extended && version >= 3 {
		var ext [2]byte
		if _, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, err
		}
		extFlags := binary.BigEndian.Uint16(ext[:])
		skipWorktree = extFlags&0x4000 != 0
		intentToAdd = extFlags&0x2000 != 0
	}

	read := entryHeaderLen
	if extended && version >= 3 {
		read += 2
	}

	var name []byte
	if nameLen < 0x0fff {
		name = make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
		read += nameLen
	} else {
		var buf []byte
		b := make([]byte, 1)
		for {
			if _, err := io.ReadFull(r, b); err != nil {
				return nil, err
			}
			read++
			if b[0] == 0 {
				break
			}
			buf = append(buf, b[0])
		}
		name = buf
		read-- // the NUL terminator just read is the first padding byte
	}

	// Entries are NUL-padded to a multiple of 8 bytes measured from the
	// start of the fixed header.
	pad := 8 - (read % 8)
	if pad == 0 {
		pad = 8
	}
	if nameLen >= 0x0fff {
		pad-- // already consumed as the name's terminator
	}
	if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
		return nil, err
	}

	return &Entry{
		Path:         string(name),
		Stage:        stage,
		Mode:         gitobj.FromBits(int(mode)),
		ID:           id,
		Size:         size,
		CTime:        time.Unix(int64(ctimeSec), int64(ctimeNs)),
		MTime:        time.Unix(int64(mtimeSec), int64(mtimeNs)),
		Dev:          dev,
		Ino:          ino,
		UID:          uid,
		GID:          gid,
		AssumeValid:  assumeValid,
		IntentToAdd:  intentToAdd,
		SkipWorktree: skipWorktree,
	}, nil
}

// Entries returns the flat, sorted list of loaded entries. Callers must
// not mutate the returned slice; use Builder to produce a modified Cache.
func (c *Cache) Entries() []*Entry { return c.entries }

// EntryCount returns the number of entries in the flat list.
func (c *Cache) EntryCount() int { return len(c.entries) }

// Entry returns the entry at flat index i.
func (c *Cache) Entry(i int) *Entry { return c.entries[i] }

// CacheTree returns the root of the per-directory summary tree, building
// it from the flat entry list on first use.
func (c *Cache) CacheTree() *cacheTree {
	if c.tree == nil {
		c.tree = buildCacheTree(c.entries)
	}
	return c.tree
}

// buildCacheTree groups a sorted, flat entry list into nested cacheTree
// nodes by path component, the way DirCache.getCacheTree reconstructs a
// DirCacheTree lazily from dirty entries.
func buildCacheTree(entries []*Entry) *cacheTree {
	root := &cacheTree{entrySpan: len(entries)}
	if len(entries) == 0 {
		return root
	}
	buildLevel(root, entries, 0)
	return root
}

func buildLevel(node *cacheTree, entries []*Entry, depth int) {
	i := 0
	for i < len(entries) {
		e := entries[i]
		comps := strings.Split(e.Path, "/")
		if depth >= len(comps)-1 {
			// File directly in this directory; no subtree to create.
			i++
			continue
		}
		dirName := comps[depth]
		j := i
		for j < len(entries) {
			c2 := strings.Split(entries[j].Path, "/")
			if depth >= len(c2) || c2[depth] != dirName {
				break
			}
			j++
		}
		child := &cacheTree{name: dirName, entrySpan: j - i}
		node.children = append(node.children, child)
		buildLevel(child, entries[i:j], depth+1)
		i = j
	}
	sort.Slice(node.children, func(a, b int) bool { return node.children[a].name < node.children[b].name })
}
