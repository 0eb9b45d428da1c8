package dircache

import "github.com/masmgr/bugspots-go/internal/gitobj"

// cacheTree is a cached summary of one directory level of the index,
// mirroring DirCacheTree.java: it records how many flat entries belong to
// this subtree (entrySpan) and, when valid, the object ID of the tree that
// would be written for it, so callers that only need the hash of an
// unmodified subtree never have to re-hash its contents.
type cacheTree struct {
	name     string
	children []*cacheTree
	entrySpan int
	id       gitobj.ID
	valid    bool
}

func (t *cacheTree) entrySpanOf() int { return t.entrySpan }

func (t *cacheTree) childCount() int { return len(t.children) }

func (t *cacheTree) child(i int) *cacheTree { return t.children[i] }

func (t *cacheTree) isValid() bool { return t.valid }

func (t *cacheTree) objectID() gitobj.ID { return t.id }

func (t *cacheTree) nameLength() int { return len(t.name) }

// contains reports whether path[offset:offset+length] names an entry that
// falls inside this subtree, i.e. it has this subtree's name as a
// '/'-terminated prefix starting at offset.
func (t *cacheTree) contains(path string, offset, length int) bool {
	nameLen := len(t.name)
	if length-offset < nameLen {
		return false
	}
	if path[offset:offset+nameLen] != t.name {
		return false
	}
	if nameLen > 0 && (length == offset+nameLen || path[offset+nameLen] != '/') {
		return false
	}
	return true
}

// invalidate marks this tree as needing to be rehashed. Only this node is
// marked: a cacheTree holds no link to its parent, so ancestors keep their
// valid flag.
func (t *cacheTree) invalidate() {
	t.valid = false
}
