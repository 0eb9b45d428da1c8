package dircache

import "github.com/masmgr/bugspots-go/internal/gitobj"

// Iterator adapts a loaded Cache to the tree-walk iterator contract,
// making it possible to walk a mix of tree objects and directory-cache
// entries through the same n-way merge. It
// mirrors DirCacheIterator.java, tracking a window [treeStart,treeEnd)
// into the cache's flat entry list that corresponds to one directory
// level of the cacheTree.
type Iterator struct {
	cache *Cache
	tree  *cacheTree

	treeStart int
	treeEnd   int

	ptr            int
	nextSubtreePos int

	currentEntry   *Entry
	currentSubtree *cacheTree

	path   string
	mode   gitobj.FileMode
	pathOffset int
}

// NewIterator returns an iterator positioned at the root of cache.
func NewIterator(cache *Cache) *Iterator {
	t := cache.CacheTree()
	it := &Iterator{
		cache:     cache,
		tree:      t,
		treeStart: 0,
		treeEnd:   t.entrySpanOf(),
	}
	if !it.EOF() {
		it.parseEntry()
	}
	return it
}

func childIterator(parent *Iterator, t *cacheTree) *Iterator {
	it := &Iterator{
		cache:      parent.cache,
		tree:       t,
		treeStart:  parent.ptr,
		pathOffset: len(parent.path) + 1,
	}
	it.treeEnd = it.treeStart + t.entrySpanOf()
	it.ptr = parent.ptr
	it.parseEntry()
	return it
}

// CreateSubtreeIterator returns an iterator over the directory the cursor
// currently sits on, failing if the cursor is not positioned on one.
func (it *Iterator) CreateSubtreeIterator() (*Iterator, error) {
	if it.currentSubtree == nil {
		return nil, &gitobj.IncorrectObjectTypeError{ID: it.ID(), Expected: gitobj.ObjTree}
	}
	return childIterator(it, it.currentSubtree), nil
}

// ID returns the object id this entry/subtree refers to.
func (it *Iterator) ID() gitobj.ID {
	if it.currentSubtree != nil && it.currentSubtree.isValid() {
		return it.currentSubtree.objectID()
	}
	if it.currentEntry != nil {
		return it.currentEntry.ID
	}
	return gitobj.ZeroID
}

// Mode returns the raw mode bits of the current position.
func (it *Iterator) Mode() gitobj.FileMode { return it.mode }

// Path returns the full path string of the current position.
func (it *Iterator) Path() string { return it.path }

// IsSubtree reports whether the cursor is positioned on a directory.
func (it *Iterator) IsSubtree() bool { return it.currentSubtree != nil }

// First reports whether the cursor is at the first position of this level.
func (it *Iterator) First() bool { return it.ptr == it.treeStart }

// EOF reports whether the cursor has advanced past the last position.
func (it *Iterator) EOF() bool { return it.ptr == it.treeEnd }

// Next advances the cursor by delta positions, skipping whole subtrees in
// one step when the cursor currently sits on one.
func (it *Iterator) Next(delta int) {
	for ; delta > 0; delta-- {
		if it.currentSubtree != nil {
			it.ptr += it.currentSubtree.entrySpanOf()
		} else {
			it.ptr++
		}
		if it.EOF() {
			break
		}
		it.parseEntry()
	}
}

// Back moves the cursor backward by delta positions.
func (it *Iterator) Back(delta int) {
	for ; delta > 0; delta-- {
		if it.currentSubtree != nil {
			it.nextSubtreePos--
		}
		it.ptr--
		it.parseEntry()
		if it.currentSubtree != nil {
			it.ptr -= it.currentSubtree.entrySpanOf() - 1
		}
	}
}

// Entry returns the flat cache entry at the current position, or nil when
// the cursor sits on a subtree rather than a file.
func (it *Iterator) Entry() *Entry {
	if it.currentSubtree != nil {
		return nil
	}
	return it.currentEntry
}

func (it *Iterator) parseEntry() {
	e := it.cache.Entry(it.ptr)
	it.currentEntry = e

	if it.nextSubtreePos != it.tree.childCount() {
		s := it.tree.child(it.nextSubtreePos)
		if s.contains(e.Path, it.pathOffset, len(e.Path)) {
			it.currentSubtree = s
			it.nextSubtreePos++
			it.mode = gitobj.ModeTree
			it.path = e.Path[:it.pathOffset+s.nameLength()]
			return
		}
	}

	it.mode = e.Mode
	it.path = e.Path
	it.currentSubtree = nil
}
