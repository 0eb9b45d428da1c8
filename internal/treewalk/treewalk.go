package treewalk

import (
	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// frame captures the per-tree state TreeWalk needs to restore once a
// subtree it entered has been fully walked: for each slot, the iterator
// that was live at this level before descending, and whether that slot
// participated in the descent (and so must be advanced past the subtree
// entry on the way back out).
type frame struct {
	parents []Iterator
	tied    []bool
}

// TreeWalk performs an n-way, lexicographic merge walk over any number of
// same-shape tree inputs: object-database trees, a loaded index, or any
// other Iterator implementation, visiting entries that exist in at least
// one input in path order.
type TreeWalk struct {
	db gitobj.Database

	trees     []Iterator
	filter    Filter
	recursive bool

	postOrderTraversal bool
	postChildren       bool

	depth   int
	advance bool
	stack   []*frame

	currentHead Iterator
}

// New returns a walker with no trees added yet. db is used to load subtree
// objects for iterators backed by the object database.
func New(db gitobj.Database) *TreeWalk {
	return &TreeWalk{db: db, filter: All}
}

// AddTree adds one more input to the walk. Trees must be added before the
// first call to Next.
func (tw *TreeWalk) AddTree(it Iterator) {
	tw.trees = append(tw.trees, it)
}

// Reset drops every added tree and all walk state. The filter and the
// recursive and post-order settings are kept.
func (tw *TreeWalk) Reset() {
	tw.trees = nil
	tw.stack = nil
	tw.depth = 0
	tw.advance = false
	tw.postChildren = false
	tw.currentHead = nil
}

// SetFilter installs f, replacing the default "accept everything" filter.
func (tw *TreeWalk) SetFilter(f Filter) {
	if f == nil {
		f = All
	}
	tw.filter = f
}

// SetRecursive controls whether the walk descends into subtrees itself
// (true) or surfaces them as entries the caller must explicitly descend
// into via EnterSubtree (false).
func (tw *TreeWalk) SetRecursive(r bool) { tw.recursive = r }

// Recursive reports the current recursive setting.
func (tw *TreeWalk) Recursive() bool { return tw.recursive }

// SetPostOrderTraversal controls whether a subtree is revisited once more
// after all of its children have been walked (postChildren will be true
// on that revisit).
func (tw *TreeWalk) SetPostOrderTraversal(p bool) { tw.postOrderTraversal = p }

// CurrentHead returns the iterator Next last selected as the walk's
// current position, or nil before the first call to Next.
func (tw *TreeWalk) CurrentHead() Iterator { return tw.currentHead }

// Depth returns the current subtree nesting depth, 0 at the root.
func (tw *TreeWalk) Depth() int { return tw.depth }

// PostChildren reports whether the current call to Next is revisiting a
// subtree after having walked all of its children (only meaningful when
// post-order traversal is enabled).
func (tw *TreeWalk) PostChildren() bool { return tw.postChildren }

// Path returns the full path of the current entry.
func (tw *TreeWalk) Path() string {
	if tw.currentHead == nil {
		return ""
	}
	return tw.currentHead.Path()
}

// Mode returns the mode of the current entry.
func (tw *TreeWalk) Mode() gitobj.FileMode {
	if tw.currentHead == nil {
		return gitobj.ModeMissing
	}
	return tw.currentHead.Mode()
}

// IsSubtree reports whether the current entry is a directory.
func (tw *TreeWalk) IsSubtree() bool {
	return tw.currentHead != nil && tw.currentHead.IsSubtree()
}

// ID returns the object id of tree n's view of the current entry, or
// gitobj.ZeroID if tree n has nothing at this path.
func (tw *TreeWalk) ID(n int) gitobj.ID {
	it := tw.trees[n]
	if it.EOF() || it.Path() != tw.Path() {
		return gitobj.ZeroID
	}
	return it.ID()
}

// RawMode returns the mode bits of tree n's view of the current entry, or
// gitobj.ModeMissing if tree n has nothing at this path.
func (tw *TreeWalk) RawMode(n int) gitobj.FileMode {
	it := tw.trees[n]
	if it.EOF() || it.Path() != tw.Path() {
		return gitobj.ModeMissing
	}
	return it.Mode()
}

// TreeCount returns the number of trees participating in the walk.
func (tw *TreeWalk) TreeCount() int { return len(tw.trees) }

// Next advances the walk to the next entry in path order, returning false
// once every input has been exhausted.
func (tw *TreeWalk) Next() (bool, error) {
	if tw.advance {
		tw.advance = false
		if err := tw.popEntriesEqual(); err != nil {
			return false, err
		}
	}

	for {
		head, err := tw.min()
		if err != nil {
			return false, err
		}
		if head == nil {
			if tw.depth > 0 {
				if err := tw.exitSubtree(); err != nil {
					return false, err
				}
				if tw.postOrderTraversal {
					tw.advance = true
					tw.postChildren = true
					return true, nil
				}
				continue
			}
			return false, nil
		}

		tw.currentHead = head
		tw.postChildren = false

		if tw.filter != All {
			include, ferr := tw.filter.Include(tw)
			if ferr != nil {
				if gitobj.IsStopWalk(ferr) {
					return false, nil
				}
				return false, ferr
			}
			if !include {
				if err := tw.skipEntriesEqual(); err != nil {
					return false, err
				}
				continue
			}
		}

		if tw.recursive && head.IsSubtree() {
			if err := tw.enterSubtree(); err != nil {
				return false, err
			}
			continue
		}

		tw.advance = true
		return true, nil
	}
}

// EnterSubtree descends into the subtree the walk is currently positioned
// on. Only needed when the walk is non-recursive; Next does this
// automatically otherwise.
func (tw *TreeWalk) EnterSubtree() error {
	return tw.enterSubtree()
}

// min finds the lexicographically smallest path among the non-EOF trees
// and tags every tree tied with it so later passes can tell which ones
// participated without recomparing paths.
func (tw *TreeWalk) min() (Iterator, error) {
	var minIt Iterator
	for _, it := range tw.trees {
		it.setMatches(nil)
	}
	for _, it := range tw.trees {
		if it.EOF() {
			continue
		}
		if minIt == nil {
			minIt = it
			continue
		}
		switch comparePaths(it.Path(), it.IsSubtree(), minIt.Path(), minIt.IsSubtree()) {
		case -1:
			minIt = it
		}
	}
	if minIt == nil {
		return nil, nil
	}
	for _, it := range tw.trees {
		if it.EOF() {
			continue
		}
		if comparePaths(it.Path(), it.IsSubtree(), minIt.Path(), minIt.IsSubtree()) == 0 {
			it.setMatches(minIt)
		}
	}
	return minIt, nil
}

// popEntriesEqual advances every tree tied with the current head by one
// entry. skipEntriesEqual is the same operation under a second name, used
// at the call site that skips a filtered-out entry rather than one the
// caller consumed.
func (tw *TreeWalk) popEntriesEqual() error {
	for _, it := range tw.trees {
		if it.matches() == tw.currentHead && !it.EOF() {
			if err := it.Next(1); err != nil {
				return err
			}
		}
	}
	return nil
}

func (tw *TreeWalk) skipEntriesEqual() error { return tw.popEntriesEqual() }

// enterSubtree replaces every tree tied with the current head with an
// iterator over its children (or an empty sentinel, for a tied entry that
// is not itself a directory), pushing a frame that remembers how to
// restore each slot once the subtree has been fully walked.
func (tw *TreeWalk) enterSubtree() error {
	fr := &frame{
		parents: append([]Iterator(nil), tw.trees...),
		tied:    make([]bool, len(tw.trees)),
	}

	for i, it := range tw.trees {
		if it.matches() != tw.currentHead {
			continue
		}
		fr.tied[i] = true
		if it.IsSubtree() {
			child, err := it.CreateSubtreeIterator(tw.db)
			if err != nil {
				return err
			}
			tw.trees[i] = child
		} else {
			tw.trees[i] = NewEmptyTreeIterator(it.Path())
		}
	}

	tw.stack = append(tw.stack, fr)
	tw.depth++
	return nil
}

// exitSubtree restores the tree slots a matching enterSubtree replaced: a
// slot that participated in the descent gets its parent-level iterator
// advanced past the subtree entry; a slot that did not participate is
// restored unchanged, since it was never moved.
func (tw *TreeWalk) exitSubtree() error {
	n := len(tw.stack) - 1
	fr := tw.stack[n]
	tw.stack = tw.stack[:n]
	tw.depth--

	for i, parent := range fr.parents {
		if fr.tied[i] {
			if err := parent.Next(1); err != nil {
				return err
			}
		}
		tw.trees[i] = parent
	}
	return nil
}

// comparePaths orders two entries the way git orders tree records: byte
// lexicographic on the name, with directories compared as if their name
// had a trailing '/' appended.
func comparePaths(aPath string, aTree bool, bPath string, bTree bool) int {
	n := len(aPath)
	if len(bPath) < n {
		n = len(bPath)
	}
	for i := 0; i < n; i++ {
		if aPath[i] != bPath[i] {
			if aPath[i] < bPath[i] {
				return -1
			}
			return 1
		}
	}
	if len(aPath) == len(bPath) {
		return 0
	}
	if len(aPath) < len(bPath) {
		ca := byte(0)
		if aTree {
			ca = '/'
		}
		cb := bPath[len(aPath)]
		if ca == cb {
			return -1
		}
		if ca < cb {
			return -1
		}
		return 1
	}
	cb := byte(0)
	if bTree {
		cb = '/'
	}
	ca := aPath[len(bPath)]
	if ca == cb {
		return 1
	}
	if ca < cb {
		return -1
	}
	return 1
}
