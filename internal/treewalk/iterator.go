package treewalk

import "github.com/masmgr/bugspots-go/internal/gitobj"

// Iterator is implemented by every kind of tree-shaped input the walker
// can merge: a tree object loaded from the object database, a directory
// cache level, or a sentinel standing in
// for a side that has nothing at this path. All of them expose the same
// "current entry" view so TreeWalk never needs to know which kind it is
// looking at.
type Iterator interface {
	// ID returns the object id named by the current entry. Subtrees that
	// have not been hashed yet may return gitobj.ZeroID.
	ID() gitobj.ID
	// Mode returns the raw mode bits of the current entry.
	Mode() gitobj.FileMode
	// Path returns the full path of the current entry from the walk root.
	Path() string
	// IsSubtree reports whether the current entry is a directory.
	IsSubtree() bool
	// EOF reports whether the cursor has advanced past the last entry at
	// this level.
	EOF() bool
	// Next advances the cursor by delta entries.
	Next(delta int) error
	// Back moves the cursor backward by delta entries. Not every
	// implementation supports this; streaming parsers may return an
	// error.
	Back(delta int) error
	// CreateSubtreeIterator returns an iterator over the directory the
	// cursor currently sits on. db is consulted when the implementation
	// needs to load object bytes; implementations backed by an
	// already-materialized structure ignore it.
	CreateSubtreeIterator(db gitobj.Database) (Iterator, error)

	// matches/setMatches/ tag this iterator with the entry TreeWalk chose
	// as the current minimum during the last comparison pass, so a later
	// pass can tell which iterators were tied together without
	// recomputing path comparisons.
	matches() Iterator
	setMatches(Iterator)
}

// base holds the tie-tracking state shared by every concrete iterator
// implementation; embed it to satisfy the matches/setMatches half of the
// Iterator contract.
type base struct {
	tieMatch Iterator
}

func (b *base) matches() Iterator       { return b.tieMatch }
func (b *base) setMatches(i Iterator)   { b.tieMatch = i }
