package treewalk

import "github.com/masmgr/bugspots-go/internal/gitobj"

// EmptyTreeIterator stands in for a side of the walk that has nothing at
// the current path: a tree missing a directory another side has, or a
// slot temporarily vacated while TreeWalk descends into a subtree only
// some of the other trees participate in. It is always at EOF.
type EmptyTreeIterator struct {
	base
	path string
}

// NewEmptyTreeIterator returns a sentinel rooted at path.
func NewEmptyTreeIterator(path string) *EmptyTreeIterator {
	return &EmptyTreeIterator{path: path}
}

func (e *EmptyTreeIterator) ID() gitobj.ID       { return gitobj.ZeroID }
func (e *EmptyTreeIterator) Mode() gitobj.FileMode { return gitobj.ModeMissing }
func (e *EmptyTreeIterator) Path() string        { return e.path }
func (e *EmptyTreeIterator) IsSubtree() bool      { return false }
func (e *EmptyTreeIterator) EOF() bool            { return true }
func (e *EmptyTreeIterator) Next(delta int) error { return nil }
func (e *EmptyTreeIterator) Back(delta int) error { return nil }

func (e *EmptyTreeIterator) CreateSubtreeIterator(db gitobj.Database) (Iterator, error) {
	return NewEmptyTreeIterator(e.path), nil
}
