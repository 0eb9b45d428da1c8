package treewalk

import (
	"github.com/masmgr/bugspots-go/internal/dircache"
	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// DirCacheIterator adapts a dircache.Iterator to the Iterator interface so
// a loaded index can be walked alongside tree objects in the same merge.
type DirCacheIterator struct {
	base
	it *dircache.Iterator
}

// NewDirCacheIterator wraps it.
func NewDirCacheIterator(it *dircache.Iterator) *DirCacheIterator {
	return &DirCacheIterator{it: it}
}

func (d *DirCacheIterator) ID() gitobj.ID         { return d.it.ID() }
func (d *DirCacheIterator) Mode() gitobj.FileMode { return d.it.Mode() }
func (d *DirCacheIterator) Path() string          { return d.it.Path() }
func (d *DirCacheIterator) IsSubtree() bool       { return d.it.IsSubtree() }
func (d *DirCacheIterator) EOF() bool             { return d.it.EOF() }

func (d *DirCacheIterator) Next(delta int) error {
	d.it.Next(delta)
	return nil
}

func (d *DirCacheIterator) Back(delta int) error {
	d.it.Back(delta)
	return nil
}

func (d *DirCacheIterator) CreateSubtreeIterator(db gitobj.Database) (Iterator, error) {
	sub, err := d.it.CreateSubtreeIterator()
	if err != nil {
		return nil, err
	}
	return NewDirCacheIterator(sub), nil
}
