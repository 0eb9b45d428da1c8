package treewalk

import "github.com/masmgr/bugspots-go/internal/gitobj"

// Filter decides whether the walk should visit and, for subtrees, descend
// into the entry TreeWalk is currently positioned on.
type Filter interface {
	// Include reports whether tw's current entry should be visited. It
	// may return a StopWalkError to end the walk early.
	Include(tw *TreeWalk) (bool, error)
	// ShouldBeRecursive reports whether this filter requires the walk to
	// be recursive to evaluate correctly (a filter matching on a full
	// path below the current depth cannot be evaluated non-recursively).
	ShouldBeRecursive() bool
}

type allFilter struct{}

func (allFilter) Include(tw *TreeWalk) (bool, error) { return true, nil }
func (allFilter) ShouldBeRecursive() bool            { return false }

// All is the sentinel filter that accepts everything.
var All Filter = allFilter{}

type notFilter struct{ f Filter }

func (n notFilter) Include(tw *TreeWalk) (bool, error) {
	ok, err := n.f.Include(tw)
	if err != nil {
		return false, err
	}
	return !ok, nil
}
func (n notFilter) ShouldBeRecursive() bool { return n.f.ShouldBeRecursive() }

// Not negates f. A tree that would stop the walk from f still stops it.
func Not(f Filter) Filter { return notFilter{f} }

type andFilter struct{ a, b Filter }

func (f andFilter) Include(tw *TreeWalk) (bool, error) {
	ok, err := f.a.Include(tw)
	if err != nil || !ok {
		return false, err
	}
	return f.b.Include(tw)
}
func (f andFilter) ShouldBeRecursive() bool { return f.a.ShouldBeRecursive() || f.b.ShouldBeRecursive() }

// And returns a filter that includes an entry only when both a and b do.
func And(a, b Filter) Filter { return andFilter{a, b} }

type orFilter struct{ a, b Filter }

func (f orFilter) Include(tw *TreeWalk) (bool, error) {
	ok, err := f.a.Include(tw)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return f.b.Include(tw)
}
func (f orFilter) ShouldBeRecursive() bool { return f.a.ShouldBeRecursive() || f.b.ShouldBeRecursive() }

// Or returns a filter that includes an entry when either a or b does.
func Or(a, b Filter) Filter { return orFilter{a, b} }

// stopAt returns a StopWalkError, used by filters that want to end the
// walk as soon as they stop matching (e.g. "this far and no further" path
// filters on a sorted input).
func stopAt() error { return &gitobj.StopWalkError{} }
