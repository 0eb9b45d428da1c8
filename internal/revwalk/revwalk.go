package revwalk

import (
	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/masmgr/bugspots-go/internal/treewalk"
)

// RevWalk walks a commit graph, producing RevCommits in whatever order its
// sort flags and filters assemble into a generator pipeline. Mirrors
// org.spearce.jgit.revwalk.RevWalk: callers mark starting points and
// (optionally) uninteresting commits, set filters and sort flags, then call
// Next repeatedly until it returns a nil commit.
type RevWalk struct {
	db   gitobj.Database
	pool *objectPool

	queue   revQueue
	pending generator

	revFilter  RevFilter
	treeFilter treewalk.Filter
	sortFlags  RevSort

	// starts holds every commit marked interesting via MarkStart, in call
	// order, for mergeBaseGenerator's two-color ancestor walk. Commits
	// marked only uninteresting are never added here.
	starts []*RevCommit
}

// New returns a walk reading commits out of db.
func New(db gitobj.Database) *RevWalk {
	w := &RevWalk{
		db:         db,
		pool:       newObjectPool(),
		queue:      newFIFORevQueue(),
		revFilter:  AllFilter,
		treeFilter: treewalk.All,
	}
	w.pending = newStartGenerator(w)
	return w
}

// MarkStart adds id as a starting point: it and its ancestors are walked,
// subject to the active filters.
func (w *RevWalk) MarkStart(id gitobj.ID) error {
	c := w.pool.lookupOrCreate(id)
	if err := w.ensureParsed(c); err != nil {
		return err
	}
	w.starts = append(w.starts, c)
	if c.has(FlagSeen) {
		return nil
	}
	c.add(FlagSeen)
	w.queue.add(c)
	return nil
}

// MarkUninteresting adds id as a stopping point: it and everything reachable
// from it are excluded from the walk's output, though BOUNDARY sort can
// still surface the commits directly adjacent to the interesting set.
func (w *RevWalk) MarkUninteresting(id gitobj.ID) error {
	c := w.pool.lookupOrCreate(id)
	if err := w.ensureParsed(c); err != nil {
		return err
	}
	c.add(FlagUninteresting)
	if c.has(FlagSeen) {
		return nil
	}
	c.add(FlagSeen)
	w.queue.add(c)
	return nil
}

// SetRevFilter installs the commit filter applied once every commit has
// been parsed. Defaults to AllFilter.
func (w *RevWalk) SetRevFilter(f RevFilter) { w.revFilter = f }

// SetTreeFilter installs the path filter used both to prune history
// simplification (RewriteTreeFilter) and, by callers that also walk trees
// directly off a returned commit, to scope which entries matter.
func (w *RevWalk) SetTreeFilter(f treewalk.Filter) { w.treeFilter = f }

// Sort sets the walk's output ordering. Defaults to none of the RevSort
// bits set, i.e. whatever order commits naturally pop off the pending
// queue.
func (w *RevWalk) Sort(flags RevSort) { w.sortFlags = flags }

func (w *RevWalk) hasRevSort(f RevSort) bool { return w.sortFlags.has(f) }

// ensureParsed loads c's header fields if they have not been already.
func (w *RevWalk) ensureParsed(c *RevCommit) error { return c.parse(w.db, w.pool) }

// LookupCommit returns the interned RevCommit for id with its header
// fields loaded, without marking it as a walk starting point or queuing
// it for traversal. Mirrors JGit's RevWalk.parseCommit: callers that only
// need a commit's tree or parent list (e.g. to diff against a commit
// already in hand) use this instead of MarkStart, which would also pull
// id and its ancestors into this walk's own output.
func (w *RevWalk) LookupCommit(id gitobj.ID) (*RevCommit, error) {
	c := w.pool.lookupOrCreate(id)
	if err := w.ensureParsed(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Next returns the next commit in the walk's output, or a nil commit (with
// a nil error) once the walk is exhausted. The underlying generator
// pipeline is assembled lazily on the first call, after every MarkStart,
// MarkUninteresting, SetRevFilter, SetTreeFilter, and Sort call has had a
// chance to run.
func (w *RevWalk) Next() (*RevCommit, error) {
	return w.pending.Next()
}

// Reset clears every flag on interned commits, FlagParsed included, and
// discards the assembled pipeline, so the same RevWalk (and its commit
// pool) can be reused for an unrelated walk. Commits are parsed again on
// their next use, which also restores any parent list a tree-filter
// rewrite spliced.
func (w *RevWalk) Reset() {
	w.pool.reset(^uint32(0))
	w.queue = newFIFORevQueue()
	w.starts = nil
	w.pending = newStartGenerator(w)
}
