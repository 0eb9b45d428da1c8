package revwalk

import (
	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/masmgr/bugspots-go/internal/treewalk"
)

// startGenerator is the placeholder every RevWalk installs as its pending
// generator before the first Next call. Its only job is to assemble the
// real pipeline exactly once — after every MarkStart, MarkUninteresting,
// SetRevFilter, SetTreeFilter, and Sort call a caller is going to make has
// already run — install the result back onto the walk, and replace itself.
// Mirrors org.spearce.jgit.revwalk.StartGenerator.
type startGenerator struct {
	walker *RevWalk
}

func newStartGenerator(w *RevWalk) *startGenerator { return &startGenerator{walker: w} }

func (g *startGenerator) OutputType() int { return 0 }

func (g *startGenerator) Next() (*RevCommit, error) {
	real, err := assemblePipeline(g.walker)
	if err != nil {
		return nil, err
	}
	g.walker.pending = real
	return real.Next()
}

// assemblePipeline builds the generator chain implied by the walk's current
// filters and sort flags. Mirrors StartGenerator.java's next(): a special
// case for merge-base mode, then (for the ordinary case) a queue choice, a
// tree-filter fusion into the commit filter, the base pending generator,
// and finally whichever of rewrite-compression / topological-sort /
// reversal / boundary-wrapping the sort flags called for, each applied only
// when not already satisfied upstream.
func assemblePipeline(w *RevWalk) (generator, error) {
	if w.revFilter == MergeBaseFilter {
		if w.treeFilter != treewalk.All {
			return nil, &gitobj.IllegalStateError{Msg: "revwalk: merge-base mode does not support a tree filter"}
		}
		return newMergeBaseGenerator(w)
	}

	var q revQueue
	if w.hasRevSort(StartOrder) {
		q = newFIFORevQueue()
	} else {
		q = newDateRevQueue()
	}
	drainQueue(q, w.queue)

	rf := w.revFilter
	outputType := 0
	if w.treeFilter != treewalk.All {
		rf = AndFilter(rf, newRewriteTreeFilter(w, w.treeFilter))
		outputType |= outputHasRewrite | outputNeedsRewrite
	}

	var pg generator = newPendingGenerator(w, q, rf, outputType)

	if pg.OutputType()&outputNeedsRewrite != 0 {
		buf := newFIFORevQueue()
		if err := drainGenerator(buf, pg); err != nil {
			return nil, err
		}
		pg = newRewriteGenerator(buf)
	}

	if w.hasRevSort(Topo) && pg.OutputType()&outputSortTopo == 0 {
		tg, err := newTopoSortGenerator(pg)
		if err != nil {
			return nil, err
		}
		pg = tg
	}

	if w.hasRevSort(Reverse) {
		buf := newLIFORevQueue()
		if err := drainGenerator(buf, pg); err != nil {
			return nil, err
		}
		pg = buf
	}

	if w.hasRevSort(Boundary) {
		pg = newBoundaryGenerator(pg)
	}

	return pg, nil
}
