package revwalk

import "github.com/masmgr/bugspots-go/internal/gitobj"

// pendingGenerator is the base producer of the pipeline: it pops one
// commit at a time from a queue, parses it, applies the (possibly
// tree-filter-fused) commit filter, pushes unseen parents back onto the
// queue, and emits survivors. Mirrors PendingGenerator.java.
type pendingGenerator struct {
	walker *RevWalk
	queue  revQueue
	filter RevFilter

	outputType int
}

func newPendingGenerator(w *RevWalk, q revQueue, f RevFilter, outputType int) *pendingGenerator {
	return &pendingGenerator{walker: w, queue: q, filter: f, outputType: outputType}
}

func (g *pendingGenerator) OutputType() int { return g.outputType }

func (g *pendingGenerator) Next() (*RevCommit, error) {
	for {
		c, _ := g.queue.Next()
		if c == nil {
			return nil, nil
		}
		if err := c.parse(g.walker.db, g.walker.pool); err != nil {
			return nil, err
		}

		if c.has(FlagUninteresting) {
			// Never emitted directly: boundaryGenerator finds the
			// boundary frontier from interesting commits' own parent
			// pointers, which already carry this flag. Traversal must
			// still continue into this commit's own parents so a
			// shared ancestor reachable from both sides ends up
			// correctly marked uninteresting too.
			for _, p := range c.parents {
				p.add(FlagUninteresting)
				if p.has(FlagSeen) {
					continue
				}
				p.add(FlagSeen)
				g.queue.add(p)
			}
			continue
		}

		for _, p := range c.parents {
			if p.has(FlagSeen) {
				continue
			}
			p.add(FlagSeen)
			g.queue.add(p)
		}

		include, err := g.filter.Include(g.walker, c)
		if err != nil {
			if gitobj.IsStopWalk(err) {
				g.queue.clear()
				return nil, nil
			}
			return nil, err
		}
		if !include {
			continue
		}
		return c, nil
	}
}
