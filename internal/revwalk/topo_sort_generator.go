package revwalk

// topoSortGenerator buffers its source fully, then emits commits in
// topological order: a commit is emitted only once every descendant of
// it that is also in the buffered set has already been emitted. Kahn's
// algorithm, with in-degree counted as "number of buffered commits that
// have this commit as a parent" (so a commit with in-degree zero has no
// buffered child still waiting on it). Mirrors TopoSortGenerator.java;
// RevCommit.inDegree is a plain field here rather than bits packed into
// the flags word, since a Go struct field is the clearer idiom for a
// per-walk counter and nothing else needs to share that word with it.
type topoSortGenerator struct {
	ready []*RevCommit
	inSet map[*RevCommit]bool
}

func newTopoSortGenerator(source generator) (*topoSortGenerator, error) {
	var all []*RevCommit
	inSet := make(map[*RevCommit]bool)
	for {
		c, err := source.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			break
		}
		all = append(all, c)
		inSet[c] = true
	}

	for _, c := range all {
		c.inDegree = 0
	}
	for _, c := range all {
		for _, p := range c.parents {
			if inSet[p] {
				p.inDegree++
			}
		}
	}

	var ready []*RevCommit
	for _, c := range all {
		if c.inDegree == 0 {
			ready = append(ready, c)
		}
	}
	return &topoSortGenerator{ready: ready, inSet: inSet}, nil
}

func (g *topoSortGenerator) OutputType() int { return outputSortTopo }

func (g *topoSortGenerator) Next() (*RevCommit, error) {
	if len(g.ready) == 0 {
		return nil, nil
	}
	c := g.ready[0]
	g.ready = g.ready[1:]
	for _, p := range c.parents {
		if !g.inSet[p] {
			continue
		}
		p.inDegree--
		if p.inDegree == 0 {
			g.ready = append(g.ready, p)
		}
	}
	return c, nil
}
