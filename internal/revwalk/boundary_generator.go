package revwalk

// boundaryGenerator passes interesting commits through unchanged; for
// each one, it notes any direct parent already marked uninteresting as a
// boundary candidate. Once the source is exhausted, it emits each
// candidate exactly once, tagged FlagBoundary: the uninteresting commits
// immediately adjacent to the interesting set, not every uninteresting
// ancestor reachable. Mirrors org.spearce.jgit.revwalk.BoundaryGenerator.
type boundaryGenerator struct {
	source generator

	sourceDone bool
	candidates []*RevCommit
	noted      map[*RevCommit]bool
}

func newBoundaryGenerator(source generator) *boundaryGenerator {
	return &boundaryGenerator{source: source, noted: make(map[*RevCommit]bool)}
}

func (g *boundaryGenerator) OutputType() int { return g.source.OutputType() }

func (g *boundaryGenerator) Next() (*RevCommit, error) {
	if !g.sourceDone {
		c, err := g.source.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			g.sourceDone = true
		} else {
			for _, p := range c.parents {
				if p.has(FlagUninteresting) && !g.noted[p] {
					g.noted[p] = true
					g.candidates = append(g.candidates, p)
				}
			}
			return c, nil
		}
	}

	if len(g.candidates) == 0 {
		return nil, nil
	}
	p := g.candidates[0]
	g.candidates = g.candidates[1:]
	p.add(FlagBoundary)
	return p, nil
}
