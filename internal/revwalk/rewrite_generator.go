package revwalk

// rewriteGenerator compresses chains of FlagRewrite-marked commits out of
// the graph: a commit whose tree did not change (under the walk's tree
// filter) against every one of its parents is elided, and each child's parent
// pointer is spliced through to the nearest ancestors that did change.
// This is Git's "history simplification" — the shape `git log -- path`
// shows for linear history; a merge is elided only when it matches every
// parent.
// Mirrors org.spearce.jgit.revwalk.RewriteGenerator, grounded on
// StartGenerator.java's NEEDS_REWRITE correction step, which buffers the
// pending generator's full output into a FIFO before feeding it here so
// every ancestor up to any uninteresting cutoff has already been parsed
// and flagged by the time splicing runs.
type rewriteGenerator struct {
	source generator
}

func newRewriteGenerator(source generator) *rewriteGenerator {
	return &rewriteGenerator{source: source}
}

func (g *rewriteGenerator) OutputType() int {
	return g.source.OutputType() &^ outputNeedsRewrite
}

func (g *rewriteGenerator) Next() (*RevCommit, error) {
	for {
		c, err := g.source.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, nil
		}
		if c.has(FlagRewrite) {
			// Elided: its children already splice through it via
			// rewriteParents, which follows live parent pointers
			// rather than depending on emission order.
			continue
		}
		c.parents = rewriteParents(c.parents)
		return c, nil
	}
}

// rewriteParents returns parents with every FlagRewrite-marked entry
// replaced by its own (recursively resolved) non-rewrite ancestors,
// deduplicated, preserving first-seen order.
func rewriteParents(parents []*RevCommit) []*RevCommit {
	if !anyRewrite(parents) {
		return parents
	}
	var out []*RevCommit
	seen := make(map[*RevCommit]bool)
	var walk func(p *RevCommit)
	walk = func(p *RevCommit) {
		if p.has(FlagRewrite) {
			for _, gp := range p.parents {
				walk(gp)
			}
			return
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range parents {
		walk(p)
	}
	return out
}

func anyRewrite(parents []*RevCommit) bool {
	for _, p := range parents {
		if p.has(FlagRewrite) {
			return true
		}
	}
	return false
}
