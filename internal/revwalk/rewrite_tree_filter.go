package revwalk

import "github.com/masmgr/bugspots-go/internal/treewalk"

// rewriteTreeFilter never excludes a commit by itself; it marks a commit
// with FlagRewrite when the commit has at least one parent and its tree is
// identical to every parent's tree under the walk's tree filter, meaning
// the path(s) being tracked did not change in that commit. rewriteGenerator
// later compresses FlagRewrite commits out of the emitted graph.
// Mirrors org.spearce.jgit.revwalk.RewriteTreeFilter, fused into the
// commit filter by AndFilter in assemblePipeline's tree-filter-fusion step.
type rewriteTreeFilter struct {
	walker *RevWalk
	paths  treewalk.Filter
}

func newRewriteTreeFilter(w *RevWalk, paths treewalk.Filter) *rewriteTreeFilter {
	return &rewriteTreeFilter{walker: w, paths: paths}
}

func (f *rewriteTreeFilter) Include(w *RevWalk, c *RevCommit) (bool, error) {
	if len(c.parents) == 0 {
		return true, nil
	}
	for _, p := range c.parents {
		if err := w.ensureParsed(p); err != nil {
			return false, err
		}
		changed, err := f.treesDiffer(c, p)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	c.add(FlagRewrite)
	return true, nil
}

// treesDiffer reports whether a and b's trees differ anywhere the path
// filter admits.
func (f *rewriteTreeFilter) treesDiffer(a, b *RevCommit) (bool, error) {
	if a.tree.Equal(b.tree) {
		return false, nil
	}

	left, err := treewalk.NewCanonicalTreeParser(f.walker.db, a.tree)
	if err != nil {
		return false, err
	}
	right, err := treewalk.NewCanonicalTreeParser(f.walker.db, b.tree)
	if err != nil {
		return false, err
	}

	tw := treewalk.New(f.walker.db)
	tw.AddTree(left)
	tw.AddTree(right)
	tw.SetRecursive(true)
	tw.SetFilter(f.paths)

	for {
		more, err := tw.Next()
		if err != nil {
			return false, err
		}
		if !more {
			return false, nil
		}
		if tw.ID(0) != tw.ID(1) || tw.RawMode(0) != tw.RawMode(1) {
			return true, nil
		}
	}
}
