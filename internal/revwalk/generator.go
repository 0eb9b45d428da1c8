package revwalk

// generator is the minimal producer contract every pipeline stage
// implements: pull the next commit (nil, nil at EOF), and report which of
// the outputType bits below the stage's output already satisfies, so a
// later assembly step can skip redundant work (e.g. not wrapping in
// another topo-sort generator when one is already upstream). Mirrors
// org.spearce.jgit.revwalk.Generator.
type generator interface {
	Next() (*RevCommit, error)
	OutputType() int
}

const (
	// outputSortTopo means output already comes out with every commit
	// ahead of all of its ancestors.
	outputSortTopo = 1 << 0
	// outputHasRewrite means output has a tree-rewrite filter somewhere
	// upstream, so rewrite-marked parents may still need compressing.
	outputHasRewrite = 1 << 1
	// outputNeedsRewrite means output has rewrite-marked parents that
	// have not yet been compressed by a rewrite generator.
	outputNeedsRewrite = 1 << 2
)
