package treewalk

import "github.com/bmatcuk/doublestar/v4"

// GlobFilter accepts entries matching any include pattern and rejects
// those matching any exclude pattern. It mirrors the include/exclude glob
// filtering the repository's change reader already applies to diff
// output, lifted into a filter that can run inline during a walk instead
// of as a post-pass over already-collected paths.
type GlobFilter struct {
	include []string
	exclude []string
}

// NewGlobFilter returns a filter accepting paths matched by include (or
// all paths, when include is empty) and not matched by exclude.
func NewGlobFilter(include, exclude []string) *GlobFilter {
	return &GlobFilter{include: include, exclude: exclude}
}

func (g *GlobFilter) Include(tw *TreeWalk) (bool, error) {
	p := tw.Path()

	if len(g.include) > 0 {
		matched := false
		for _, pat := range g.include {
			if ok, _ := doublestar.Match(pat, p); ok {
				matched = true
				break
			}
			// A directory can match an include pattern through one of
			// its descendants even though the directory path itself
			// does not match; let recursion continue into it.
			if tw.Recursive() && tw.CurrentHead() != nil && tw.CurrentHead().IsSubtree() {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}

	for _, pat := range g.exclude {
		if ok, _ := doublestar.Match(pat, p); ok {
			return false, nil
		}
	}
	return true, nil
}

func (g *GlobFilter) ShouldBeRecursive() bool { return true }
