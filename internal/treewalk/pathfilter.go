package treewalk

import "strings"

// PathFilter matches exactly one path, and everything beneath it when it
// names a directory.
type PathFilter struct {
	path string
}

// NewPathFilter returns a filter for path.
func NewPathFilter(path string) *PathFilter { return &PathFilter{path: path} }

func (f *PathFilter) Include(tw *TreeWalk) (bool, error) {
	p := tw.Path()
	switch isPathPrefix(p, f.path) {
	case 0:
		return true, nil
	case -1:
		// An ancestor directory of f.path is let through so the walk can
		// descend into it.
		return tw.IsSubtree() && strings.HasPrefix(f.path, p+"/"), nil
	default: // cmp > 0: the walk has moved past where f.path could sort
		return false, stopAt()
	}
}

func (f *PathFilter) ShouldBeRecursive() bool { return true }

// PathFilterGroup matches any of a set of paths, stopping the walk only
// once every member has been passed.
type PathFilterGroup struct {
	paths []string
}

// NewPathFilterGroup returns a filter for paths.
func NewPathFilterGroup(paths []string) *PathFilterGroup {
	return &PathFilterGroup{paths: paths}
}

func (g *PathFilterGroup) Include(tw *TreeWalk) (bool, error) {
	p := tw.Path()
	anyAhead := false
	for _, want := range g.paths {
		switch isPathPrefix(p, want) {
		case 0:
			return true, nil
		case -1:
			if tw.IsSubtree() && strings.HasPrefix(want, p+"/") {
				return true, nil
			}
			anyAhead = true
		}
	}
	if !anyAhead {
		return false, stopAt()
	}
	return false, nil
}

func (g *PathFilterGroup) ShouldBeRecursive() bool { return true }

// isPathPrefix compares the walk's current full path against want: 0 when
// want names the current entry or
// an ancestor of it, -1 when the current entry still sorts before want,
// and +1 once the walk has passed every entry that could ever match want.
func isPathPrefix(path, want string) int {
	if path == want {
		return 0
	}
	if strings.HasPrefix(path, want+"/") {
		return 0
	}
	if strings.HasPrefix(want, path+"/") {
		return -1
	}
	if path < want {
		return -1
	}
	return 1
}
