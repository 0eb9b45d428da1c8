package treewalk

import "github.com/masmgr/bugspots-go/internal/gitobj"

// ForPath locates a single path inside root without walking the rest of
// the tree: it descends directly through each path component, loading
// only the subtrees that lie on the way, and returns the entry's id and
// mode. It reports ok=false, with a zero id and gitobj.ModeMissing, when
// path itself is not found, even if some of its ancestors exist.
func ForPath(db gitobj.Database, root gitobj.ID, path string) (id gitobj.ID, mode gitobj.FileMode, ok bool, err error) {
	if path == "" {
		return gitobj.ZeroID, gitobj.ModeMissing, false, nil
	}

	tw := New(db)
	p, err := NewCanonicalTreeParser(db, root)
	if err != nil {
		return gitobj.ZeroID, gitobj.ModeMissing, false, err
	}
	tw.AddTree(p)
	tw.SetRecursive(false)
	tw.SetFilter(NewPathFilter(path))

	for {
		more, err := tw.Next()
		if err != nil {
			return gitobj.ZeroID, gitobj.ModeMissing, false, err
		}
		if !more {
			return gitobj.ZeroID, gitobj.ModeMissing, false, nil
		}
		if tw.Path() != path {
			// An ancestor directory of path; descend into it and keep
			// looking for the exact match.
			if err := tw.EnterSubtree(); err != nil {
				return gitobj.ZeroID, gitobj.ModeMissing, false, err
			}
			continue
		}
		return tw.ID(0), tw.Mode(), true, nil
	}
}
