package revwalk

import "github.com/masmgr/bugspots-go/internal/gitobj"

// objectPool interns one RevCommit per object id so every generator stage
// in a walk observes the same flags on the same commit, no matter how
// many times that id is reached via different parent edges. It plays the
// role of JGit's RevWalk-owned ObjectIdOwnerMap, implemented as a plain
// map: nothing in this codebase's dependency graph offers a specialized
// id-keyed hash table, and a 20-byte array is already a perfectly good
// map key.
type objectPool struct {
	commits map[gitobj.ID]*RevCommit
}

func newObjectPool() *objectPool {
	return &objectPool{commits: make(map[gitobj.ID]*RevCommit)}
}

// lookupOrCreate returns the interned commit for id, creating an unparsed,
// flagless one on first reference.
func (p *objectPool) lookupOrCreate(id gitobj.ID) *RevCommit {
	if c, ok := p.commits[id]; ok {
		return c
	}
	c := &RevCommit{ID: id}
	p.commits[id] = c
	return c
}

// reset clears every flag bit in mask off every interned commit. Used
// between independent walks that reuse the same RevWalk (and so the same
// pool) to wipe walk-local state; a commit is reparsed on its next use
// only if mask includes FlagParsed, as RevWalk.Reset's does.
func (p *objectPool) reset(mask uint32) {
	for _, c := range p.commits {
		c.flags &^= mask
	}
}
