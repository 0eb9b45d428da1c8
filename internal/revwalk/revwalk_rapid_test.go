package revwalk

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// buildRandomDAG builds n commits, each with zero, one, or two parents
// chosen only from strictly earlier commits (so the result is always a
// DAG, never a cycle), with a commit time drawn independently of its
// position so neither construction order nor parent order can be mistaken
// for a timestamp ordering. It returns every commit id in construction
// order (ids[i]'s parents are always a subset of ids[:i]); the head is the
// last, ids[n-1].
func buildRandomDAG(t *rapid.T, db *memDatabase, n int) []gitobj.ID {
	tree := db.emptyTree()
	ids := make([]gitobj.ID, 0, n)
	for i := 0; i < n; i++ {
		var parents []gitobj.ID
		if i > 0 {
			nParents := rapid.IntRange(0, 2).Draw(t, "nParents")
			for p := 0; p < nParents; p++ {
				idx := rapid.IntRange(0, i-1).Draw(t, "parentIdx")
				parents = append(parents, ids[idx])
			}
		}
		commitTime := rapid.Int64Range(0, 1000).Draw(t, "commitTime")
		ids = append(ids, db.commit(tree, parents, "a", commitTime))
	}
	return ids
}

// TestRapidRevWalkTopoSortNeverEmitsACommitBeforeAnyOfItsDescendants checks
// the defining invariant of TOPO output: for every parent edge observed in
// the walk, the child was emitted at an earlier position than the parent.
func TestRapidRevWalkTopoSortNeverEmitsACommitBeforeAnyOfItsDescendants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(t, "n")
		db := newMemDatabase()
		ids := buildRandomDAG(t, db, n)

		w := New(db)
		if err := w.MarkStart(ids[n-1]); err != nil {
			t.Fatalf("MarkStart: %v", err)
		}
		w.Sort(Topo)

		position := map[gitobj.ID]int{}
		var out []*RevCommit
		for {
			c, err := w.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if c == nil {
				break
			}
			position[c.ID] = len(out)
			out = append(out, c)
		}

		for _, c := range out {
			for _, p := range c.Parents() {
				pPos, ok := position[p.ID]
				if !ok {
					continue // parent outside the walk's reachable set never happens here, but guard anyway
				}
				if pPos <= position[c.ID] {
					t.Fatalf("parent %s emitted at or before child %s under TOPO", p.ID, c.ID)
				}
			}
		}
	})
}

// TestRapidRevWalkNeverEmitsTheSameCommitTwice checks that however tangled
// the DAG's shared-ancestor structure is, every commit the walk reaches
// comes out of Next exactly once.
func TestRapidRevWalkNeverEmitsTheSameCommitTwice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 16).Draw(t, "n")
		db := newMemDatabase()
		ids := buildRandomDAG(t, db, n)

		w := New(db)
		if err := w.MarkStart(ids[n-1]); err != nil {
			t.Fatalf("MarkStart: %v", err)
		}

		seen := map[gitobj.ID]bool{}
		for {
			c, err := w.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if c == nil {
				break
			}
			if seen[c.ID] {
				t.Fatalf("commit %s emitted more than once", c.ID)
			}
			seen[c.ID] = true
		}
	})
}

// TestRapidRevWalkMarkUninterestingNeverEmitsTheMarkedCommitOrBeyond checks
// that marking a commit uninteresting excludes it and every commit only
// reachable through it, regardless of how the rest of the DAG is shaped.
func TestRapidRevWalkMarkUninterestingNeverEmitsTheMarkedCommitOrBeyond(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 12).Draw(t, "n")
		db := newMemDatabase()
		ids := buildRandomDAG(t, db, n)
		cut := rapid.IntRange(0, n-2).Draw(t, "cut")

		w := New(db)
		if err := w.MarkStart(ids[n-1]); err != nil {
			t.Fatalf("MarkStart: %v", err)
		}
		if err := w.MarkUninteresting(ids[cut]); err != nil {
			t.Fatalf("MarkUninteresting: %v", err)
		}

		// Commits reachable from the head without passing through ids[cut];
		// every other commit is reachable only through it.
		reach := map[gitobj.ID]bool{}
		lookup := New(db)
		stack := []gitobj.ID{ids[n-1]}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if id == ids[cut] || reach[id] {
				continue
			}
			reach[id] = true
			c, err := lookup.LookupCommit(id)
			if err != nil {
				t.Fatalf("LookupCommit: %v", err)
			}
			for _, p := range c.Parents() {
				stack = append(stack, p.ID)
			}
		}

		for {
			c, err := w.Next()
			if err != nil {
				t.Fatalf("Next: %v", err)
			}
			if c == nil {
				break
			}
			if c.ID == ids[cut] {
				t.Fatalf("commit marked uninteresting was emitted")
			}
			if !reach[c.ID] {
				t.Fatalf("commit %s reachable only through the uninteresting commit was emitted", c.ID)
			}
		}
	})
}
