package revwalk

// RevSort is a bitmask of sort strategies a RevWalk can combine; the
// pipeline-assembly algorithm in assemblePipeline defines how they interact.
// Mirrors org.spearce.jgit.revwalk.RevSort's enum, collapsed into one
// bitmask type since Go enums don't carry a natural "set of" container.
type RevSort uint

const (
	// CommitTimeDesc emits commits newest-first.
	CommitTimeDesc RevSort = 1 << iota
	// Topo emits every commit strictly before all of its ancestors.
	Topo
	// Reverse emits commits in the opposite of whatever order the rest
	// of the pipeline would otherwise produce.
	Reverse
	// Boundary additionally emits the uninteresting commits immediately
	// adjacent to the interesting set, tagged RevCommit.Boundary.
	Boundary
	// StartOrder emits starting points in the order MarkStart was
	// called, rather than letting a later stage reorder them.
	StartOrder
)

func (s RevSort) has(f RevSort) bool { return s&f != 0 }
