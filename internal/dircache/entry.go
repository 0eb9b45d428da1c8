package dircache

import (
	"time"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// Stage is the merge stage an entry occupies: 0 for a normal, unconflicted
// entry, 1-3 for the base/ours/theirs sides of an unresolved merge.
type Stage int

const (
	StageNormal Stage = 0
	StageBase   Stage = 1
	StageOurs   Stage = 2
	StageTheirs Stage = 3
)

// Entry is one record of a loaded index: a path, its stage, and the stat
// and object metadata git tracks for it.
type Entry struct {
	Path  string
	Stage Stage
	Mode  gitobj.FileMode
	ID    gitobj.ID

	Size  uint32
	CTime time.Time
	MTime time.Time
	Dev   uint32
	Ino   uint32
	UID   uint32
	GID   uint32

	AssumeValid bool
	IntentToAdd bool
	SkipWorktree bool
}

func (e *Entry) idBuffer() gitobj.ID { return e.ID }
