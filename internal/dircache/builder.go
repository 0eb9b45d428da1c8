package dircache

import (
	"fmt"
	"sort"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// Builder constructs a replacement Cache by appending entries, either new
// ones or ones kept verbatim from a source cache. A builder always starts
// from a clean slate; callers re-add every entry the finished cache must
// contain. Entries may be appended out of order — a final sort pass in
// Finish corrects it — but stage violations are still rejected, whether
// they are detected immediately (the fast path, appending in order) or
// only once the final sort runs.
type Builder struct {
	entries []*Entry
	sorted  bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{sorted: true}
}

// Add appends a new entry to the end of the entry list.
func (b *Builder) Add(e *Entry) error {
	if err := b.beforeAdd(e); err != nil {
		return err
	}
	b.entries = append(b.entries, e)
	return nil
}

// Keep appends cnt existing entries from src starting at pos, unmodified.
// Used to carry forward entries in a directory the caller did not touch.
func (b *Builder) Keep(src *Cache, pos, cnt int) error {
	if cnt == 0 {
		return nil
	}
	if err := b.beforeAdd(src.Entry(pos)); err != nil {
		return err
	}
	for i := 0; i < cnt; i++ {
		b.entries = append(b.entries, src.Entry(pos+i))
	}
	return nil
}

func (b *Builder) beforeAdd(newEntry *Entry) error {
	if !b.sorted || len(b.entries) == 0 {
		return nil
	}
	last := b.entries[len(b.entries)-1]
	switch {
	case last.Path > newEntry.Path:
		b.sorted = false
	case last.Path == newEntry.Path:
		if last.Stage == newEntry.Stage {
			return badStage(newEntry, "duplicate stages not allowed")
		}
		if last.Stage == StageNormal || newEntry.Stage == StageNormal {
			return badStage(newEntry, "mixed stages not allowed")
		}
		if last.Stage > newEntry.Stage {
			b.sorted = false
		}
	}
	return nil
}

// Finish sorts the entry list if needed, validates stage invariants across
// the final order, and returns the resulting Cache.
func (b *Builder) Finish() (*Cache, error) {
	if !b.sorted {
		if err := b.resort(); err != nil {
			return nil, err
		}
	}
	return &Cache{entries: b.entries}, nil
}

func (b *Builder) resort() error {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return compareEntries(b.entries[i], b.entries[j]) < 0
	})

	for i := 1; i < len(b.entries); i++ {
		prev, cur := b.entries[i-1], b.entries[i]
		if prev.Path != cur.Path {
			continue
		}
		if prev.Stage == cur.Stage {
			return badStage(cur, "duplicate stages not allowed")
		}
		if prev.Stage == StageNormal || cur.Stage == StageNormal {
			return badStage(cur, "mixed stages not allowed")
		}
	}

	b.sorted = true
	return nil
}

// compareEntries orders entries by path, then by stage — the same key
// DirCache.ENT_CMP sorts on, which is what lets a stable sort alone fix an
// out-of-order append without reshuffling same-path stages.
func compareEntries(a, b *Entry) int {
	if a.Path != b.Path {
		if a.Path < b.Path {
			return -1
		}
		return 1
	}
	return int(a.Stage) - int(b.Stage)
}

func badStage(e *Entry, msg string) error {
	return &gitobj.IllegalStateError{Msg: fmt.Sprintf("%s: stage %d %s", msg, e.Stage, e.Path)}
}
