package dircache

import "testing"

func TestBuilderAddInOrder(t *testing.T) {
	b := NewBuilder()
	for _, p := range []string{"a.txt", "b.txt", "c.txt"} {
		if err := b.Add(&Entry{Path: p}); err != nil {
			t.Fatalf("Add(%s): %v", p, err)
		}
	}
	cache, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if cache.EntryCount() != 3 {
		t.Fatalf("EntryCount = %d, expected 3", cache.EntryCount())
	}
}

func TestBuilderResortsOutOfOrderEntries(t *testing.T) {
	b := NewBuilder()
	for _, p := range []string{"z.txt", "a.txt", "m.txt"} {
		if err := b.Add(&Entry{Path: p}); err != nil {
			t.Fatalf("Add(%s): %v", p, err)
		}
	}
	cache, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	want := []string{"a.txt", "m.txt", "z.txt"}
	for i, w := range want {
		if got := cache.Entry(i).Path; got != w {
			t.Errorf("entry %d = %q, expected %q", i, got, w)
		}
	}
}

func TestBuilderRejectsDuplicateStage(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(&Entry{Path: "a.txt", Stage: StageOurs}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(&Entry{Path: "a.txt", Stage: StageOurs}); err == nil {
		t.Fatalf("expected duplicate-stage error")
	}
}

func TestBuilderRejectsMixedStageWithNormal(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(&Entry{Path: "a.txt", Stage: StageNormal}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(&Entry{Path: "a.txt", Stage: StageOurs}); err == nil {
		t.Fatalf("expected mixed-stage error")
	}
}

func TestBuilderAllowsMergeStagesForSamePath(t *testing.T) {
	b := NewBuilder()
	for _, s := range []Stage{StageBase, StageOurs, StageTheirs} {
		if err := b.Add(&Entry{Path: "a.txt", Stage: s}); err != nil {
			t.Fatalf("Add stage %d: %v", s, err)
		}
	}
	cache, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if cache.EntryCount() != 3 {
		t.Fatalf("EntryCount = %d, expected 3", cache.EntryCount())
	}
}

func TestBuilderDetectsMixedStageOnlyAfterResort(t *testing.T) {
	b := NewBuilder()
	// Out of order, so beforeAdd's fast path cannot compare against the
	// actual neighbor yet; the violation must still surface from resort.
	if err := b.Add(&Entry{Path: "z.txt"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(&Entry{Path: "a.txt", Stage: StageNormal}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(&Entry{Path: "a.txt", Stage: StageOurs}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := b.Finish(); err == nil {
		t.Fatalf("expected mixed-stage error from resort")
	}
}

func TestBuilderKeepCopiesFromSource(t *testing.T) {
	src := &Cache{entries: []*Entry{
		{Path: "a.txt"}, {Path: "b.txt"}, {Path: "c.txt"},
	}}
	b := NewBuilder()
	if err := b.Keep(src, 0, 2); err != nil {
		t.Fatalf("Keep: %v", err)
	}
	cache, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if cache.EntryCount() != 2 {
		t.Fatalf("EntryCount = %d, expected 2", cache.EntryCount())
	}
}
