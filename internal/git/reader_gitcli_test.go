package git

import "testing"

func TestParseGitNumstat_ModifyAndRename(t *testing.T) {
	body := []byte{}

	// Modify a.txt
	body = append(body, []byte("1\t2\ta.txt")...)
	body = append(body, 0)

	// Rename old.go -> new.go: empty path signals old\0new\0 follows.
	body = append(body, []byte("3\t4\t")...)
	body = append(body, 0)
	body = append(body, []byte("old.go")...)
	body = append(body, 0)
	body = append(body, []byte("new.go")...)
	body = append(body, 0)

	stats, err := parseGitNumstat(body)
	if err != nil {
		t.Fatalf("parseGitNumstat: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %d, expected 2", len(stats))
	}
	if st := stats["a.txt"]; st.added != 1 || st.deleted != 2 {
		t.Fatalf("stats[a.txt] = %#v, expected 1/2", st)
	}
	if st := stats["new.go"]; st.added != 3 || st.deleted != 4 {
		t.Fatalf("stats[new.go] = %#v, expected 3/4", st)
	}
	if _, ok := stats["old.go"]; ok {
		t.Fatalf("expected no entry keyed by the rename's old path")
	}
}

func TestParseGitNumstat_BinaryFileMarkedWithDashes(t *testing.T) {
	body := []byte{}
	body = append(body, []byte("-\t-\timage.png")...)
	body = append(body, 0)

	stats, err := parseGitNumstat(body)
	if err != nil {
		t.Fatalf("parseGitNumstat: %v", err)
	}
	if st := stats["image.png"]; st.added != 0 || st.deleted != 0 {
		t.Fatalf("stats[image.png] = %#v, expected 0/0", st)
	}
}

func TestParseGitNumstat_Empty(t *testing.T) {
	stats, err := parseGitNumstat(nil)
	if err != nil {
		t.Fatalf("parseGitNumstat: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("stats = %d, expected 0", len(stats))
	}
}
