package revwalk

import (
	"strings"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// RevFilter decides whether a parsed commit belongs in a walk's output.
// Mirrors org.spearce.jgit.revwalk.filter.RevFilter, minus its clone()
// method: nothing here runs the same filter across concurrent walks, so
// there is no shared mutable state a filter would need to clone away
// from.
type RevFilter interface {
	Include(w *RevWalk, c *RevCommit) (bool, error)
}

type allRevFilter struct{}

func (allRevFilter) Include(*RevWalk, *RevCommit) (bool, error) { return true, nil }

// AllFilter is the sentinel accepting every commit.
var AllFilter RevFilter = allRevFilter{}

// mergeBaseRevFilter is a marker sentinel: RevWalk.Next's pipeline
// assembly checks for it by identity and diverts to mergeBaseGenerator
// entirely, so its Include is never actually called.
type mergeBaseRevFilter struct{}

func (mergeBaseRevFilter) Include(*RevWalk, *RevCommit) (bool, error) {
	panic("revwalk: MergeBaseFilter.Include called directly; it should only ever be recognized by identity in pipeline assembly")
}

// MergeBaseFilter is the sentinel that switches a walk into merge-base
// computation mode.
var MergeBaseFilter RevFilter = mergeBaseRevFilter{}

type andRevFilter struct{ a, b RevFilter }

func (f andRevFilter) Include(w *RevWalk, c *RevCommit) (bool, error) {
	ok, err := f.a.Include(w, c)
	if err != nil || !ok {
		return false, err
	}
	return f.b.Include(w, c)
}

// AndFilter returns a filter that includes a commit only when both a and
// b do. If a is AllFilter, b is returned unwrapped (mirrors
// AndRevFilter.create's fast path, letting RewriteTreeFilter compose with
// an unset commit filter for free).
func AndFilter(a, b RevFilter) RevFilter {
	if a == AllFilter {
		return b
	}
	if b == AllFilter {
		return a
	}
	return andRevFilter{a, b}
}

type orRevFilter struct{ a, b RevFilter }

func (f orRevFilter) Include(w *RevWalk, c *RevCommit) (bool, error) {
	ok, err := f.a.Include(w, c)
	if err != nil || ok {
		return ok, err
	}
	return f.b.Include(w, c)
}

// OrFilter returns a filter that includes a commit when either a or b does.
func OrFilter(a, b RevFilter) RevFilter { return orRevFilter{a, b} }

type notRevFilter struct{ f RevFilter }

func (f notRevFilter) Include(w *RevWalk, c *RevCommit) (bool, error) {
	ok, err := f.f.Include(w, c)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// NotFilter negates f.
func NotFilter(f RevFilter) RevFilter { return notRevFilter{f} }

// AuthorFilter matches commits whose author identity line contains
// substr. Grounded on the commit-filter family the walker's data model
// calls for (author, time, merge-base); JGit's equivalent,
// AuthorRevFilter, was not present in this pack's original_source, so
// this is a straightforward port of the same substring-match idea.
type AuthorFilter struct {
	substr string
}

// NewAuthorFilter returns a filter matching commits whose author line
// contains substr.
func NewAuthorFilter(substr string) *AuthorFilter { return &AuthorFilter{substr: substr} }

func (f *AuthorFilter) Include(w *RevWalk, c *RevCommit) (bool, error) {
	if err := w.ensureParsed(c); err != nil {
		return false, err
	}
	return strings.Contains(c.author, f.substr), nil
}

// CommitTimeFilter matches commits whose committer timestamp falls in
// [since, until) seconds since the epoch. Grounded the same way as
// AuthorFilter, mirroring JGit's CommitTimeRevFilter.
type CommitTimeFilter struct {
	since, until int64
}

// NewCommitTimeFilter returns a filter matching commits with
// since <= commitTime < until.
func NewCommitTimeFilter(since, until int64) *CommitTimeFilter {
	return &CommitTimeFilter{since: since, until: until}
}

func (f *CommitTimeFilter) Include(w *RevWalk, c *RevCommit) (bool, error) {
	if err := w.ensureParsed(c); err != nil {
		return false, err
	}
	return c.commitTime >= f.since && c.commitTime < f.until, nil
}

// stopWalk is the control-flow error a RevFilter can raise to end a walk
// early, mirroring org.spearce.jgit.errors.StopWalkException; the pending
// generator behind RevWalk.Next catches it, empties its queue, and reports
// a clean EOF, never propagating it further.
func stopWalk() error { return &gitobj.StopWalkError{} }
