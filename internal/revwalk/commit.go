package revwalk

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

// Flag bits a RevWalk sets on a RevCommit as it travels through the
// generator pipeline. They are packed into one word the way
// org.spearce.jgit.revwalk.RevCommit.flags does, instead of several bool
// fields, because several generators test and combine them together
// (e.g. "uninteresting and not yet seen").
const (
	// FlagSeen marks a commit already pushed onto the pending queue, so
	// a commit reachable by more than one path is only queued once.
	FlagSeen uint32 = 1 << iota
	// FlagUninteresting marks a commit (and, transitively, its
	// ancestors) as excluded from the walk's output.
	FlagUninteresting
	// FlagParsed marks a commit whose header has already been loaded
	// and decoded; re-parsing is a no-op.
	FlagParsed
	// FlagRewrite is a transient mark the tree-rewrite filter sets on a
	// commit that left every tracked path unchanged against all of its
	// parents; the rewrite generator elides commits carrying it.
	FlagRewrite
	// FlagBoundary marks a commit emitted by the boundary generator: an
	// uninteresting parent of an interesting commit, surfaced so callers
	// can see where the interesting history stops.
	FlagBoundary
	// FlagTopoDelay is a reserved bit; nothing in this package sets it.
	// The topological sort generator tracks held-back commits through
	// RevCommit.inDegree instead.
	FlagTopoDelay
)

// RevCommit is a commit node as the revision walker sees it: identity,
// parsed header fields, and the walk-local flag bits that drive the
// generator pipeline. The same RevCommit is reused for every generator in
// the pipeline for a given walk, so marks set by one stage are visible to
// the next.
type RevCommit struct {
	ID gitobj.ID

	tree       gitobj.ID
	parents    []*RevCommit
	commitTime int64
	author     string
	message    string

	flags uint32

	// inDegree counts parsed children not yet emitted; used only by the
	// topological sort generator, reset to 0 before each topo-sort pass.
	inDegree int
}

func (c *RevCommit) has(f uint32) bool  { return c.flags&f != 0 }
func (c *RevCommit) add(f uint32)       { c.flags |= f }
func (c *RevCommit) remove(f uint32)    { c.flags &^= f }

// Tree returns the id of the tree this commit records, valid once Parse
// has been called.
func (c *RevCommit) Tree() gitobj.ID { return c.tree }

// Parents returns the commit's parent list in the order recorded in the
// commit object, valid once Parse has been called.
func (c *RevCommit) Parents() []*RevCommit { return c.parents }

// CommitTime returns the committer timestamp, seconds since the epoch,
// valid once Parse has been called.
func (c *RevCommit) CommitTime() int64 { return c.commitTime }

// Author returns the raw "<name> <email> <seconds> <tz>" author identity
// line, valid once Parse has been called.
func (c *RevCommit) Author() string { return c.author }

// Message returns the commit's free-text message, valid once Parse has
// been called.
func (c *RevCommit) Message() string { return c.message }

// Uninteresting reports whether this commit is excluded from the walk's
// output: marked through MarkUninteresting, or reached through a commit
// so marked.
func (c *RevCommit) Uninteresting() bool { return c.has(FlagUninteresting) }

// Boundary reports whether this commit was emitted by BoundaryGenerator
// as the uninteresting edge of an otherwise-interesting walk.
func (c *RevCommit) Boundary() bool { return c.has(FlagBoundary) }

// parse loads and decodes the commit's header fields from db, unless
// already parsed. Parent ids are resolved (and interned, not recursively
// parsed) through pool so the whole walk shares one RevCommit per id.
func (c *RevCommit) parse(db gitobj.Database, pool *objectPool) error {
	if c.has(FlagParsed) {
		return nil
	}
	loader, err := db.Open(c.ID)
	if err != nil {
		return err
	}
	defer loader.Close()
	if loader.Type != gitobj.ObjCommit {
		return &gitobj.IncorrectObjectTypeError{ID: c.ID, Expected: gitobj.ObjCommit}
	}
	raw, err := io.ReadAll(loader)
	if err != nil {
		return &gitobj.IoError{Op: "read commit", Err: err}
	}
	if err := c.decode(raw, pool); err != nil {
		return err
	}
	c.add(FlagParsed)
	return nil
}

// decode parses the raw inflated commit payload: a run of "<key> <value>"
// header lines, a blank line, then the free-text message.
func (c *RevCommit) decode(raw []byte, pool *objectPool) error {
	var parents []*RevCommit
	var sawTree bool
	var sawCommitter bool

	for len(raw) > 0 {
		line, rest, ok := cutLine(raw)
		raw = rest
		if !ok {
			return &gitobj.CorruptObjectError{ID: c.ID, Err: fmt.Errorf("revwalk: unterminated commit header")}
		}
		if len(line) == 0 {
			break // blank line separates headers from the message
		}
		key, value, ok := bytes.Cut(line, []byte(" "))
		if !ok {
			return &gitobj.CorruptObjectError{ID: c.ID, Err: fmt.Errorf("revwalk: malformed header line %q", line)}
		}
		switch string(key) {
		case "tree":
			id, err := gitobj.ParseID(string(value))
			if err != nil {
				return &gitobj.CorruptObjectError{ID: c.ID, Err: err}
			}
			c.tree = id
			sawTree = true
		case "parent":
			id, err := gitobj.ParseID(string(value))
			if err != nil {
				return &gitobj.CorruptObjectError{ID: c.ID, Err: err}
			}
			parents = append(parents, pool.lookupOrCreate(id))
		case "author":
			c.author = string(value)
		case "committer":
			ts, err := parseIdentTimestamp(value)
			if err != nil {
				return &gitobj.CorruptObjectError{ID: c.ID, Err: err}
			}
			c.commitTime = ts
			sawCommitter = true
		}
	}
	if !sawTree {
		return &gitobj.CorruptObjectError{ID: c.ID, Err: fmt.Errorf("revwalk: commit missing tree header")}
	}
	if !sawCommitter {
		return &gitobj.CorruptObjectError{ID: c.ID, Err: fmt.Errorf("revwalk: commit missing committer header")}
	}
	c.parents = parents
	c.message = string(raw)
	return nil
}

// cutLine splits raw on the first '\n', returning the line (without the
// newline), the remainder, and whether a newline was found at all.
func cutLine(raw []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return nil, nil, false
	}
	return raw[:i], raw[i+1:], true
}

// parseIdentTimestamp extracts the Unix timestamp out of a
// "<name> <email> <seconds> <tz>" identity line. The timezone offset is
// ignored: commitTime is compared only against other commitTime values
// drawn from the same convention (UTC seconds), never rendered as a
// local wall-clock time by this package.
func parseIdentTimestamp(ident []byte) (int64, error) {
	fields := bytes.Fields(ident)
	if len(fields) < 2 {
		return 0, fmt.Errorf("revwalk: malformed identity line %q", ident)
	}
	ts := fields[len(fields)-2]
	sec, err := strconv.ParseInt(string(ts), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("revwalk: bad timestamp %q: %w", ts, err)
	}
	return sec, nil
}
