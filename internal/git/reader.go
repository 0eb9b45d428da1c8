package git

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/masmgr/bugspots-go/internal/objstore"
	"github.com/masmgr/bugspots-go/internal/repository"
	"github.com/masmgr/bugspots-go/internal/revwalk"
	"github.com/masmgr/bugspots-go/internal/treewalk"
)

// HistoryReader reads commit history from a Git repository, walking the
// commit graph with a revwalk.RevWalk and diffing each commit against its
// first parent with a treewalk.TreeWalk.
type HistoryReader struct {
	repo *repository.Repository
	opts ReadOptions

	// filterCache memoizes matchesFilters results across commits: the
	// same path recurs in most repositories' histories, and doublestar
	// glob matching is not free.
	filterCache map[string]bool
}

// NewHistoryReader creates a new history reader for the given repository.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	gitDir, err := ResolveGitDir(opts.RepoPath)
	if err != nil {
		return nil, err
	}

	cacheCfg := opts.Cache
	if cacheCfg == (objstore.CacheConfig{}) {
		cacheCfg = objstore.DefaultCacheConfig()
	}

	repo, err := repository.Open(gitDir, cacheCfg)
	if err != nil {
		return nil, err
	}

	return &HistoryReader{
		repo:        repo,
		opts:        opts,
		filterCache: make(map[string]bool),
	}, nil
}

// Close releases the reader's window cache footprint. Safe to call more
// than once; safe to skip if the process is about to exit anyway.
func (r *HistoryReader) Close() {
	if r.repo != nil {
		r.repo.Close()
	}
}

// ResolveGitDir locates the real git directory for repoPath, supporting
// both a normal working tree (repoPath/.git) and a bare repository
// (repoPath itself).
func ResolveGitDir(repoPath string) (string, error) {
	if fi, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil && fi.IsDir() {
		return filepath.Join(repoPath, ".git"), nil
	}
	if fi, err := os.Stat(filepath.Join(repoPath, "HEAD")); err == nil && !fi.IsDir() {
		return repoPath, nil
	}
	return "", fmt.Errorf("git: %s is not a Git repository", repoPath)
}

// ReadChanges walks commit history from the configured branch (or HEAD),
// diffing each non-root commit against its first parent.
func (r *HistoryReader) ReadChanges(ctx context.Context) ([]CommitChangeSet, error) {
	startID, err := r.resolveStart()
	if err != nil {
		return nil, err
	}

	w := revwalk.New(r.repo)
	if err := w.MarkStart(startID); err != nil {
		return nil, err
	}
	w.Sort(revwalk.CommitTimeDesc)

	sinceUnix, untilUnix := int64(0), int64(math.MaxInt64)
	if r.opts.Since != nil {
		sinceUnix = r.opts.Since.Unix()
		w.SetRevFilter(revwalk.NewCommitTimeFilter(sinceUnix, untilUnix))
	}
	if r.opts.Until != nil {
		untilUnix = r.opts.Until.Unix()
		w.SetRevFilter(revwalk.NewCommitTimeFilter(sinceUnix, untilUnix))
	}

	var results []CommitChangeSet
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := w.Next()
		if err != nil {
			return nil, err
		}
		if c == nil {
			break
		}

		// Commits are emitted newest-first; once one falls below the
		// window's lower bound, every commit after it is older still.
		if r.opts.Since != nil && c.CommitTime() < sinceUnix {
			break
		}

		parents := c.Parents()
		if len(parents) == 0 {
			// Skip commits without parents (initial commit).
			continue
		}

		parent, err := w.LookupCommit(parents[0].ID)
		if err != nil {
			return nil, err
		}

		changes, err := r.diffAgainstParent(ctx, c, parent)
		if err != nil {
			return nil, err
		}
		if len(changes) == 0 {
			continue
		}

		results = append(results, CommitChangeSet{
			Commit:  commitInfoFromRevCommit(c),
			Changes: changes,
		})

		processed++
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(processed)
		}
	}

	return results, nil
}

// resolveStart resolves the reader's configured branch (a short name or a
// full ref) down to a commit id, defaulting to HEAD.
func (r *HistoryReader) resolveStart() (gitobj.ID, error) {
	branch := strings.TrimSpace(r.opts.Branch)
	if branch == "" || strings.EqualFold(branch, "HEAD") {
		return r.repo.ResolveRef("HEAD")
	}
	if id, err := r.repo.ResolveRef("refs/heads/" + branch); err == nil {
		return id, nil
	}
	return r.repo.ResolveRef(branch)
}

// diffAgainstParent walks commit's tree against parent's tree and returns
// the resulting FileChanges, applying include/exclude filters, rename
// pairing, and (when DetailLevel is ChangeDetailFull) line-level churn
// stats.
func (r *HistoryReader) diffAgainstParent(ctx context.Context, commit, parent *revwalk.RevCommit) ([]FileChange, error) {
	left, err := treewalk.NewCanonicalTreeParser(r.repo, parent.Tree())
	if err != nil {
		return nil, err
	}
	right, err := treewalk.NewCanonicalTreeParser(r.repo, commit.Tree())
	if err != nil {
		return nil, err
	}

	tw := treewalk.New(r.repo)
	tw.AddTree(left)
	tw.AddTree(right)
	tw.SetRecursive(true)

	var changes []FileChange
	var leftBlobs, rightBlobs []gitobj.ID
	for {
		more, err := tw.Next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}

		leftMode, rightMode := tw.RawMode(0), tw.RawMode(1)
		if leftMode == rightMode && tw.ID(0) == tw.ID(1) {
			continue
		}

		path := tw.Path()
		matches, err := r.matchesFilters(path)
		if err != nil {
			return nil, err
		}
		if !matches {
			continue
		}

		changes = append(changes, FileChange{
			Path: path,
			Kind: changeKindFromModes(leftMode, rightMode),
		})
		leftBlobs = append(leftBlobs, tw.ID(0))
		rightBlobs = append(rightBlobs, tw.ID(1))
	}

	if r.opts.RenameDetect != RenameDetectOff {
		changes = pairRenames(changes, leftBlobs, rightBlobs)
	}

	if r.opts.DetailLevel == ChangeDetailFull {
		stats, err := r.numstatForCommit(ctx, commit.ID.String())
		if err != nil {
			return nil, err
		}
		for i := range changes {
			if st, ok := stats[changes[i].Path]; ok {
				changes[i].LinesAdded = st.added
				changes[i].LinesDeleted = st.deleted
			}
		}
	}

	return changes, nil
}

// pairRenames folds a deleted entry and an added entry with identical
// blob content into a single Renamed entry. Only exact-content moves are
// detected: similarity-based rename detection would need a content-diff
// library this package does not carry (see DESIGN.md).
func pairRenames(changes []FileChange, leftBlobs, rightBlobs []gitobj.ID) []FileChange {
	deletedByBlob := make(map[gitobj.ID]int)
	for i, ch := range changes {
		if ch.Kind == ChangeKindDeleted && !leftBlobs[i].IsZero() {
			deletedByBlob[leftBlobs[i]] = i
		}
	}

	consumed := make(map[int]bool)
	result := make([]FileChange, 0, len(changes))
	for i, ch := range changes {
		if ch.Kind == ChangeKindAdded && !rightBlobs[i].IsZero() {
			if j, ok := deletedByBlob[rightBlobs[i]]; ok && !consumed[j] {
				consumed[j] = true
				result = append(result, FileChange{
					Path:    ch.Path,
					OldPath: changes[j].Path,
					Kind:    ChangeKindRenamed,
				})
				continue
			}
		}
		if consumed[i] {
			continue
		}
		result = append(result, ch)
	}
	return result
}

func changeKindFromModes(left, right gitobj.FileMode) ChangeKind {
	switch {
	case left.IsMissing():
		return ChangeKindAdded
	case right.IsMissing():
		return ChangeKindDeleted
	default:
		return ChangeKindModified
	}
}

func commitInfoFromRevCommit(c *revwalk.RevCommit) CommitInfo {
	message := c.Message()
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return CommitInfo{
		SHA:     c.ID.String(),
		When:    time.Unix(c.CommitTime(), 0).UTC(),
		Author:  parseIdentity(c.Author()),
		Message: message,
	}
}

// parseIdentity splits a raw "<name> <email> <seconds> <tz>" identity line
// into its name and email parts.
func parseIdentity(raw string) AuthorInfo {
	open := strings.IndexByte(raw, '<')
	shut := strings.IndexByte(raw, '>')
	if open <= 0 || shut <= open {
		return AuthorInfo{Name: strings.TrimSpace(raw)}
	}
	return AuthorInfo{
		Name:  strings.TrimSpace(raw[:open]),
		Email: raw[open+1 : shut],
	}
}

// matchesFilters checks if a path matches the include/exclude filters,
// memoizing the result since the same path recurs across many commits.
func (r *HistoryReader) matchesFilters(path string) (bool, error) {
	path = strings.ReplaceAll(path, "\\", "/")

	if cached, ok := r.filterCache[path]; ok {
		return cached, nil
	}

	matched, err := r.computeMatchesFilters(path)
	if err != nil {
		return false, err
	}
	r.filterCache[path] = matched
	return matched, nil
}

func (r *HistoryReader) computeMatchesFilters(path string) (bool, error) {
	for _, pattern := range r.opts.Exclude {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return false, nil
		}
	}

	if len(r.opts.Include) == 0 {
		return true, nil
	}

	for _, pattern := range r.opts.Include {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}

// ReadChangesWithDateRange is a convenience method to read changes within a date range.
func ReadChangesWithDateRange(repoPath string, since, until time.Time) ([]CommitChangeSet, error) {
	reader, err := NewHistoryReader(ReadOptions{
		RepoPath: repoPath,
		Since:    &since,
		Until:    &until,
	})
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.ReadChanges(context.Background())
}
