package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/bugspots-go/internal/git"
	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/masmgr/bugspots-go/internal/repository"
	"github.com/masmgr/bugspots-go/internal/revwalk"
	"github.com/masmgr/bugspots-go/internal/treewalk"
)

// InspectCmd returns the inspect command: a diagnostic tool that drives the
// window cache, tree walker, and revision walker directly, bypassing the
// rest of the analysis pipeline. Useful for sanity-checking a repository a
// scan is behaving oddly against.
func InspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Low-level repository diagnostics (tree listing, history walk, cache stats)",
		ArgsUsage: "[repository path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Branch or ref to inspect (default: HEAD)",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "Tree path to list (default: repository root)",
			},
			&cli.BoolFlag{
				Name:  "recursive",
				Usage: "List tree entries recursively instead of one level deep",
			},
			&cli.IntFlag{
				Name:  "max-commits",
				Usage: "Number of commits to walk when reporting history",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to configuration file",
			},
		},
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	repoPath := "."
	if c.NArg() > 0 {
		repoPath = c.Args().Get(0)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gitDir, err := git.ResolveGitDir(repoPath)
	if err != nil {
		return err
	}

	repo, err := repository.Open(gitDir, cacheConfigFromConfig(cfg.Cache))
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}
	defer repo.Close()

	ref := c.String("branch")
	if ref == "" {
		ref = "HEAD"
	}
	startID, err := resolveRefOrBranch(repo, ref)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", ref, err)
	}

	w := revwalk.New(repo)
	if err := w.MarkStart(startID); err != nil {
		return err
	}
	w.Sort(revwalk.CommitTimeDesc)

	head, err := w.LookupCommit(startID)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", startID, err)
	}

	colorTitle := color.New(color.FgGreen).Add(color.Underline)

	colorTitle.Println("Tree:")
	if err := listTree(repo, head.Tree(), c.String("path"), c.Bool("recursive")); err != nil {
		return fmt.Errorf("failed to list tree: %w", err)
	}

	fmt.Println()
	colorTitle.Println("History:")
	walked, err := walkHistory(w, c.Int("max-commits"))
	if err != nil {
		return fmt.Errorf("failed to walk history: %w", err)
	}
	fmt.Printf("\twalked %d commit(s) from %s\n", walked, ref)

	fmt.Println()
	colorTitle.Println("Window cache:")
	stats := repo.CacheStats()
	fmt.Printf("\topen windows:   %d\n", stats.OpenWindowCount)
	fmt.Printf("\tresident bytes: %d\n", stats.ResidentBytes)

	return nil
}

// resolveRefOrBranch resolves name as a full ref, then as a short branch
// name under refs/heads/, the same two-step lookup internal/git's history
// reader performs.
func resolveRefOrBranch(repo *repository.Repository, name string) (gitobj.ID, error) {
	if id, err := repo.ResolveRef(name); err == nil {
		return id, nil
	}
	return repo.ResolveRef("refs/heads/" + name)
}

// listTree prints the entries of the tree at path (root when path is
// empty), one per line in `git ls-tree` order: mode, type, id, path.
func listTree(db gitobj.Database, treeID gitobj.ID, path string, recursive bool) error {
	root, err := treewalk.NewCanonicalTreeParser(db, treeID)
	if err != nil {
		return err
	}

	tw := treewalk.New(db)
	tw.AddTree(root)
	tw.SetRecursive(recursive)

	for {
		more, err := tw.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}

		entryPath := tw.Path()
		if path != "" && !withinPath(entryPath, path) {
			continue
		}

		mode := tw.Mode()
		kind := "blob"
		switch {
		case mode.IsTree():
			kind = "tree"
		case mode == gitobj.ModeGitlink:
			kind = "commit"
		}
		fmt.Printf("\t%s %s %s\t%s\n", mode, kind, tw.ID(0), entryPath)
	}

	return nil
}

func withinPath(entryPath, prefix string) bool {
	return entryPath == prefix || len(entryPath) > len(prefix) && entryPath[:len(prefix)] == prefix && entryPath[len(prefix)] == '/'
}

// walkHistory pops up to max commits from w, printing a one-line summary
// of each, and returns how many it actually walked.
func walkHistory(w *revwalk.RevWalk, max int) (int, error) {
	walked := 0
	for walked < max {
		c, err := w.Next()
		if err != nil {
			return walked, err
		}
		if c == nil {
			break
		}

		message := c.Message()
		if idx := strings.IndexByte(message, '\n'); idx != -1 {
			message = message[:idx]
		}
		fmt.Printf("\t%s %s\n", shortID(c.ID), message)
		walked++
	}
	return walked, nil
}

func shortID(id gitobj.ID) string {
	s := id.String()
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
