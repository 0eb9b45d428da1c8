package repository

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/masmgr/bugspots-go/internal/gitobj"
)

const maxSymrefDepth = 5

// resolveRef resolves name (HEAD, a full ref like refs/heads/main, or a raw
// hex id) down to a concrete object id, following symbolic refs ("ref:
// <target>") and falling back to the packed-refs file when no loose ref
// file exists.
func resolveRef(fs billy.Filesystem, name string) (gitobj.ID, error) {
	return resolveRefDepth(fs, name, 0)
}

func resolveRefDepth(fs billy.Filesystem, name string, depth int) (gitobj.ID, error) {
	if depth > maxSymrefDepth {
		return gitobj.ID{}, fmt.Errorf("repository: ref %q: too many levels of symbolic indirection", name)
	}

	if id, err := gitobj.ParseID(name); err == nil {
		return id, nil
	}

	content, err := readLooseRef(fs, name)
	if err != nil {
		return gitobj.ID{}, err
	}
	if content == "" {
		id, ok, err := lookupPackedRef(fs, name)
		if err != nil {
			return gitobj.ID{}, err
		}
		if !ok {
			return gitobj.ID{}, fmt.Errorf("repository: unresolved ref %q", name)
		}
		return id, nil
	}

	if target, ok := strings.CutPrefix(content, "ref: "); ok {
		return resolveRefDepth(fs, strings.TrimSpace(target), depth+1)
	}

	id, err := gitobj.ParseID(content)
	if err != nil {
		return gitobj.ID{}, fmt.Errorf("repository: ref %q: %w", name, err)
	}
	return id, nil
}

// readLooseRef returns the trimmed contents of a loose ref file (HEAD or
// refs/...), or "" if no such file exists.
func readLooseRef(fs billy.Filesystem, name string) (string, error) {
	f, err := fs.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("repository: open ref %q: %w", name, err)
	}
	defer f.Close()
	body, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("repository: read ref %q: %w", name, err)
	}
	return strings.TrimSpace(string(body)), nil
}

// lookupPackedRef scans packed-refs for name, which git writes as
// "<id> <name>" lines once a ref's loose file has been folded away.
func lookupPackedRef(fs billy.Filesystem, name string) (gitobj.ID, bool, error) {
	f, err := fs.Open("packed-refs")
	if err != nil {
		if os.IsNotExist(err) {
			return gitobj.ID{}, false, nil
		}
		return gitobj.ID{}, false, fmt.Errorf("repository: open packed-refs: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			continue
		}
		if line[sp+1:] != name {
			continue
		}
		id, err := gitobj.ParseID(line[:sp])
		if err != nil {
			return gitobj.ID{}, false, fmt.Errorf("repository: packed-refs: %w", err)
		}
		return id, true, nil
	}
	if err := sc.Err(); err != nil {
		return gitobj.ID{}, false, fmt.Errorf("repository: read packed-refs: %w", err)
	}
	return gitobj.ID{}, false, nil
}

// listBranches returns every ref name under refs/heads/, from both loose
// files and packed-refs, deduplicated with loose taking precedence (the
// same rule Git itself applies: a loose ref shadows a packed one).
func listBranches(fs billy.Filesystem) ([]string, error) {
	seen := map[string]bool{}
	var names []string

	var walk func(prefix string) error
	walk = func(prefix string) error {
		entries, err := fs.ReadDir(prefix)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, fi := range entries {
			full := prefix + "/" + fi.Name()
			if fi.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			if !seen[full] {
				seen[full] = true
				names = append(names, full)
			}
		}
		return nil
	}
	if err := walk("refs/heads"); err != nil {
		return nil, fmt.Errorf("repository: list refs/heads: %w", err)
	}

	f, err := fs.Open("packed-refs")
	if err == nil {
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			line := sc.Text()
			if line == "" || line[0] == '#' || line[0] == '^' {
				continue
			}
			sp := strings.IndexByte(line, ' ')
			if sp < 0 {
				continue
			}
			full := line[sp+1:]
			if strings.HasPrefix(full, "refs/heads/") && !seen[full] {
				seen[full] = true
				names = append(names, full)
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("repository: open packed-refs: %w", err)
	}

	return names, nil
}
