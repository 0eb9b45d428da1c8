package repository

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/gcfg"
)

// gitConfig mirrors the handful of core.* keys that decide how a repository
// is opened: whether it is bare, the on-disk format version, and an
// explicit worktree override. Every other section is carried by gcfg's
// underlying parser but is of no interest to object-database access.
type gitConfig struct {
	Core struct {
		Bare                    bool
		RepositoryFormatVersion int
		Worktree                string
	}
}

// Config is the subset of .git/config this package reads when a repository
// is opened.
type Config struct {
	Bare                    bool
	RepositoryFormatVersion int
	Worktree                string
}

// readConfig loads and parses the config file at path within fs. A missing
// config file is not an error: bare object-database access (e.g. against a
// pack pulled out of a repository entirely) has no config to read, and the
// caller gets zero-value defaults instead.
func readConfig(fs billy.Filesystem, path string) (Config, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("repository: open %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return Config{}, fmt.Errorf("repository: read %s: %w", path, err)
	}

	var raw gitConfig
	if err := gcfg.ReadStringInto(&raw, string(body)); err != nil {
		return Config{}, fmt.Errorf("repository: parse %s: %w", path, err)
	}

	return Config{
		Bare:                    raw.Core.Bare,
		RepositoryFormatVersion: raw.Core.RepositoryFormatVersion,
		Worktree:                raw.Core.Worktree,
	}, nil
}
