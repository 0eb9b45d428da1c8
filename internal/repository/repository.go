// Package repository implements the object-database, ref, and config
// access the window cache, tree walker, and revision walker read through:
// a repository's loose objects, its pack files, HEAD/refs/packed-refs, and
// the handful of core.* settings that decide how those are laid out.
package repository

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/masmgr/bugspots-go/internal/gitobj"
	"github.com/masmgr/bugspots-go/internal/objstore"
)

// Repository is a gitobj.Database backed by a real .git directory: loose
// objects checked first (the common case right after a commit, before the
// next repack), then every discovered pack.
type Repository struct {
	fs     billy.Filesystem
	gitDir string

	config Config
	loose  *looseStore
	packs  *packSet

	cache      *objstore.WindowCache
	deltaCache *objstore.DeltaBaseCache
}

// Open opens the repository rooted at gitDir (a path ending in ".git" for
// a non-bare repository, or the bare directory itself), discovering its
// loose objects and packs and wiring them to a window cache built from
// cacheCfg.
func Open(gitDir string, cacheCfg objstore.CacheConfig) (*Repository, error) {
	fs := osfs.New(gitDir)

	cfg, err := readConfig(fs, "config")
	if err != nil {
		return nil, err
	}

	cache, err := objstore.NewWindowCache(cacheCfg)
	if err != nil {
		return nil, err
	}
	deltaCache := objstore.NewDeltaBaseCache(cacheCfg.DeltaBaseCacheLimit)

	packs, err := openPackSet(fs, gitDir, cache, deltaCache)
	if err != nil {
		return nil, err
	}

	repo := &Repository{
		fs:         fs,
		gitDir:     gitDir,
		config:     cfg,
		loose:      newLooseStore(fs),
		packs:      packs,
		cache:      cache,
		deltaCache: deltaCache,
	}
	packs.resolveOutside = repo.resolveFromLoose
	return repo, nil
}

// resolveFromLoose is wired into the pack set as its outside-the-pack-set
// REF_DELTA base resolver: a thin pack's base object is expected to live
// in the loose store when it isn't in any pack already scanned.
func (r *Repository) resolveFromLoose(id gitobj.ID) (gitobj.ObjectType, []byte, error) {
	loader, err := r.loose.open(id)
	if err != nil {
		return gitobj.ObjBad, nil, err
	}
	defer loader.Close()
	data := make([]byte, loader.Size)
	if _, err := io.ReadFull(loader, data); err != nil {
		return gitobj.ObjBad, nil, &gitobj.IoError{Op: "read loose delta base", Err: err}
	}
	return loader.Type, data, nil
}

// Open inflates the object named by id, checking loose storage before any
// pack.
func (r *Repository) Open(id gitobj.ID) (*gitobj.Loader, error) {
	if r.loose.has(id) {
		return r.loose.open(id)
	}
	loader, err := r.packs.open(id)
	if err == nil {
		return loader, nil
	}
	if _, ok := err.(*gitobj.MissingObjectError); !ok {
		return nil, err
	}
	return r.loose.open(id)
}

// HasObject reports whether id names any object in loose storage or any
// pack.
func (r *Repository) HasObject(id gitobj.ID) bool {
	return r.loose.has(id) || r.packs.hasObject(id)
}

// Config returns the repository's parsed core.* configuration.
func (r *Repository) Config() Config { return r.config }

// ResolveRef resolves name (HEAD, a full ref, or a raw hex id) to a
// concrete object id.
func (r *Repository) ResolveRef(name string) (gitobj.ID, error) {
	return resolveRef(r.fs, name)
}

// Branches returns every ref name under refs/heads/.
func (r *Repository) Branches() ([]string, error) {
	return listBranches(r.fs)
}

// CacheStats reports the window cache's current occupancy, for the
// inspect subcommand's diagnostics.
func (r *Repository) CacheStats() objstore.Stats {
	return r.cache.Stats()
}

// Close releases every pack's window cache footprint. A Repository is not
// usable after Close.
func (r *Repository) Close() {
	for _, p := range r.packs.packs {
		r.cache.Purge(p.pf)
		r.deltaCache.Purge(p.pf)
	}
}
