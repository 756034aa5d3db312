// Package repo implements the local repository: a directory-backed,
// lock-protected set of source distributions (sdists), one subdirectory per
// package identity, named "name@version".
package repo

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nbt-build/nbt/internal/manifest"
	"github.com/nbt-build/nbt/internal/pkgid"
)

const lockFileName = ".nbt-repo-lock"
const stagingDirName = ".tmp-import"
const manifestFileName = "manifest.json"

// IfExists selects Add's behavior when the destination identity already
// exists in the repository.
type IfExists int

const (
	IfExistsError IfExists = iota
	IfExistsIgnore
	IfExistsReplace
)

// Sdist is one loaded source distribution.
type Sdist struct {
	ID       pkgid.ID
	Dir      string
	Manifest *manifest.Manifest
}

// Repository is an open handle on a local repository root. The in-memory
// set is rebuilt fresh on each Open and never shared across processes.
type Repository struct {
	root       string
	lock       *flock
	writable   bool
	sdists     map[pkgid.ID]*Sdist
	generation int
}

// Open opens the repository rooted at dir. write=false acquires a shared
// lock and loads every sdist eagerly; write=true acquires an exclusive
// lock. If the lock is contended, Open blocks and logs a single diagnostic
// explaining why.
func Open(dir string, write bool) (*Repository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repo: create root %s: %w", dir, err)
	}

	lockPath := filepath.Join(dir, lockFileName)
	lk, err := newFlock(lockPath)
	if err != nil {
		return nil, fmt.Errorf("repo: open lock file: %w", err)
	}

	acquire := lk.lockShared
	if write {
		acquire = lk.lockExclusive
	}
	if busy, err := lk.tryLock(write); err != nil {
		return nil, err
	} else if busy {
		log.Printf("repo: waiting for %s lock on %s (another process is using it)", lockKind(write), dir)
		if err := acquire(); err != nil {
			return nil, err
		}
	}

	r := &Repository{root: dir, lock: lk, writable: write, sdists: make(map[pkgid.ID]*Sdist)}
	if err := r.load(); err != nil {
		lk.unlock()
		return nil, err
	}
	return r, nil
}

func lockKind(write bool) string {
	if write {
		return "exclusive"
	}
	return "shared"
}

// Close releases the repository's lock.
func (r *Repository) Close() error {
	return r.lock.unlock()
}

// load reads every sdist subdirectory, skipping hidden entries. A
// malformed sdist is skipped with a warning rather than blocking the whole
// repository.
func (r *Repository) load() error {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return fmt.Errorf("repo: read root %s: %w", r.root, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		id, err := pkgid.Parse(entry.Name())
		if err != nil {
			log.Printf("repo: warning: skipping %s: %v", entry.Name(), err)
			continue
		}
		dir := filepath.Join(r.root, entry.Name())
		m, err := manifest.Parse(filepath.Join(dir, manifestFileName), nil)
		if err != nil {
			log.Printf("repo: warning: skipping malformed sdist %s: %v", entry.Name(), err)
			continue
		}
		r.sdists[id] = &Sdist{ID: id, Dir: dir, Manifest: m}
	}
	return nil
}

// Generation returns a counter incremented on every successful AddSdist,
// letting callers that cache by repository content (the solver's candidate
// oracle) detect when their cache has gone stale.
func (r *Repository) Generation() int {
	return r.generation
}

// Find returns the sdist for id, if present.
func (r *Repository) Find(id pkgid.ID) (*Sdist, bool) {
	s, ok := r.sdists[id]
	return s, ok
}

// List returns every loaded sdist, ordered by package identity.
func (r *Repository) List() []*Sdist {
	out := make([]*Sdist, 0, len(r.sdists))
	for _, s := range r.sdists {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return pkgid.Less(out[i].ID, out[j].ID) })
	return out
}

// AddSdist stages srcDir, then atomically installs it as id's sdist
// according to policy. Calling AddSdist on a read-only handle is a
// programming error and aborts the process, matching a write through a
// read-only repository handle being a hard, unrecoverable bug rather than
// a reportable error.
func (r *Repository) AddSdist(srcDir string, id pkgid.ID, policy IfExists) error {
	if !r.writable {
		log.Fatal("repo: AddSdist called on a read-only repository handle")
	}

	destDir := filepath.Join(r.root, id.String())
	if _, exists := r.sdists[id]; exists {
		switch policy {
		case IfExistsError:
			return fmt.Errorf("repo: sdist %s already exists", id)
		case IfExistsIgnore:
			return nil
		case IfExistsReplace:
			// fall through to stage-and-replace below
		}
	}

	staging := filepath.Join(r.root, stagingDirName)
	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("repo: clear staging dir: %w", err)
	}
	if err := copyDir(srcDir, staging); err != nil {
		return fmt.Errorf("repo: stage sdist %s: %w", id, err)
	}

	if _, exists := r.sdists[id]; exists {
		if err := os.RemoveAll(destDir); err != nil {
			return fmt.Errorf("repo: remove existing sdist %s: %w", id, err)
		}
	}
	if err := os.Rename(staging, destDir); err != nil {
		return fmt.Errorf("repo: install sdist %s: %w", id, err)
	}

	m, err := manifest.Parse(filepath.Join(destDir, manifestFileName), nil)
	if err != nil {
		return fmt.Errorf("repo: re-read installed sdist %s: %w", id, err)
	}
	r.sdists[id] = &Sdist{ID: id, Dir: destDir, Manifest: m}
	r.generation++
	return nil
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}
