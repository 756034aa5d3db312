// Package solve adapts the local repository and a remote catalog to the
// two oracles an external dependency solver needs (candidate, dependency),
// and supplies one concrete, fully-implemented backing algorithm: minimal
// version selection. The solver algorithm itself stays pluggable behind
// Reqs; this package's BuildList is one caller among possible others.
package solve

import (
	"context"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nbt-build/nbt/internal/catalog"
	"github.com/nbt-build/nbt/internal/ecosystemver"
	"github.com/nbt-build/nbt/internal/manifest"
	"github.com/nbt-build/nbt/internal/pkgid"
	"github.com/nbt-build/nbt/internal/repo"
)

// Driver adapts a local repository and a remote catalog into the candidate
// and dependency oracles a solver needs, the way repository::solve unifies
// its local store with a remote catalog.
type Driver struct {
	Local  *repo.Repository
	Remote catalog.Catalog

	cache *lru.Cache[string, []pkgid.ID]
}

// NewDriver returns a Driver with a bounded candidate-oracle cache.
func NewDriver(local *repo.Repository, remote catalog.Catalog) *Driver {
	cache, _ := lru.New[string, []pkgid.ID](256)
	return &Driver{Local: local, Remote: remote, cache: cache}
}

// Candidates is the candidate oracle: the union of local identities named
// name with catalog identities named name, sorted by version and
// de-duplicated. Results are memoized per (name, local repo generation) so
// a later AddSdist is observed without stale entries surviving in the
// cache.
func (d *Driver) Candidates(ctx context.Context, name string) ([]pkgid.ID, error) {
	key := fmt.Sprintf("%s@%d", name, d.Local.Generation())
	if d.cache != nil {
		if v, ok := d.cache.Get(key); ok {
			return v, nil
		}
	}

	seen := map[string]bool{}
	var out []pkgid.ID
	for _, s := range d.Local.List() {
		if s.ID.Name == name && !seen[s.ID.Version] {
			seen[s.ID.Version] = true
			out = append(out, s.ID)
		}
	}
	if d.Remote != nil {
		versions, err := d.Remote.Versions(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("solve: candidate oracle: %w", err)
		}
		for _, v := range versions {
			if !seen[v] {
				seen[v] = true
				out = append(out, pkgid.ID{Name: name, Version: v})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return pkgid.Less(out[i], out[j]) })

	if d.cache != nil {
		d.cache.Add(key, out)
	}
	return out, nil
}

// Dependencies is the dependency oracle: look id up in the local repository
// first, falling back to the catalog on miss. A local sdist's manifest is
// the authoritative dependency list for that identity.
func (d *Driver) Dependencies(ctx context.Context, id pkgid.ID) ([]manifest.Dependency, error) {
	if s, ok := d.Local.Find(id); ok {
		return s.Manifest.Dependencies, nil
	}
	if d.Remote == nil {
		return nil, fmt.Errorf("solve: dependency oracle: %s not in local repository and no remote catalog configured", id)
	}
	m, err := d.Remote.Manifest(ctx, id.Name, id.Version)
	if err != nil {
		return nil, fmt.Errorf("solve: dependency oracle: %w", err)
	}
	return m.Dependencies, nil
}

// Reqs is the pluggable backing-solver interface: everything a minimal
// version selection style algorithm needs to know about one package's
// transitive requirements.
type Reqs interface {
	// Required returns the direct dependencies of id, each resolved to one
	// concrete identity already (range resolution is the Reqs
	// implementation's concern, not BuildList's).
	Required(id pkgid.ID) ([]pkgid.ID, error)
	// Max returns whichever of v1, v2 is higher under this Reqs' notion of
	// ordering for package name. An empty v1 or v2 means "no requirement
	// yet" and loses to any real version.
	Max(name, v1, v2 string) string
}

// BuildList computes the minimal set of versions satisfying every
// transitive requirement reachable from roots: for each package name, the
// maximum version required by any reachable package, ported from the
// module system's own minimal version selection.
func BuildList(roots []pkgid.ID, reqs Reqs) ([]pkgid.ID, error) {
	min := map[string]string{}
	for _, r := range roots {
		min[r.Name] = reqs.Max(r.Name, min[r.Name], r.Version)
	}

	queue := append([]pkgid.ID(nil), roots...)
	visited := map[pkgid.ID]bool{}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if visited[m] {
			continue
		}
		visited[m] = true

		required, err := reqs.Required(m)
		if err != nil {
			return nil, fmt.Errorf("solve: required(%s): %w", m, err)
		}
		for _, r := range required {
			raised := reqs.Max(r.Name, min[r.Name], r.Version)
			if raised != min[r.Name] {
				min[r.Name] = raised
				queue = append(queue, pkgid.ID{Name: r.Name, Version: raised})
			} else if !visited[r] {
				queue = append(queue, r)
			}
		}
	}

	out := make([]pkgid.ID, 0, len(min))
	for name, version := range min {
		out = append(out, pkgid.ID{Name: name, Version: version})
	}
	sort.Slice(out, func(i, j int) bool { return pkgid.Less(out[i], out[j]) })
	return out, nil
}

// DriverReqs adapts a Driver into Reqs, resolving each dependency's range
// to the highest candidate at or above the range string (an empty range
// matches the highest available candidate).
type DriverReqs struct {
	Driver *Driver
	Ctx    context.Context
}

func (r DriverReqs) ctx() context.Context {
	if r.Ctx != nil {
		return r.Ctx
	}
	return context.Background()
}

func (r DriverReqs) Required(id pkgid.ID) ([]pkgid.ID, error) {
	deps, err := r.Driver.Dependencies(r.ctx(), id)
	if err != nil {
		return nil, err
	}
	var out []pkgid.ID
	for _, dep := range deps {
		candidates, err := r.Driver.Candidates(r.ctx(), dep.Name)
		if err != nil {
			return nil, err
		}
		chosen, ok := highestSatisfying(candidates, dep.Range)
		if !ok {
			return nil, fmt.Errorf("solve: no candidate for %s satisfying %q", dep.Name, dep.Range)
		}
		out = append(out, chosen)
	}
	return out, nil
}

func (r DriverReqs) Max(name, v1, v2 string) string {
	switch {
	case v1 == "":
		return v2
	case v2 == "":
		return v1
	case ecosystemver.Less(v1, v2):
		return v2
	default:
		return v1
	}
}

// highestSatisfying returns the highest candidate whose version is >= min
// (by ecosystem version ordering), or the highest candidate at all when
// min is empty.
func highestSatisfying(candidates []pkgid.ID, min string) (pkgid.ID, bool) {
	var best pkgid.ID
	found := false
	for _, c := range candidates {
		if min != "" && ecosystemver.Less(c.Version, min) {
			continue
		}
		if !found || ecosystemver.Less(best.Version, c.Version) {
			best = c
			found = true
		}
	}
	return best, found
}
