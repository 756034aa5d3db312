package solve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nbt-build/nbt/internal/catalog"
	"github.com/nbt-build/nbt/internal/manifest"
	"github.com/nbt-build/nbt/internal/pkgid"
	"github.com/nbt-build/nbt/internal/repo"
)

func stageSdist(t *testing.T, name, version string, deps []manifest.Dependency) string {
	t.Helper()
	dir := t.TempDir()
	m := &manifest.Manifest{Name: name, Version: version, Dependencies: deps}
	require.NoError(t, manifest.Write(filepath.Join(dir, "manifest.json"), m))
	return dir
}

func openTestRepo(t *testing.T) *repo.Repository {
	t.Helper()
	root := t.TempDir()
	r, err := repo.Open(root, true)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestCandidatesUnionsLocalAndRemote(t *testing.T) {
	r := openTestRepo(t)
	require.NoError(t, r.AddSdist(stageSdist(t, "fmtlib", "1.0.0", nil), pkgid.ID{Name: "fmtlib", Version: "1.0.0"}, repo.IfExistsError))

	remote := catalog.NewMem()
	remote.Put("fmtlib", "1.1.0", &manifest.Manifest{Name: "fmtlib", Version: "1.1.0"})
	remote.Put("fmtlib", "1.0.0", &manifest.Manifest{Name: "fmtlib", Version: "1.0.0"})

	d := NewDriver(r, remote)
	got, err := d.Candidates(context.Background(), "fmtlib")
	require.NoError(t, err)
	require.Len(t, got, 2, "want 2 distinct versions")
	require.Equal(t, "1.0.0", got[0].Version)
	require.Equal(t, "1.1.0", got[1].Version)
}

func TestCandidatesCacheInvalidatesOnGenerationBump(t *testing.T) {
	r := openTestRepo(t)
	remote := catalog.NewMem()
	d := NewDriver(r, remote)

	first, err := d.Candidates(context.Background(), "zlib")
	require.NoError(t, err)
	require.Empty(t, first)

	require.NoError(t, r.AddSdist(stageSdist(t, "zlib", "1.2.11", nil), pkgid.ID{Name: "zlib", Version: "1.2.11"}, repo.IfExistsError))

	second, err := d.Candidates(context.Background(), "zlib")
	require.NoError(t, err)
	require.Len(t, second, 1, "want just [zlib@1.2.11] after the add bumped the repository generation")
	require.Equal(t, "1.2.11", second[0].Version)
}

func TestBuildListMinimalVersionSelection(t *testing.T) {
	r := openTestRepo(t)

	appDeps := []manifest.Dependency{{Name: "fmtlib", Range: "6.0.0"}}
	require.NoError(t, r.AddSdist(stageSdist(t, "app", "1.0.0", appDeps), pkgid.ID{Name: "app", Version: "1.0.0"}, repo.IfExistsError))

	netDeps := []manifest.Dependency{{Name: "fmtlib", Range: "7.0.0"}}
	require.NoError(t, r.AddSdist(stageSdist(t, "net", "2.0.0", netDeps), pkgid.ID{Name: "net", Version: "2.0.0"}, repo.IfExistsError))

	// app also depends on net, to give the graph a transitive edge.
	appDir := stageSdist(t, "app", "1.0.0", append(appDeps, manifest.Dependency{Name: "net", Range: "2.0.0"}))
	require.NoError(t, r.AddSdist(appDir, pkgid.ID{Name: "app", Version: "1.0.0"}, repo.IfExistsReplace))

	require.NoError(t, r.AddSdist(stageSdist(t, "fmtlib", "6.0.0", nil), pkgid.ID{Name: "fmtlib", Version: "6.0.0"}, repo.IfExistsError))
	require.NoError(t, r.AddSdist(stageSdist(t, "fmtlib", "7.0.0", nil), pkgid.ID{Name: "fmtlib", Version: "7.0.0"}, repo.IfExistsError))
	require.NoError(t, r.AddSdist(stageSdist(t, "net", "2.0.0", netDeps), pkgid.ID{Name: "net", Version: "2.0.0"}, repo.IfExistsReplace))

	d := NewDriver(r, catalog.NewMem())
	reqs := DriverReqs{Driver: d}

	list, err := BuildList([]pkgid.ID{{Name: "app", Version: "1.0.0"}}, reqs)
	require.NoError(t, err)

	got := map[string]string{}
	for _, id := range list {
		got[id.Name] = id.Version
	}
	require.Equal(t, "7.0.0", got["fmtlib"], "the higher of two transitively required versions must win")
	require.Equal(t, "2.0.0", got["net"])
}

func TestHighestSatisfyingRespectsMinimum(t *testing.T) {
	candidates := []pkgid.ID{
		{Name: "x", Version: "1.0.0"},
		{Name: "x", Version: "2.0.0"},
		{Name: "x", Version: "3.0.0"},
	}
	got, ok := highestSatisfying(candidates, "2.0.0")
	require.True(t, ok)
	require.Equal(t, "3.0.0", got.Version)

	_, ok = highestSatisfying(candidates, "9.0.0")
	require.False(t, ok, "nothing meets the minimum")
}

func TestDependenciesFallsBackToCatalog(t *testing.T) {
	r := openTestRepo(t)
	remote := catalog.NewMem()
	remote.Put("boost", "1.80.0", &manifest.Manifest{
		Name: "boost", Version: "1.80.0",
		Dependencies: []manifest.Dependency{{Name: "zlib", Range: ""}},
	})

	d := NewDriver(r, remote)
	deps, err := d.Dependencies(context.Background(), pkgid.ID{Name: "boost", Version: "1.80.0"})
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.Equal(t, "zlib", deps[0].Name)
}

func TestDependenciesPrefersLocalOverCatalog(t *testing.T) {
	r := openTestRepo(t)
	require.NoError(t, r.AddSdist(stageSdist(t, "boost", "1.80.0", nil), pkgid.ID{Name: "boost", Version: "1.80.0"}, repo.IfExistsError))

	remote := catalog.NewMem()
	remote.Put("boost", "1.80.0", &manifest.Manifest{
		Name: "boost", Version: "1.80.0",
		Dependencies: []manifest.Dependency{{Name: "should-not-be-seen", Range: ""}},
	})

	d := NewDriver(r, remote)
	deps, err := d.Dependencies(context.Background(), pkgid.ID{Name: "boost", Version: "1.80.0"})
	require.NoError(t, err)
	require.Empty(t, deps, "local manifest has no deps, must not fall through to catalog")
}
