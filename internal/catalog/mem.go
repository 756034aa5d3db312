package catalog

import (
	"context"
	"fmt"

	"github.com/nbt-build/nbt/internal/manifest"
)

// Mem is an in-memory Catalog, useful for tests and for a vendored/offline
// catalog source.
type Mem struct {
	versions  map[string][]string
	manifests map[string]*manifest.Manifest
}

// NewMem returns an empty in-memory catalog.
func NewMem() *Mem {
	return &Mem{versions: make(map[string][]string), manifests: make(map[string]*manifest.Manifest)}
}

// Put registers a version's manifest, adding it to name's version list.
func (m *Mem) Put(name, version string, man *manifest.Manifest) {
	m.versions[name] = append(m.versions[name], version)
	m.manifests[name+"@"+version] = man
}

func (m *Mem) Versions(ctx context.Context, name string) ([]string, error) {
	return m.versions[name], nil
}

func (m *Mem) Manifest(ctx context.Context, name, version string) (*manifest.Manifest, error) {
	man, ok := m.manifests[name+"@"+version]
	if !ok {
		return nil, fmt.Errorf("catalog: no manifest for %s@%s", name, version)
	}
	return man, nil
}
