// Package catalog adapts a remote package catalog to the shape the solver
// driver needs: list versions for a name, fetch the manifest for a
// candidate identity.
package catalog

import (
	"context"

	"github.com/nbt-build/nbt/internal/manifest"
)

// Catalog is the remote-collaborator surface the solver driver needs.
type Catalog interface {
	// Versions returns every known version string for a package name.
	Versions(ctx context.Context, name string) ([]string, error)
	// Manifest fetches the dependency manifest for name@version.
	Manifest(ctx context.Context, name, version string) (*manifest.Manifest, error)
}
