package catalog

import (
	"context"
	"testing"

	"github.com/nbt-build/nbt/internal/manifest"
)

func TestMemCatalog(t *testing.T) {
	m := NewMem()
	m.Put("foo", "1.0.0", &manifest.Manifest{Name: "foo", Version: "1.0.0"})
	m.Put("foo", "1.1.0", &manifest.Manifest{Name: "foo", Version: "1.1.0"})

	versions, err := m.Versions(context.Background(), "foo")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("Versions = %v, want 2 entries", versions)
	}

	man, err := m.Manifest(context.Background(), "foo", "1.0.0")
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if man.Version != "1.0.0" {
		t.Errorf("Manifest.Version = %q", man.Version)
	}

	if _, err := m.Manifest(context.Background(), "foo", "9.9.9"); err == nil {
		t.Fatal("expected error for unknown version")
	}
}
