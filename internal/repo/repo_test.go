package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nbt-build/nbt/internal/pkgid"
)

func writeSdist(t *testing.T, dir, name, version string) string {
	t.Helper()
	sdistDir := t.TempDir()
	data := []byte(`{"name":"` + name + `","version":"` + version + `"}`)
	if err := os.WriteFile(filepath.Join(sdistDir, manifestFileName), data, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return sdistDir
}

func TestAddThenFind(t *testing.T) {
	root := t.TempDir()
	r, err := Open(root, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	id := pkgid.ID{Name: "foo", Version: "1.0.0"}
	src := writeSdist(t, root, "foo", "1.0.0")
	if err := r.AddSdist(src, id, IfExistsError); err != nil {
		t.Fatalf("AddSdist: %v", err)
	}

	s, ok := r.Find(id)
	if !ok {
		t.Fatal("expected sdist to be found after add")
	}
	if s.Manifest.Name != "foo" {
		t.Errorf("Manifest.Name = %q", s.Manifest.Name)
	}
}

func TestAddReplaceIdempotent(t *testing.T) {
	root := t.TempDir()
	r, err := Open(root, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	id := pkgid.ID{Name: "a", Version: "1.0.0"}
	src := writeSdist(t, root, "a", "1.0.0")

	if err := r.AddSdist(src, id, IfExistsReplace); err != nil {
		t.Fatalf("first AddSdist: %v", err)
	}
	if err := r.AddSdist(src, id, IfExistsReplace); err != nil {
		t.Fatalf("second AddSdist: %v", err)
	}

	if len(r.List()) != 1 {
		t.Fatalf("List() = %d entries, want exactly 1", len(r.List()))
	}
}

func TestAddErrorPolicyRejectsDuplicate(t *testing.T) {
	root := t.TempDir()
	r, err := Open(root, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	id := pkgid.ID{Name: "a", Version: "1.0.0"}
	src := writeSdist(t, root, "a", "1.0.0")
	if err := r.AddSdist(src, id, IfExistsError); err != nil {
		t.Fatalf("first AddSdist: %v", err)
	}
	if err := r.AddSdist(src, id, IfExistsError); err == nil {
		t.Fatal("expected error when adding a duplicate identity with IfExistsError")
	}
}

func TestLoadSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".hidden"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	r, err := Open(root, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	if len(r.List()) != 0 {
		t.Fatalf("List() = %d, want 0 (hidden entries must be skipped)", len(r.List()))
	}
}
