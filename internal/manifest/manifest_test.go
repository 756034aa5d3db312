package manifest

import (
	"path/filepath"
	"testing"
)

func TestParseFromData(t *testing.T) {
	data := []byte(`{
		"name": "foo",
		"version": "1.0.0",
		"dependencies": [{"name": "bar", "range": ">=1.0.0"}],
		"uses": [{"namespace": "foo", "name": "core"}],
		"links": [{"namespace": "sys", "name": "pthread"}]
	}`)
	m, err := Parse("", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Name != "foo" || m.Version != "1.0.0" {
		t.Fatalf("Parse = %+v", m)
	}
	if len(m.Dependencies) != 1 || m.Dependencies[0].Name != "bar" {
		t.Fatalf("Dependencies = %+v", m.Dependencies)
	}
}

func TestParseMissingIdentity(t *testing.T) {
	if _, err := Parse("", []byte(`{"dependencies": []}`)); err == nil {
		t.Fatal("expected error for missing name/version")
	}
}

func TestWriteThenParse(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "manifest.json")
	want := &Manifest{Name: "foo", Version: "1.0.0"}
	if err := Write(file, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Parse(file, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Name != want.Name || got.Version != want.Version {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
