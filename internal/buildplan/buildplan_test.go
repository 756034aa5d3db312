package buildplan

import (
	"testing"

	"github.com/nbt-build/nbt/internal/source"
)

func TestBuildLibraryPlanArchivePresence(t *testing.T) {
	// Library with only headers: no archive.
	headerOnly := []source.File{{Path: "foo.h", Kind: source.KindHeader, Library: "foo"}}
	plan := BuildLibraryPlan("foo", headerOnly, CompileRules{}, "out", TestExtra{})
	if plan.Archive != nil {
		t.Fatal("header-only library should have no archive plan")
	}

	withSource := []source.File{
		{Path: "foo.h", Kind: source.KindHeader, Library: "foo"},
		{Path: "foo.cpp", Kind: source.KindSource, Library: "foo"},
	}
	plan = BuildLibraryPlan("foo", withSource, CompileRules{}, "out", TestExtra{})
	if plan.Archive == nil {
		t.Fatal("library with a regular source should have an archive plan")
	}
	if len(plan.Archive.Compiles) != 1 {
		t.Fatalf("expected 1 compile in archive, got %d", len(plan.Archive.Compiles))
	}
}

func TestBuildLibraryPlanTestOutputLayout(t *testing.T) {
	files := []source.File{
		{Path: "tests/foo.test.cpp", Kind: source.KindTest, Library: "foo"},
	}
	plan := BuildLibraryPlan("foo", files, CompileRules{}, "out", TestExtra{
		ExtraUses:     []string{"testing/catch2"},
		ExtraLinkLibs: []string{"catch2"},
	})

	if len(plan.LinkExecutables) != 1 {
		t.Fatalf("expected 1 link-executable plan, got %d", len(plan.LinkExecutables))
	}
	le := plan.LinkExecutables[0]
	wantOutDir := "out/test/tests"
	if le.OutDir != wantOutDir {
		t.Errorf("OutDir = %q, want %q", le.OutDir, wantOutDir)
	}
	if got := le.ExecutablePath("", ""); got != "out/test/tests/foo" {
		t.Errorf("ExecutablePath = %q, want out/test/tests/foo", got)
	}
	if len(le.AdditionalLibs) != 1 || le.AdditionalLibs[0] != "catch2" {
		t.Errorf("AdditionalLibs = %v", le.AdditionalLibs)
	}
	found := false
	for _, u := range le.Compile.Rules.Uses {
		if u == "testing/catch2" {
			found = true
		}
	}
	if !found {
		t.Errorf("test compile rules should include test-only uses entry")
	}
}

func TestBuildLibraryPlanAppOutputLayout(t *testing.T) {
	files := []source.File{
		{Path: "apps/baz.main.cpp", Kind: source.KindApp, Library: "foo"},
	}
	plan := BuildLibraryPlan("foo", files, CompileRules{}, "out", TestExtra{})
	if len(plan.LinkExecutables) != 1 {
		t.Fatalf("expected 1 link-executable plan, got %d", len(plan.LinkExecutables))
	}
	le := plan.LinkExecutables[0]
	if got := le.ExecutablePath("", ""); got != "out/apps/baz" {
		t.Errorf("ExecutablePath = %q, want out/apps/baz", got)
	}
}

func TestArchivePath(t *testing.T) {
	files := []source.File{{Path: "foo.cpp", Kind: source.KindSource, Library: "foo"}}
	plan := BuildLibraryPlan("foo", files, CompileRules{}, "out", TestExtra{})
	if got := plan.Archive.ArchivePath("lib", ".a"); got != "out/libfoo.a" {
		t.Errorf("ArchivePath = %q, want out/libfoo.a", got)
	}
}
