package catalog

import (
	"context"
	"testing"

	"github.com/nbt-build/nbt/internal/vcs"
)

type fakeVCS struct {
	tags []string
}

func (f *fakeVCS) Tags(ctx context.Context, remote string) ([]string, error) {
	return f.tags, nil
}

func TestGitHubCatalogVersionsDelegatesToVCSAndCaches(t *testing.T) {
	fake := &fakeVCS{tags: []string{"1.0.0", "1.1.0"}}
	c := &GitHubCatalog{Owner: "example", Repo: "fmtlib", VCS: fake}

	got, err := c.Versions(context.Background(), "fmtlib")
	if err != nil {
		t.Fatalf("Versions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Versions = %v, want 2 tags", got)
	}

	fake.tags = nil // mutate the fake; the cached result must not change
	got2, err := c.Versions(context.Background(), "fmtlib")
	if err != nil {
		t.Fatalf("Versions (cached): %v", err)
	}
	if len(got2) != 2 {
		t.Fatalf("Versions (cached) = %v, want cached 2 tags", got2)
	}
}

var _ vcs.TagLister = (*fakeVCS)(nil)
