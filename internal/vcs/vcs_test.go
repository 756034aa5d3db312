package vcs

import (
	"context"
	"testing"
)

func TestGitTagListerTags(t *testing.T) {
	lister := NewGitTagLister()
	ctx := context.Background()

	tags, err := lister.Tags(ctx, "https://github.com/golang/go")
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}

	if len(tags) == 0 {
		t.Fatal("expected at least one tag")
	}

	found := false
	for _, tag := range tags {
		if tag == "go1.21.0" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected to find tag go1.21.0")
	}
}

func TestGitTagListerWithGitPath(t *testing.T) {
	lister := NewGitTagLister(WithGitPath("git"))
	ctx := context.Background()

	if _, err := lister.Tags(ctx, "https://github.com/golang/go"); err != nil {
		t.Fatalf("Tags failed with explicit git path: %v", err)
	}
}
