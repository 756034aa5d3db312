package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TagLister lists a remote repository's tags. It is the only VCS
// operation a GitHub-backed catalog needs: a candidate oracle only has
// to know which versions exist, never sync a working tree.
type TagLister interface {
	Tags(ctx context.Context, remote string) ([]string, error)
}

// gitTagLister implements TagLister by shelling out to git ls-remote.
type gitTagLister struct {
	git string
}

// GitOption configures a gitTagLister.
type GitOption func(*gitTagLister)

// WithGitPath sets a custom git executable path.
func WithGitPath(path string) GitOption {
	return func(g *gitTagLister) {
		g.git = path
	}
}

// NewGitTagLister creates a TagLister backed by the git CLI.
func NewGitTagLister(opts ...GitOption) TagLister {
	g := &gitTagLister{git: "git"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gitTagLister) Tags(ctx context.Context, remote string) ([]string, error) {
	output, err := g.output(ctx, "ls-remote", "--tags", "--refs", remote)
	if err != nil {
		return nil, fmt.Errorf("list remote tags: %w", err)
	}

	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}

	var tags []string
	for _, line := range strings.Split(output, "\n") {
		// format: <hash>\trefs/tags/<tag>
		parts := strings.Split(line, "\t")
		if len(parts) == 2 {
			tags = append(tags, strings.TrimPrefix(parts[1], "refs/tags/"))
		}
	}
	return tags, nil
}

func (g *gitTagLister) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.git, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
