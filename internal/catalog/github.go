package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/nbt-build/nbt/internal/manifest"
	"github.com/nbt-build/nbt/internal/vcs"
)

// GitHubCatalog serves package versions and manifests out of a GitHub
// repository: tags via the VCS collaborator's `git ls-remote` wrapper,
// manifest files via the raw.githubusercontent.com content endpoint (a
// shallow clone would be overkill for reading one file per lookup).
type GitHubCatalog struct {
	Owner, Repo string
	HTTPClient  *http.Client
	VCS         vcs.TagLister

	mu   sync.Mutex
	tags []string
}

func (c *GitHubCatalog) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *GitHubCatalog) gitVCS() vcs.TagLister {
	if c.VCS != nil {
		return c.VCS
	}
	return vcs.NewGitTagLister()
}

func (c *GitHubCatalog) remote() string {
	return fmt.Sprintf("https://github.com/%s/%s.git", c.Owner, c.Repo)
}

// Versions returns every tag name, used as version strings. name is
// ignored: a GitHub-backed catalog serves one package per repository.
func (c *GitHubCatalog) Versions(ctx context.Context, name string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tags != nil {
		return c.tags, nil
	}

	tags, err := c.gitVCS().Tags(ctx, c.remote())
	if err != nil {
		return nil, fmt.Errorf("catalog: list tags for %s/%s: %w", c.Owner, c.Repo, err)
	}
	c.tags = tags
	return tags, nil
}

// Manifest fetches <repo>/<version>/manifest.json via the raw content
// endpoint.
func (c *GitHubCatalog) Manifest(ctx context.Context, name, version string) (*manifest.Manifest, error) {
	url := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/manifest.json", c.Owner, c.Repo, version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch manifest for %s@%s: %w", name, version, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: manifest for %s@%s: HTTP %d", name, version, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var m manifest.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: decode manifest for %s@%s: %w", name, version, err)
	}
	return &m, nil
}
