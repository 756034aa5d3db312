package buildexec

import (
	"bytes"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// PlanCache persists per-action build metadata across invocations of
// cmd/nbt build, so a rerun can skip actions whose argv and input files
// haven't changed since the last successful build. The cache file is
// TOML rather than JSON: it is meant to be occasionally read and edited
// by a human debugging a stale build, not consumed only by machines.
type PlanCache struct {
	path    string
	entries map[string]cacheEntry
}

type cacheEntry struct {
	Argv     []string  `toml:"argv"`
	Includes []string  `toml:"includes"`
	Output   string    `toml:"output"`
	BuiltAt  time.Time `toml:"built_at"`
}

type cacheFile struct {
	Entries map[string]cacheEntry `toml:"entries"`
}

// LoadPlanCache reads path if it exists, or returns an empty cache if it
// doesn't; a missing cache file is not an error, just a cold start.
func LoadPlanCache(path string) (*PlanCache, error) {
	c := &PlanCache{path: path, entries: map[string]cacheEntry{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	var f cacheFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Entries != nil {
		c.entries = f.Entries
	}
	return c, nil
}

// Save writes the cache back to its path.
func (c *PlanCache) Save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cacheFile{Entries: c.entries}); err != nil {
		return err
	}
	return os.WriteFile(c.path, buf.Bytes(), 0644)
}

// argvEqual reports whether a and b contain the same tokens in order.
func argvEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ShouldSkip reports whether action can be skipped: its argv is
// unchanged from the last recorded build of the same ID, its recorded
// output artifact still exists, and neither its own inputs nor its
// previously recorded includes have been modified since that build ran.
// The output check catches a user manually deleting an object or archive
// out of the output directory while leaving the cache file behind, which
// would otherwise skip straight to a downstream archive/link failure
// instead of a clean rebuild.
func (c *PlanCache) ShouldSkip(id string, argv []string, inputs []string) bool {
	e, ok := c.entries[id]
	if !ok || !argvEqual(e.Argv, argv) {
		return false
	}
	if e.Output != "" {
		if _, err := os.Stat(e.Output); err != nil {
			return false
		}
	}
	for _, path := range inputs {
		if newer(path, e.BuiltAt) {
			return false
		}
	}
	for _, path := range e.Includes {
		if newer(path, e.BuiltAt) {
			return false
		}
	}
	return true
}

func newer(path string, since time.Time) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true // missing or unreadable: force a rerun rather than trust a stale cache
	}
	return info.ModTime().After(since)
}

// Record stores the outcome of a successful action, replacing any
// previous entry for the same ID. output is the action's expected
// artifact path, re-checked by the next ShouldSkip call; pass "" if the
// action has no single output worth tracking that way.
func (c *PlanCache) Record(id string, argv []string, includes []string, output string) {
	c.entries[id] = cacheEntry{Argv: argv, Includes: includes, Output: output, BuiltAt: time.Now()}
}

// Cached returns the includes recorded for a skipped action.
func (c *PlanCache) Cached(id string) []string {
	return c.entries[id].Includes
}
