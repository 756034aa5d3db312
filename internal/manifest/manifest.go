// Package manifest reads the sdist manifest format: the small JSON document
// describing one package's identity, its dependencies, and the usage/link
// requirements it publishes. The manifest parser itself is an external
// collaborator per spec; this is a thin, dependency-free adapter in the
// teacher's own style for its own on-disk formats.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Dependency is one (name, version-range) requirement.
type Dependency struct {
	Name  string `json:"name"`
	Range string `json:"range"`
}

// UsageKey names a published library deliverable: (namespace, name).
type UsageKey struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

// Manifest is everything the solver and usage-requirement map need about
// one package.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Dependencies []Dependency `json:"dependencies"`
	Uses         []UsageKey   `json:"uses"`
	Links        []UsageKey   `json:"links"`
}

// Parse decodes a manifest from data, or from file if data is nil.
func Parse(file string, data []byte) (*Manifest, error) {
	var reader io.Reader

	if data != nil {
		reader = bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var m Manifest
	if err := json.NewDecoder(reader).Decode(&m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", file, err)
	}
	if m.Name == "" || m.Version == "" {
		return nil, fmt.Errorf("manifest: %s missing name or version", file)
	}
	return &m, nil
}

// Write encodes m as indented JSON to file.
func Write(file string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}
