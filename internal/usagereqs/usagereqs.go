// Package usagereqs implements the usage-requirement map: a two-level
// table, keyed by (namespace, name), of what a published library
// deliverable contributes to a consumer's include and link lines, and how
// that contribution chains through uses/links.
package usagereqs

import (
	"fmt"
	"strings"

	"github.com/nbt-build/nbt/internal/dym"
	"github.com/nbt-build/nbt/internal/manifest"
)

// Entry is one key's published requirements.
type Entry struct {
	Key Key

	// LinkablePath is the archive or object this key contributes to a
	// linker command line. Empty if this key is header-only.
	LinkablePath string

	// IncludeDirs are this key's own include directories, before any
	// transitive contribution from Uses.
	IncludeDirs []string

	// Uses and Links name other keys this key depends on: Uses
	// contributes both include and link paths transitively; Links
	// contributes only link paths.
	Uses  []Key
	Links []Key
}

// Key identifies a published library deliverable.
type Key = manifest.UsageKey

func keyString(k Key) string {
	return k.Namespace + "/" + k.Name
}

// Map is the immutable-after-construction usage-requirement table.
type Map struct {
	entries map[Key]Entry
	known   []string
}

// New returns an empty map, ready for Add calls during construction.
func New() *Map {
	return &Map{entries: make(map[Key]Entry)}
}

// Add registers e. A duplicate key is rejected with an error naming the
// conflict, per the map's immutable-after-construction contract.
func (m *Map) Add(e Entry) error {
	if _, exists := m.entries[e.Key]; exists {
		return fmt.Errorf("usagereqs: duplicate usage key %s", keyString(e.Key))
	}
	m.entries[e.Key] = e
	m.known = append(m.known, keyString(e.Key))
	return nil
}

// CycleError reports a cycle discovered during transitive resolution. Per
// the manifest contract a cycle is a manifest error, not a silently
// tolerated case.
type CycleError struct {
	Path []Key
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Path))
	for i, k := range e.Path {
		names[i] = keyString(k)
	}
	return fmt.Sprintf("usagereqs: cycle in usage requirements: %s", strings.Join(names, " -> "))
}

func (m *Map) lookup(k Key) (Entry, error) {
	e, ok := m.entries[k]
	if ok {
		return e, nil
	}
	suggestion := dym.Suggest(keyString(k), m.known)
	if suggestion != "" {
		return Entry{}, fmt.Errorf("usagereqs: unknown usage key %s (did you mean %s?)", keyString(k), suggestion)
	}
	return Entry{}, fmt.Errorf("usagereqs: unknown usage key %s", keyString(k))
}

// ResolveLinkPaths returns key's linkable path, if any, followed by the
// link paths of every uses and every links entry, depth-first.
func (m *Map) ResolveLinkPaths(key Key) ([]string, error) {
	var out []string
	visiting := map[Key]bool{}
	var walk func(k Key, path []Key) error
	walk = func(k Key, path []Key) error {
		if visiting[k] {
			return &CycleError{Path: append(append([]Key{}, path...), k)}
		}
		visiting[k] = true
		defer delete(visiting, k)

		e, err := m.lookup(k)
		if err != nil {
			return err
		}
		if e.LinkablePath != "" {
			out = append(out, e.LinkablePath)
		}
		next := append(path, k)
		for _, u := range e.Uses {
			if err := walk(u, next); err != nil {
				return err
			}
		}
		for _, l := range e.Links {
			if err := walk(l, next); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(key, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveIncludePaths returns key's include directories followed by the
// include paths of every uses entry, depth-first. links entries never
// contribute include paths.
func (m *Map) ResolveIncludePaths(key Key) ([]string, error) {
	var out []string
	visiting := map[Key]bool{}
	var walk func(k Key, path []Key) error
	walk = func(k Key, path []Key) error {
		if visiting[k] {
			return &CycleError{Path: append(append([]Key{}, path...), k)}
		}
		visiting[k] = true
		defer delete(visiting, k)

		e, err := m.lookup(k)
		if err != nil {
			return err
		}
		out = append(out, e.IncludeDirs...)
		next := append(path, k)
		for _, u := range e.Uses {
			if err := walk(u, next); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(key, nil); err != nil {
		return nil, err
	}
	return out, nil
}
