// Package toolchain maps a declarative compiler description to realized
// argv templates for compile-one-file, create-archive, and link-executable,
// and walks those templates against a concrete compile/archive/link spec to
// produce subprocess argv vectors.
package toolchain

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nbt-build/nbt/internal/dym"
)

// Description is the raw declarative key-value dictionary read from a
// toolchain description file. Accumulating keys may be added more than
// once; their values are concatenated in encounter order.
type Description struct {
	values map[string][]string
	order  []string
}

// accumulatingKeys may appear more than once in a description; their values
// are concatenated rather than replaced.
var accumulatingKeys = map[string]bool{
	"Warning-Flags": true,
	"Flags":         true,
	"C-Flags":       true,
	"C++-Flags":     true,
	"Link-Flags":    true,
}

// knownKeys is every recognized key, used both for validation and for
// did-you-mean suggestions on an unrecognized key.
var knownKeys = []string{
	"Compiler-ID", "C-Compiler", "C++-Compiler", "C-Version", "C++-Version",
	"Include-Template", "External-Include-Template", "Define-Template",
	"Warning-Flags", "Flags", "C-Flags", "C++-Flags", "Link-Flags",
	"Optimize", "Debug", "Compiler-Launcher", "Deps-Mode",
	"C-Compile-File", "C++-Compile-File", "Create-Archive", "Link-Executable",
	"Archive-Prefix", "Archive-Suffix", "Object-Prefix", "Object-Suffix",
	"Executable-Prefix", "Executable-Suffix",
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// NewDescription returns an empty description, ready for Add.
func NewDescription() *Description {
	return &Description{values: make(map[string][]string)}
}

// Add records one key/value occurrence. A key outside the recognized set is
// a hard error carrying a did-you-mean suggestion. A non-accumulating key
// added twice is an error.
func (d *Description) Add(key, value string) error {
	if !isKnownKey(key) {
		if suggestion := dym.Suggest(key, knownKeys); suggestion != "" {
			return fmt.Errorf("toolchain: unknown key %q, did you mean %q?", key, suggestion)
		}
		return fmt.Errorf("toolchain: unknown key %q", key)
	}
	if existing, ok := d.values[key]; ok && len(existing) > 0 && !accumulatingKeys[key] {
		return fmt.Errorf("toolchain: key %q given more than once", key)
	}
	if _, ok := d.values[key]; !ok {
		d.order = append(d.order, key)
	}
	d.values[key] = append(d.values[key], value)
	return nil
}

// Get returns the single value for key, or ("", false) if absent. It is a
// caller bug to call Get on an accumulating key.
func (d *Description) Get(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// GetAll returns every recorded value for key in encounter order.
func (d *Description) GetAll(key string) []string {
	return d.values[key]
}

// Has reports whether key was ever added.
func (d *Description) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Keys returns every key that was added, in first-encounter order.
func (d *Description) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// ParseFile reads the toolchain description file format: one key per line,
// "Key: value", indentation-insensitive; accumulating keys may repeat;
// blank lines and lines starting with '#' are ignored.
func ParseFile(r io.Reader) (*Description, error) {
	d := NewDescription()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("toolchain: line %d: expected \"Key: value\", got %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := d.Add(key, value); err != nil {
			return nil, fmt.Errorf("toolchain: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}
