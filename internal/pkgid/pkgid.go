// Package pkgid defines package identity: a (name, version) pair with
// canonical textual form and the ecosystem's ordering over it.
package pkgid

import (
	"fmt"
	"strings"

	"github.com/nbt-build/nbt/internal/ecosystemver"
)

// ID is a package identity: name plus version, ordered name-ascending then
// by ecosystemver.Compare on version.
type ID struct {
	Name    string
	Version string
}

// String returns the canonical "name@version" textual form.
func (id ID) String() string {
	return id.Name + "@" + id.Version
}

// Parse parses a canonical "name@version" string.
func Parse(s string) (ID, error) {
	name, version, ok := strings.Cut(s, "@")
	if !ok || name == "" || version == "" {
		return ID{}, fmt.Errorf("pkgid: malformed package identity %q, want name@version", s)
	}
	return ID{Name: name, Version: version}, nil
}

// Less reports whether id orders before other: name ascending, then version
// by the ecosystem's version ordering.
func Less(id, other ID) bool {
	if id.Name != other.Name {
		return id.Name < other.Name
	}
	return ecosystemver.Less(id.Version, other.Version)
}

// Compare orders a set of IDs: name ascending, then version ascending.
func Compare(a, b ID) int {
	if a.Name != b.Name {
		if a.Name < b.Name {
			return -1
		}
		return 1
	}
	return ecosystemver.Compare(a.Version, b.Version)
}
