package toolchain

import (
	"fmt"
	"regexp"
	"strings"
)

var gccResidue = regexp.MustCompile(`^gcc(-(7|8|9|10|11|12|13))?$`)
var clangResidue = regexp.MustCompile(`^clang(-(7|8|9|10|11|12|13))?$`)
var cxxVersionPrefix = regexp.MustCompile(`^c\+\+(\d\d):`)

// GetBuiltin parses a compact built-in toolchain identifier: a string of
// `debug:`, `ccache:`, `c++NN:` prefixes followed by a residue matching
// `gcc[-N]`, `clang[-N]` (N in 7..13), or `msvc`. Returns a Description
// equivalent to writing out the corresponding keys by hand.
func GetBuiltin(id string) (*Description, error) {
	d := NewDescription()
	rest := id

	for {
		switch {
		case strings.HasPrefix(rest, "debug:"):
			if err := d.Add("Debug", "True"); err != nil {
				return nil, err
			}
			rest = rest[len("debug:"):]
		case strings.HasPrefix(rest, "ccache:"):
			if err := d.Add("Compiler-Launcher", "ccache"); err != nil {
				return nil, err
			}
			rest = rest[len("ccache:"):]
		case cxxVersionPrefix.MatchString(rest):
			m := cxxVersionPrefix.FindStringSubmatch(rest)
			if err := d.Add("C++-Version", "C++"+m[1]); err != nil {
				return nil, err
			}
			rest = rest[len(m[0]):]
		default:
			goto residue
		}
	}

residue:
	switch {
	case gccResidue.MatchString(rest):
		suffix := strings.TrimPrefix(rest, "gcc")
		if err := d.Add("Compiler-ID", "GNU"); err != nil {
			return nil, err
		}
		if err := d.Add("C-Compiler", "gcc"+suffix); err != nil {
			return nil, err
		}
		if err := d.Add("C++-Compiler", "g++"+suffix); err != nil {
			return nil, err
		}
	case clangResidue.MatchString(rest):
		suffix := strings.TrimPrefix(rest, "clang")
		if err := d.Add("Compiler-ID", "Clang"); err != nil {
			return nil, err
		}
		if err := d.Add("C-Compiler", "clang"+suffix); err != nil {
			return nil, err
		}
		if err := d.Add("C++-Compiler", "clang++"+suffix); err != nil {
			return nil, err
		}
	case rest == "msvc":
		if err := d.Add("Compiler-ID", "MSVC"); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("toolchain: no such built-in %q", id)
	}

	return d, nil
}
