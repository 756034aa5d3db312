package toolchain

import (
	"fmt"
	"strings"
)

// validCVersionTags and validCXXVersionTags enumerate the language-standard
// tags this deduction table recognizes, one set per language so C-Version
// and C++-Version are validated against the right set.
var validCVersionTags = map[string]bool{
	"C89": true, "C99": true, "C11": true, "C17": true,
}

var validCXXVersionTags = map[string]bool{
	"C++11": true, "C++14": true, "C++17": true, "C++20": true, "C++23": true,
}

// msvcCXXVersionFlag is the (family=MSVC, C++ version) -> flag table. MSVC
// has no distinct flag for C++11; it maps onto the same baseline as C++14.
// C++20 and C++23 both resolve to /std:c++latest, the only way MSVC's
// compiler exposes them at the versions this table targets.
var msvcCXXVersionFlag = map[string]string{
	"C++11": "/std:c++14",
	"C++14": "/std:c++14",
	"C++17": "/std:c++17",
	"C++20": "/std:c++latest",
	"C++23": "/std:c++latest",
}

// versionFlags returns the deduced language-version flag tokens for family
// and the given C-Version/C++-Version tags (either may be "").
func versionFlags(family Family, cVersion, cxxVersion string, lang Language) ([]string, error) {
	switch lang {
	case LangC:
		if cVersion == "" {
			return nil, nil
		}
		if !validCVersionTags[cVersion] {
			return nil, fmt.Errorf("toolchain: unknown C language-version tag %q", cVersion)
		}
		if family == FamilyMSVC {
			// C versions map to nothing on MSVC.
			return nil, nil
		}
		return []string{"-std=" + gnuStdName(cVersion)}, nil
	case LangCXX:
		if cxxVersion == "" {
			return nil, nil
		}
		if !validCXXVersionTags[cxxVersion] {
			return nil, fmt.Errorf("toolchain: unknown C++ language-version tag %q", cxxVersion)
		}
		if family == FamilyMSVC {
			return []string{msvcCXXVersionFlag[cxxVersion]}, nil
		}
		return []string{"-std=" + gnuStdName(cxxVersion)}, nil
	default:
		return nil, fmt.Errorf("toolchain: versionFlags called with unresolved language")
	}
}

// gnuStdName lowercases a version tag into the gcc/clang -std= name, e.g.
// "C++17" -> "c++17", "C11" -> "c11".
func gnuStdName(tag string) string {
	return strings.ToLower(tag)
}

// validateVersionTag is used at Prepare time even when the corresponding
// command template won't need the flag (e.g. validating C-Version exists
// before the description is accepted), so description errors surface at
// preparation rather than at first realized command construction.
func validateVersionTag(lang Language, tag string) error {
	if tag == "" {
		return nil
	}
	switch lang {
	case LangC:
		if !validCVersionTags[tag] {
			return fmt.Errorf("toolchain: unknown C language-version tag %q", tag)
		}
	case LangCXX:
		if !validCXXVersionTags[tag] {
			return fmt.Errorf("toolchain: unknown C++ language-version tag %q", tag)
		}
	}
	return nil
}
