package toolchain

import "fmt"

// Family is the compiler family sum type driving deduction.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyGNU
	FamilyClang
	FamilyMSVC
)

func (f Family) String() string {
	switch f {
	case FamilyGNU:
		return "GNU"
	case FamilyClang:
		return "Clang"
	case FamilyMSVC:
		return "MSVC"
	default:
		return "unknown"
	}
}

// ParseFamily parses the Compiler-ID value.
func ParseFamily(s string) (Family, error) {
	switch s {
	case "GNU":
		return FamilyGNU, nil
	case "Clang":
		return FamilyClang, nil
	case "MSVC":
		return FamilyMSVC, nil
	default:
		return FamilyUnknown, fmt.Errorf("toolchain: unknown compiler id %q", s)
	}
}

// IsGNULike reports whether f behaves like GNU for flag-deduction purposes.
func (f Family) IsGNULike() bool {
	return f == FamilyGNU || f == FamilyClang
}

// Language is the resolved per-file compilation language.
type Language int

const (
	LangC Language = iota
	LangCXX
	LangAutomatic
)

// DepsMode is the dependency-file consumption strategy.
type DepsMode int

const (
	DepsNone DepsMode = iota
	DepsGNU
	DepsMSVC
)

func (m DepsMode) String() string {
	switch m {
	case DepsGNU:
		return "GNU"
	case DepsMSVC:
		return "MSVC"
	default:
		return "None"
	}
}

// ParseDepsMode parses the Deps-Mode value.
func ParseDepsMode(s string) (DepsMode, error) {
	switch s {
	case "GNU":
		return DepsGNU, nil
	case "MSVC":
		return DepsMSVC, nil
	case "None":
		return DepsNone, nil
	default:
		return DepsNone, fmt.Errorf("toolchain: unknown deps mode %q", s)
	}
}

// defaultDepsMode is the family's default when Deps-Mode is omitted.
func defaultDepsMode(f Family) DepsMode {
	if f == FamilyMSVC {
		return DepsMSVC
	}
	return DepsGNU
}
