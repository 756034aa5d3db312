package toolchain

import (
	"fmt"
	"runtime"

	"github.com/nbt-build/nbt/internal/shlex"
)

// Prep is the pre-realization record: same shape as Toolchain, but every
// field has already been deduced from the declarative description. The
// preparation-to-realized conversion (Realize) is a pure copy.
type Prep Toolchain

func splitOrEmpty(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	return shlex.Split(s)
}

func splitAllAccumulated(d *Description, key string) ([]string, error) {
	var out []string
	for _, v := range d.GetAll(key) {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: %s: %w", key, err)
		}
		out = append(out, toks...)
	}
	return out, nil
}

// Prepare applies the family-deduction rules in spec to a raw description,
// filling in every field Realize will need.
func Prepare(d *Description) (*Prep, error) {
	p := &Prep{}

	var family Family
	familyGiven := false
	if id, ok := d.Get("Compiler-ID"); ok {
		f, err := ParseFamily(id)
		if err != nil {
			return nil, err
		}
		family = f
		familyGiven = true
	}
	p.Family = family

	requireFamily := func(field string) error {
		if !familyGiven {
			return fmt.Errorf("toolchain: %s requires deduction but Compiler-ID is absent", field)
		}
		return nil
	}

	// Compilers.
	if v, ok := d.Get("C-Compiler"); ok {
		p.CCompiler = v
	} else {
		if err := requireFamily("C-Compiler"); err != nil {
			return nil, err
		}
		switch family {
		case FamilyGNU:
			p.CCompiler = "gcc"
		case FamilyClang:
			p.CCompiler = "clang"
		case FamilyMSVC:
			p.CCompiler = "cl.exe"
		}
	}
	if v, ok := d.Get("C++-Compiler"); ok {
		p.CXXCompiler = v
	} else {
		if err := requireFamily("C++-Compiler"); err != nil {
			return nil, err
		}
		switch family {
		case FamilyGNU:
			p.CXXCompiler = "g++"
		case FamilyClang:
			p.CXXCompiler = "clang++"
		case FamilyMSVC:
			p.CXXCompiler = "cl.exe"
		}
	}

	cVersion, _ := d.Get("C-Version")
	cxxVersion, _ := d.Get("C++-Version")
	if err := validateVersionTag(LangC, cVersion); err != nil {
		return nil, err
	}
	if err := validateVersionTag(LangCXX, cxxVersion); err != nil {
		return nil, err
	}

	// Include/external-include/define templates.
	if v, ok := d.Get("Include-Template"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: Include-Template: %w", err)
		}
		p.IncludeTemplate = toks
	} else {
		if err := requireFamily("Include-Template"); err != nil {
			return nil, err
		}
		if family == FamilyMSVC {
			p.IncludeTemplate = []string{"/I", "<PATH>"}
		} else {
			p.IncludeTemplate = []string{"-I", "<PATH>"}
		}
	}
	// External-Include-Template populates its own field; it is never
	// conflated with Include-Template (see DESIGN.md open question 2).
	if v, ok := d.Get("External-Include-Template"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: External-Include-Template: %w", err)
		}
		p.ExternalIncludeTemplate = toks
	} else {
		if err := requireFamily("External-Include-Template"); err != nil {
			return nil, err
		}
		if family == FamilyMSVC {
			p.ExternalIncludeTemplate = append([]string(nil), p.IncludeTemplate...)
		} else {
			p.ExternalIncludeTemplate = []string{"-isystem", "<PATH>"}
		}
	}
	if v, ok := d.Get("Define-Template"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: Define-Template: %w", err)
		}
		p.DefineTemplate = toks
	} else {
		if err := requireFamily("Define-Template"); err != nil {
			return nil, err
		}
		if family == FamilyMSVC {
			p.DefineTemplate = []string{"/D", "<DEF>"}
		} else {
			p.DefineTemplate = []string{"-D", "<DEF>"}
		}
	}

	// Warning flags.
	if d.Has("Warning-Flags") {
		toks, err := splitAllAccumulated(d, "Warning-Flags")
		if err != nil {
			return nil, err
		}
		p.WarningFlags = toks
	} else {
		if err := requireFamily("Warning-Flags"); err != nil {
			return nil, err
		}
		if family == FamilyMSVC {
			p.WarningFlags = []string{"/W4"}
		} else {
			p.WarningFlags = []string{"-Wall", "-Wextra", "-Wpedantic", "-Wconversion"}
		}
	}

	// Affixes.
	p.ArchivePrefix = getOrDefault(d, "Archive-Prefix", "lib")
	p.ObjectPrefix = getOrDefault(d, "Object-Prefix", "")
	p.ExecutablePrefix = getOrDefault(d, "Executable-Prefix", "")

	if v, ok := d.Get("Archive-Suffix"); ok {
		p.ArchiveSuffix = v
	} else {
		if err := requireFamily("Archive-Suffix"); err != nil {
			return nil, err
		}
		if family == FamilyMSVC {
			p.ArchiveSuffix = ".lib"
		} else {
			p.ArchiveSuffix = ".a"
		}
	}
	if v, ok := d.Get("Object-Suffix"); ok {
		p.ObjectSuffix = v
	} else {
		if err := requireFamily("Object-Suffix"); err != nil {
			return nil, err
		}
		if family == FamilyMSVC {
			p.ObjectSuffix = ".obj"
		} else {
			p.ObjectSuffix = ".o"
		}
	}
	if v, ok := d.Get("Executable-Suffix"); ok {
		p.ExecutableSuffix = v
	} else if runtime.GOOS == "windows" {
		p.ExecutableSuffix = ".exe"
	} else {
		p.ExecutableSuffix = ""
	}

	// Deps mode.
	if v, ok := d.Get("Deps-Mode"); ok {
		m, err := ParseDepsMode(v)
		if err != nil {
			return nil, err
		}
		p.DepsMode = m
	} else {
		if err := requireFamily("Deps-Mode"); err != nil {
			return nil, err
		}
		p.DepsMode = defaultDepsMode(family)
	}

	launcher, err := splitOrEmpty(mustGet(d, "Compiler-Launcher"))
	if err != nil {
		return nil, fmt.Errorf("toolchain: Compiler-Launcher: %w", err)
	}

	optimize := boolValue(d, "Optimize")
	debug := boolValue(d, "Debug")

	genericFlags, err := splitAllAccumulated(d, "Flags")
	if err != nil {
		return nil, err
	}
	cFlags, err := splitAllAccumulated(d, "C-Flags")
	if err != nil {
		return nil, err
	}
	cxxFlags, err := splitAllAccumulated(d, "C++-Flags")
	if err != nil {
		return nil, err
	}
	linkFlags, err := splitAllAccumulated(d, "Link-Flags")
	if err != nil {
		return nil, err
	}

	// Full-template overrides bypass deduction entirely.
	if v, ok := d.Get("C-Compile-File"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: C-Compile-File: %w", err)
		}
		p.CCompileTemplate = toks
	} else {
		cVerFlags, err := versionFlags(family, cVersion, "", LangC)
		if err != nil {
			return nil, err
		}
		tmpl, err := buildCompileTemplate(family, p.CCompiler, launcher, optimize, debug, cVerFlags, p.DepsMode, append(append([]string(nil), genericFlags...), cFlags...))
		if err != nil {
			return nil, err
		}
		p.CCompileTemplate = tmpl
	}
	if v, ok := d.Get("C++-Compile-File"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: C++-Compile-File: %w", err)
		}
		p.CXXCompileTemplate = toks
	} else {
		cxxVerFlags, err := versionFlags(family, "", cxxVersion, LangCXX)
		if err != nil {
			return nil, err
		}
		tmpl, err := buildCompileTemplate(family, p.CXXCompiler, launcher, optimize, debug, cxxVerFlags, p.DepsMode, append(append([]string(nil), genericFlags...), cxxFlags...))
		if err != nil {
			return nil, err
		}
		p.CXXCompileTemplate = tmpl
	}

	if v, ok := d.Get("Create-Archive"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: Create-Archive: %w", err)
		}
		p.ArchiveTemplate = toks
	} else {
		if err := requireFamily("Create-Archive"); err != nil {
			return nil, err
		}
		p.ArchiveTemplate = buildArchiveTemplate(family)
	}

	if v, ok := d.Get("Link-Executable"); ok {
		toks, err := shlex.Split(v)
		if err != nil {
			return nil, fmt.Errorf("toolchain: Link-Executable: %w", err)
		}
		p.LinkTemplate = toks
	} else {
		if err := requireFamily("Link-Executable"); err != nil {
			return nil, err
		}
		p.LinkTemplate = buildLinkTemplate(family, p.CXXCompiler)
	}
	p.LinkFlags = linkFlags

	return p, nil
}

func getOrDefault(d *Description, key, def string) string {
	if v, ok := d.Get(key); ok {
		return v
	}
	return def
}

func mustGet(d *Description, key string) string {
	v, _ := d.Get(key)
	return v
}

func boolValue(d *Description, key string) bool {
	v, ok := d.Get(key)
	if !ok {
		return false
	}
	return v == "True" || v == "true"
}

// Realize converts a preparation into an immutable realized toolchain. The
// conversion is a pure copy; all deduction already happened in Prepare.
func Realize(p *Prep) *Toolchain {
	tc := &Toolchain{
		Family:                  p.Family,
		CCompiler:               p.CCompiler,
		CXXCompiler:             p.CXXCompiler,
		CCompileTemplate:        append([]string(nil), p.CCompileTemplate...),
		CXXCompileTemplate:      append([]string(nil), p.CXXCompileTemplate...),
		IncludeTemplate:         append([]string(nil), p.IncludeTemplate...),
		ExternalIncludeTemplate: append([]string(nil), p.ExternalIncludeTemplate...),
		DefineTemplate:          append([]string(nil), p.DefineTemplate...),
		ArchiveTemplate:         append([]string(nil), p.ArchiveTemplate...),
		LinkTemplate:            append([]string(nil), p.LinkTemplate...),
		LinkFlags:               append([]string(nil), p.LinkFlags...),
		WarningFlags:            append([]string(nil), p.WarningFlags...),
		ArchivePrefix:           p.ArchivePrefix,
		ArchiveSuffix:           p.ArchiveSuffix,
		ObjectPrefix:            p.ObjectPrefix,
		ObjectSuffix:            p.ObjectSuffix,
		ExecutablePrefix:        p.ExecutablePrefix,
		ExecutableSuffix:        p.ExecutableSuffix,
		DepsMode:                p.DepsMode,
	}
	return tc
}
