// Package buildplan turns a library's classified sources into the
// immutable plan-node tree the build executor drives: compile-file plans
// owned by an optional archive plan and by one link-executable plan per
// app/test entry point.
package buildplan

import (
	"path/filepath"

	"github.com/nbt-build/nbt/internal/source"
	"github.com/nbt-build/nbt/internal/toolchain"
)

// CompileRules is everything a compile-file plan needs beyond the source
// path and output path: the toolchain-facing parts of a compile spec that
// are constant across every file in a library.
type CompileRules struct {
	Language            toolchain.Language
	IncludeDirs         []string
	ExternalIncludeDirs []string
	Defines             []string
	Warnings            bool
	Uses                []string // usage keys this compile depends on
}

// Clone returns a deep-enough copy safe to extend independently (used when
// deriving test-only rules from a library's base rules).
func (r CompileRules) Clone() CompileRules {
	return CompileRules{
		Language:            r.Language,
		IncludeDirs:         append([]string(nil), r.IncludeDirs...),
		ExternalIncludeDirs: append([]string(nil), r.ExternalIncludeDirs...),
		Defines:             append([]string(nil), r.Defines...),
		Warnings:            r.Warnings,
		Uses:                append([]string(nil), r.Uses...),
	}
}

// CompileFilePlan describes one compile action.
type CompileFilePlan struct {
	Library   string
	Source    source.File
	OutputDir string
	Rules     CompileRules
}

// ObjectPath returns the planned object file's path, with family-specific
// prefix/suffix applied by the caller via tc.ObjectPrefix/tc.ObjectSuffix.
func (p *CompileFilePlan) ObjectPath(prefix, suffix string) string {
	stem := source.Stem(p.Source.Path)
	return filepath.Join(p.OutputDir, prefix+stem+suffix)
}

// ArchivePlan describes one create-archive action; it owns every regular
// (non-entry-point) compile-file plan for its library.
type ArchivePlan struct {
	Library  string
	OutDir   string
	Compiles []*CompileFilePlan
}

// ArchivePath returns the planned archive path with family affixes applied.
func (p *ArchivePlan) ArchivePath(prefix, suffix string) string {
	return filepath.Join(p.OutDir, prefix+p.Library+suffix)
}

// LinkExecutablePlan describes one link-executable action: a dedicated
// compile-file plan for its entry source, plus whether it links the
// library's own archive and any additional libraries.
type LinkExecutablePlan struct {
	Library        string
	Compile        *CompileFilePlan
	OutDir         string
	LinksOwnArchive bool
	AdditionalLibs []string
}

// ExecutablePath returns the planned executable path with family affixes
// applied; base name is the entry source's stem with all extensions
// stripped (e.g. "foo.test.cpp" -> "foo").
func (p *LinkExecutablePlan) ExecutablePath(prefix, suffix string) string {
	stem := source.Stem(p.Compile.Source.Path)
	return filepath.Join(p.OutDir, prefix+stem+suffix)
}

// LibraryPlan is a library handle, an optional archive plan, and an ordered
// list of link-executable plans (one per app or test source).
type LibraryPlan struct {
	Library         string
	Archive         *ArchivePlan
	LinkExecutables []*LinkExecutablePlan
}

// BuildPlan is the ordered list of library plans: a two-phase DAG (compile +
// archive, then link) with a single barrier between the phases.
type BuildPlan struct {
	Libraries []*LibraryPlan
}

// TestExtra carries the test-only additions the caller supplies: extra
// usage keys the test compile depends on, and extra libraries the test
// executable must link.
type TestExtra struct {
	ExtraUses     []string
	ExtraLinkLibs []string
}

// BuildLibraryPlan partitions files into regular/app/test buckets and
// assembles the plan tree for one library. outDir is this library's output
// root; each file's Path is taken as relative to the library's source root,
// and its directory part is the `<rel>` subdirectory for app/test outputs.
func BuildLibraryPlan(library string, files []source.File, rules CompileRules, outDir string, testExtra TestExtra) *LibraryPlan {
	plan := &LibraryPlan{Library: library}

	var regular []source.File
	var apps []source.File
	var tests []source.File
	for _, f := range files {
		switch f.Kind {
		case source.KindSource:
			regular = append(regular, f)
		case source.KindApp:
			apps = append(apps, f)
		case source.KindTest:
			tests = append(tests, f)
		}
	}

	objDir := filepath.Join(outDir, "obj")

	if len(regular) > 0 {
		archive := &ArchivePlan{Library: library, OutDir: outDir}
		for _, f := range regular {
			archive.Compiles = append(archive.Compiles, &CompileFilePlan{
				Library:   library,
				Source:    f,
				OutputDir: objDir,
				Rules:     rules.Clone(),
			})
		}
		plan.Archive = archive
	}

	for _, f := range apps {
		rel := filepath.Dir(f.Path)
		appOutDir := filepath.Join(outDir, rel)
		compile := &CompileFilePlan{
			Library:   library,
			Source:    f,
			OutputDir: filepath.Join(appOutDir, "obj"),
			Rules:     rules.Clone(),
		}
		plan.LinkExecutables = append(plan.LinkExecutables, &LinkExecutablePlan{
			Library:         library,
			Compile:         compile,
			OutDir:          appOutDir,
			LinksOwnArchive: plan.Archive != nil,
		})
	}

	for _, f := range tests {
		rel := filepath.Dir(f.Path)
		testOutDir := filepath.Join(outDir, "test", rel)
		testRules := rules.Clone()
		testRules.Uses = append(testRules.Uses, testExtra.ExtraUses...)
		compile := &CompileFilePlan{
			Library:   library,
			Source:    f,
			OutputDir: filepath.Join(testOutDir, "obj"),
			Rules:     testRules,
		}
		plan.LinkExecutables = append(plan.LinkExecutables, &LinkExecutablePlan{
			Library:         library,
			Compile:         compile,
			OutDir:          testOutDir,
			LinksOwnArchive: plan.Archive != nil,
			AdditionalLibs:  append([]string(nil), testExtra.ExtraLinkLibs...),
		})
	}

	return plan
}
