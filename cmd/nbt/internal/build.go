package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbt-build/nbt/internal/buildexec"
	"github.com/nbt-build/nbt/internal/buildplan"
	"github.com/nbt-build/nbt/internal/env"
	"github.com/nbt-build/nbt/internal/errs"
	"github.com/nbt-build/nbt/internal/extbuild"
	"github.com/nbt-build/nbt/internal/extbuild/autotools"
	"github.com/nbt-build/nbt/internal/extbuild/cmake"
	"github.com/nbt-build/nbt/internal/source"
	"github.com/nbt-build/nbt/internal/toolchain"
)

var (
	buildOut           string
	buildToolchainID   string
	buildDescFile      string
	buildLibrary       string
	buildIncludes      []string
	buildDefines       []string
	buildNoCache       bool
	buildWarnings      bool
	buildJobs          int
	buildVerbose       bool
	buildLibDirs       []string
	buildPkgConfigDir  string
	buildExternalRoot  string
)

var buildCmd = &cobra.Command{
	Use:   "build [source-dir]",
	Short: "Classify sources, build the compile/archive/link plan, and run it",
	Long:  `Build classifies every source under source-dir, builds one library's compile/archive/link plan, and runs it under the toolchain deduced from a description file or a built-in shorthand.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "out", "Output directory")
	buildCmd.Flags().StringVar(&buildToolchainID, "toolchain-id", "gcc", "Built-in toolchain shorthand (e.g. gcc, clang, msvc, debug:ccache:c++17:gcc-9)")
	buildCmd.Flags().StringVar(&buildDescFile, "toolchain-file", "", "Toolchain description file (overrides --toolchain-id)")
	buildCmd.Flags().StringVar(&buildLibrary, "library", "", "Library name (defaults to the source directory's base name)")
	buildCmd.Flags().StringArrayVar(&buildIncludes, "include", nil, "Include directory (repeatable)")
	buildCmd.Flags().StringArrayVar(&buildDefines, "define", nil, "Preprocessor define (repeatable)")
	buildCmd.Flags().BoolVar(&buildWarnings, "warnings", true, "Pass the toolchain's warning flags")
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "Parallel action limit (0 = hardware_parallelism + 2)")
	buildCmd.Flags().BoolVarP(&buildVerbose, "verbose", "v", false, "Print every action's argv before running it")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Rebuild every action even if its plan cache entry is up to date")
	buildCmd.Flags().StringArrayVar(&buildLibDirs, "lib-dir", nil, "Library directory for an external build system's linker search path (repeatable)")
	buildCmd.Flags().StringVar(&buildPkgConfigDir, "pkg-config-dir", "", "pkg-config search directory for an external build system")
	buildCmd.Flags().StringVar(&buildExternalRoot, "external-root", "", "Install prefix of an already-built dependency, fed to an external build system as its CMAKE_PREFIX_PATH")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	srcDir := "."
	if len(args) == 1 {
		srcDir = args[0]
	}

	if bs := detectExternalBuildSystem(srcDir); bs != nil {
		return runExternalBuild(bs, srcDir)
	}

	tc, err := loadToolchain(buildDescFile, buildToolchainID)
	if err != nil {
		return err
	}

	library := buildLibrary
	if library == "" {
		abs, err := filepath.Abs(srcDir)
		if err != nil {
			return err
		}
		library = filepath.Base(abs)
	}

	files, err := source.Classify(os.DirFS(srcDir), ".", library)
	if err != nil {
		return errs.EnvironmentError("E-SOURCE-CLASSIFY", fmt.Sprintf("classifying sources under %s", srcDir), err)
	}

	rules := buildplan.CompileRules{
		Language:    toolchain.LangAutomatic,
		IncludeDirs: buildIncludes,
		Defines:     buildDefines,
		Warnings:    buildWarnings,
	}
	plan := buildplan.BuildLibraryPlan(library, files, rules, buildOut, buildplan.TestExtra{})

	exec := &buildexec.Executor{Parallelism: buildJobs}
	cachePath := filepath.Join(buildOut, ".nbt-plan-cache.toml")
	if !buildNoCache {
		cache, err := buildexec.LoadPlanCache(cachePath)
		if err != nil {
			return errs.EnvironmentError("E-PLAN-CACHE", "loading build plan cache", err)
		}
		exec.Cache = cache
	}
	ctx := context.Background()

	if err := runCompilePhase(ctx, exec, tc, srcDir, plan); err != nil {
		return err
	}
	archivePath, err := runArchivePhase(ctx, exec, tc, plan)
	if err != nil {
		return err
	}
	if err := runLinkPhase(ctx, exec, tc, plan, archivePath); err != nil {
		return err
	}

	if exec.Cache != nil {
		if err := os.MkdirAll(buildOut, 0o755); err != nil {
			return errs.EnvironmentError("E-MKDIR", "creating output directory", err)
		}
		if err := exec.Cache.Save(); err != nil {
			return errs.EnvironmentError("E-PLAN-CACHE", "saving build plan cache", err)
		}
	}

	if archivePath != "" {
		fmt.Println(archivePath)
	}
	for _, le := range plan.LinkExecutables {
		fmt.Println(le.ExecutablePath(tc.ExecutablePrefix, tc.ExecutableSuffix))
	}
	return nil
}

// detectExternalBuildSystem returns the BuildSystem a source directory's
// own build files call for, or nil if srcDir has none: a CMakeLists.txt
// routes to CMake, a generated configure script routes to Autotools.
// Sources with their own build system bypass the classify/compile/
// archive/link pipeline entirely; mixing the two per source tree isn't
// supported.
func detectExternalBuildSystem(srcDir string) extbuild.BuildSystem {
	if _, err := os.Stat(filepath.Join(srcDir, "CMakeLists.txt")); err == nil {
		return cmake.New(srcDir)
	}
	if _, err := os.Stat(filepath.Join(srcDir, "configure")); err == nil {
		return autotools.New(srcDir)
	}
	return nil
}

// runExternalBuild delegates an entire library's build to bs: configure,
// build, install, in that order, with every --include/--lib-dir/
// --pkg-config-dir/--external-root flag injected via Use beforehand so
// the external build system's own dependency lookups (find_package,
// pkg-config, CPPFLAGS/LDFLAGS) see what our own plan would otherwise
// have resolved through usagereqs.
func runExternalBuild(bs extbuild.BuildSystem, srcDir string) error {
	bs.InstallDir(buildOut)
	for _, inc := range buildIncludes {
		bs.Use(extbuild.Dirs{Include: inc})
	}
	for _, lib := range buildLibDirs {
		bs.Use(extbuild.Dirs{Lib: lib})
	}
	if buildPkgConfigDir != "" {
		bs.Use(extbuild.Dirs{PkgConfig: buildPkgConfigDir})
	}
	if buildExternalRoot != "" {
		bs.Use(extbuild.Dirs{Root: buildExternalRoot})
	}
	if cm, ok := bs.(*cmake.CMake); ok {
		for _, d := range buildDefines {
			key, val, _ := strings.Cut(d, "=")
			cm.Define(key, val)
		}
	}

	if buildVerbose {
		fmt.Printf("delegating %s to %T\n", srcDir, bs)
	}
	if err := bs.Configure(); err != nil {
		return errs.SubprocessError("E-EXTBUILD-CONFIGURE", "configuring external build", nil, "", err)
	}
	if err := bs.Build(); err != nil {
		return errs.SubprocessError("E-EXTBUILD-BUILD", "running external build", nil, "", err)
	}
	if err := bs.Install(); err != nil {
		return errs.SubprocessError("E-EXTBUILD-INSTALL", "installing external build output", nil, "", err)
	}
	fmt.Println(bs.OutputDir())
	return nil
}

func allCompiles(plan *buildplan.LibraryPlan) []*buildplan.CompileFilePlan {
	var out []*buildplan.CompileFilePlan
	if plan.Archive != nil {
		out = append(out, plan.Archive.Compiles...)
	}
	for _, le := range plan.LinkExecutables {
		out = append(out, le.Compile)
	}
	return out
}

func runCompilePhase(ctx context.Context, exec *buildexec.Executor, tc *toolchain.Toolchain, srcDir string, plan *buildplan.LibraryPlan) error {
	compiles := allCompiles(plan)
	actions := make([]buildexec.Action, 0, len(compiles))
	for _, cp := range compiles {
		if err := os.MkdirAll(cp.OutputDir, 0o755); err != nil {
			return errs.EnvironmentError("E-MKDIR", "creating object directory", err)
		}
		objPath := cp.ObjectPath(tc.ObjectPrefix, tc.ObjectSuffix)
		result, err := toolchain.BuildCompileCommand(tc, toolchain.CompileSpec{
			Source:              filepath.Join(srcDir, cp.Source.Path),
			Output:              objPath,
			Language:            cp.Rules.Language,
			IncludeDirs:         cp.Rules.IncludeDirs,
			ExternalIncludeDirs: cp.Rules.ExternalIncludeDirs,
			Defines:             cp.Rules.Defines,
			Warnings:            cp.Rules.Warnings,
		})
		if err != nil {
			return errs.UserInputError("E-COMPILE-SPEC", fmt.Sprintf("building compile command for %s", cp.Source.Path), err)
		}
		action := buildexec.Action{
			ID:          "compile " + cp.Source.Path,
			Argv:        result.Argv,
			Inputs:      []string{filepath.Join(srcDir, cp.Source.Path)},
			Output:      objPath,
			DepfilePath: result.DepfilePath,
			DepsMode:    mapDepsMode(tc.DepsMode),
		}
		if buildVerbose {
			fmt.Println(action.Argv)
		}
		actions = append(actions, action)
	}
	return runPhase(ctx, exec, actions)
}

func runArchivePhase(ctx context.Context, exec *buildexec.Executor, tc *toolchain.Toolchain, plan *buildplan.LibraryPlan) (string, error) {
	if plan.Archive == nil {
		return "", nil
	}
	if err := os.MkdirAll(plan.Archive.OutDir, 0o755); err != nil {
		return "", errs.EnvironmentError("E-MKDIR", "creating archive directory", err)
	}
	var inputs []string
	for _, cp := range plan.Archive.Compiles {
		inputs = append(inputs, cp.ObjectPath(tc.ObjectPrefix, tc.ObjectSuffix))
	}
	archivePath := plan.Archive.ArchivePath(tc.ArchivePrefix, tc.ArchiveSuffix)
	argv, err := toolchain.BuildArchiveCommand(tc, toolchain.ArchiveSpec{Output: archivePath, Inputs: inputs})
	if err != nil {
		return "", errs.UserInputError("E-ARCHIVE-SPEC", "building archive command", err)
	}
	action := buildexec.Action{ID: "archive " + plan.Library, Argv: argv, Inputs: inputs, Output: archivePath}
	if buildVerbose {
		fmt.Println(action.Argv)
	}
	if err := runPhase(ctx, exec, []buildexec.Action{action}); err != nil {
		return "", err
	}
	return archivePath, nil
}

func runLinkPhase(ctx context.Context, exec *buildexec.Executor, tc *toolchain.Toolchain, plan *buildplan.LibraryPlan, archivePath string) error {
	var actions []buildexec.Action
	for _, le := range plan.LinkExecutables {
		if err := os.MkdirAll(le.OutDir, 0o755); err != nil {
			return errs.EnvironmentError("E-MKDIR", "creating link output directory", err)
		}
		inputs := []string{le.Compile.ObjectPath(tc.ObjectPrefix, tc.ObjectSuffix)}
		if le.LinksOwnArchive && archivePath != "" {
			inputs = append(inputs, archivePath)
		}
		exePath := le.ExecutablePath(tc.ExecutablePrefix, tc.ExecutableSuffix)
		argv, err := toolchain.BuildLinkCommand(tc, toolchain.LinkSpec{
			Output:         exePath,
			Inputs:         inputs,
			AdditionalLibs: le.AdditionalLibs,
		})
		if err != nil {
			return errs.UserInputError("E-LINK-SPEC", fmt.Sprintf("building link command for %s", exePath), err)
		}
		action := buildexec.Action{ID: "link " + exePath, Argv: argv, Inputs: inputs, Output: exePath}
		if buildVerbose {
			fmt.Println(action.Argv)
		}
		actions = append(actions, action)
	}
	return runPhase(ctx, exec, actions)
}

func runPhase(ctx context.Context, exec *buildexec.Executor, actions []buildexec.Action) error {
	if len(actions) == 0 {
		return nil
	}
	_, err := exec.RunPhase(ctx, actions)
	if err == nil {
		return nil
	}
	phaseErr, ok := err.(*buildexec.PhaseError)
	if !ok {
		return err
	}
	first := phaseErr.Failures[0]
	return errs.SubprocessError("E-SUBPROCESS", first.Action.ID+" failed", first.Action.Argv, string(first.Stderr), first.Err)
}

func mapDepsMode(m toolchain.DepsMode) buildexec.DepsMode {
	switch m {
	case toolchain.DepsGNU:
		return buildexec.DepsGNU
	case toolchain.DepsMSVC:
		return buildexec.DepsMSVC
	default:
		return buildexec.DepsNone
	}
}

// resolveToolchainFile returns name unchanged if it exists as given
// (absolute, or relative to the working directory); otherwise it looks
// for a file of that name under the per-user toolchain cache directory,
// so a bare "--toolchain-file myrig.toml" picks up a description the
// user previously dropped into env.ToolchainDir.
func resolveToolchainFile(name string) string {
	if _, err := os.Stat(name); err == nil {
		return name
	}
	dir, err := env.ToolchainDir()
	if err != nil {
		return name
	}
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return name
}

func loadToolchain(descFile, builtinID string) (*toolchain.Toolchain, error) {
	var desc *toolchain.Description
	if descFile != "" {
		f, err := os.Open(resolveToolchainFile(descFile))
		if err != nil {
			return nil, errs.EnvironmentError("E-TOOLCHAIN-FILE", "opening toolchain description file", err)
		}
		defer f.Close()
		desc, err = toolchain.ParseFile(f)
		if err != nil {
			return nil, errs.UserInputError("E-TOOLCHAIN-PARSE", "parsing toolchain description file", err)
		}
	} else {
		var err error
		desc, err = toolchain.GetBuiltin(builtinID)
		if err != nil {
			return nil, errs.UserInputError("E-TOOLCHAIN-BUILTIN", "resolving built-in toolchain shorthand", err)
		}
	}

	prep, err := toolchain.Prepare(desc)
	if err != nil {
		return nil, errs.UserInputError("E-TOOLCHAIN-PREPARE", "deducing toolchain", err)
	}
	return toolchain.Realize(prep), nil
}
