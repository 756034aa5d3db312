// Package autotools wraps common ./configure && make && make install steps
// with chainable configuration, for packages whose build plan delegates a
// source tree to Autotools instead of compiling it directly.
package autotools

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/nbt-build/nbt/internal/extbuild"
	"github.com/nbt-build/nbt/internal/extbuild/runenv"
)

// AutoTools is an extbuild.BuildSystem backed by the Autotools trio.
type AutoTools struct {
	SourceDir  string
	buildDir   string
	installDir string
	env        map[string]string
}

var _ extbuild.BuildSystem = (*AutoTools)(nil)

// New creates an AutoTools helper rooted at sourceDir, with a fresh
// temporary build directory.
func New(sourceDir string) *AutoTools {
	buildDir, err := os.MkdirTemp("", "nbt-autotools-")
	if err != nil {
		buildDir = filepath.Join(sourceDir, "build")
	}
	return &AutoTools{
		SourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: filepath.Join(sourceDir, "build"),
		env:        map[string]string{},
	}
}

func (a *AutoTools) Source(dir string)     { a.SourceDir = dir }
func (a *AutoTools) InstallDir(dir string) { a.installDir = dir }

func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
	os.Setenv(key, value)
}

// Use injects a resolved dependency's directories into the configure
// environment, the same way CMake's Use does for its own lookups.
func (a *AutoTools) Use(dirs extbuild.Dirs) {
	if dirs.PkgConfig != "" {
		runenv.PrependEnv("PKG_CONFIG_PATH", dirs.PkgConfig)
	}

	if runtime.GOOS == "windows" {
		if dirs.Include != "" {
			runenv.PrependEnv("INCLUDE", dirs.Include)
		}
		if dirs.Lib != "" {
			runenv.PrependEnv("LIB", dirs.Lib)
		}
		return
	}
	if dirs.Include != "" {
		runenv.AppendFlag("CPPFLAGS", "-I"+dirs.Include)
	}
	if dirs.Lib != "" {
		runenv.AppendFlag("LDFLAGS", "-L"+dirs.Lib)
	}
}

// Configure runs ./configure with --prefix plus any extra args.
func (a *AutoTools) Configure(args ...string) error {
	buildDir := a.buildDir
	if buildDir == "" {
		buildDir = "."
	}
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return err
	}

	exe := filepath.Join(a.SourceDir, "configure")
	configArgs := []string{}
	if a.installDir != "" {
		configArgs = append(configArgs, "--prefix="+a.installDir)
	}
	configArgs = append(configArgs, args...)
	return runenv.Run(exe, configArgs, a.env, buildDir)
}

// Build runs make (or the provided args) in the build directory.
func (a *AutoTools) Build(args ...string) error {
	buildDir := a.buildDir
	if buildDir == "" {
		buildDir = "."
	}
	if len(args) == 0 {
		return runenv.Run("make", nil, a.env, buildDir)
	}
	return runenv.Run(args[0], args[1:], a.env, buildDir)
}

// Install runs make install (or the provided args) in the build directory.
func (a *AutoTools) Install(args ...string) error {
	buildDir := a.buildDir
	if buildDir == "" {
		buildDir = "."
	}
	if len(args) == 0 {
		args = []string{"make", "install"}
	}
	return runenv.Run(args[0], args[1:], a.env, buildDir)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (a *AutoTools) OutputDir() string {
	if a.installDir != "" {
		return a.installDir
	}
	return a.buildDir
}
