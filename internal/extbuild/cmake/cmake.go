// Package cmake wraps common CMake build steps with chainable
// configuration, for packages whose build plan delegates a source tree to
// CMake instead of compiling it directly.
package cmake

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/nbt-build/nbt/internal/extbuild"
	"github.com/nbt-build/nbt/internal/extbuild/runenv"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake is an extbuild.BuildSystem backed by the cmake CLI.
type CMake struct {
	SourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	Defines    map[string]defineValue
	env        map[string]string
}

var _ extbuild.BuildSystem = (*CMake)(nil)

// New creates a CMake helper rooted at sourceDir, with a fresh temporary
// build directory.
func New(sourceDir string) *CMake {
	buildDir, err := os.MkdirTemp("", "nbt-cmake-")
	if err != nil {
		buildDir = filepath.Join(sourceDir, "build")
	}
	return &CMake{
		SourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: filepath.Join(sourceDir, "build"),
		Defines:    map[string]defineValue{},
		env:        map[string]string{},
	}
}

func (c *CMake) Source(dir string)     { c.SourceDir = dir }
func (c *CMake) InstallDir(dir string) { c.installDir = dir }

func (c *CMake) Generator(name string) *CMake { c.generator = name; return c }
func (c *CMake) BuildType(name string) *CMake { c.buildType = name; return c }
func (c *CMake) Toolchain(path string) *CMake { c.toolchain = path; return c }

func (c *CMake) Define(key, value string) *CMake {
	c.Defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

func (c *CMake) DefineBool(key string, value bool) *CMake {
	if value {
		c.Defines[key] = defineValue{value: "ON", typeName: "BOOL"}
	} else {
		c.Defines[key] = defineValue{value: "OFF", typeName: "BOOL"}
	}
	return c
}

func (c *CMake) Env(key, value string) {
	c.env[key] = value
	os.Setenv(key, value)
}

// Use injects a resolved dependency's directories into the CMake and, on
// Unix, the Autotools-style compiler environment, so CMake's own
// find_package/pkg-config lookups see it.
func (c *CMake) Use(dirs extbuild.Dirs) {
	if dirs.PkgConfig != "" {
		runenv.PrependEnv("PKG_CONFIG_PATH", dirs.PkgConfig)
	}
	if dirs.Root != "" {
		runenv.PrependEnv("CMAKE_PREFIX_PATH", dirs.Root)
	}
	if dirs.Include != "" {
		runenv.PrependEnv("CMAKE_INCLUDE_PATH", dirs.Include)
	}
	if dirs.Lib != "" {
		runenv.PrependEnv("CMAKE_LIBRARY_PATH", dirs.Lib)
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

func (c *CMake) Configure(args ...string) error {
	buildDir := c.buildDir
	if buildDir == "" {
		buildDir = "build"
	}
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return err
	}
	cmakeArgs := []string{"-S", c.SourceDir, "-B", buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.toolchain != "" {
		c.Define("CMAKE_TOOLCHAIN_FILE", c.toolchain)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return runenv.Run("cmake", cmakeArgs, c.env, "")
}

func (c *CMake) Build(args ...string) error {
	buildDir := c.buildDir
	if buildDir == "" {
		buildDir = "build"
	}
	cmdArgs := []string{"--build", buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	cmdArgs = append(cmdArgs, args...)
	return runenv.Run("cmake", cmdArgs, c.env, "")
}

func (c *CMake) Install(args ...string) error {
	buildDir := c.buildDir
	if buildDir == "" {
		buildDir = "build"
	}
	cmdArgs := []string{"--install", buildDir}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	return runenv.Run("cmake", cmdArgs, c.env, "")
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) definesArgs() []string {
	if len(c.Defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Defines))
	for k := range c.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.Defines[k]
		args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
	}
	return args
}
