// Package extbuild captures the shared shape of external build-system
// helpers (CMake, Autotools) that a package's build plan can delegate a
// source subdirectory to, instead of compiling it itself.
package extbuild

// Dirs is what a resolved dependency contributes to an external build
// system's environment: its installed include directory, library
// directory, and pkg-config directory, each left empty if the dependency
// does not have one.
type Dirs struct {
	Root      string
	Include   string
	Lib       string
	PkgConfig string
}

// BuildSystem captures the shared lifecycle of an external build helper.
// Implementations add their own configuration surface on top.
type BuildSystem interface {
	// Use injects a resolved dependency's directories into the build
	// environment (CMAKE_PREFIX_PATH, PKG_CONFIG_PATH, CPPFLAGS/LDFLAGS
	// or their platform equivalent).
	Use(dirs Dirs)

	Source(dir string)
	InstallDir(dir string)
	Env(key, val string)

	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	OutputDir() string
}
