package autotools

import (
	"os"
	"runtime"
	"testing"

	"github.com/nbt-build/nbt/internal/extbuild"
)

func TestUseSetsCompilerFlags(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix-only assertions")
	}
	t.Setenv("CPPFLAGS", "")
	t.Setenv("LDFLAGS", "")

	a := New(t.TempDir())
	a.Use(extbuild.Dirs{Include: "/opt/dep/include", Lib: "/opt/dep/lib"})

	if got := os.Getenv("CPPFLAGS"); got != "-I/opt/dep/include" {
		t.Errorf("CPPFLAGS = %q", got)
	}
	if got := os.Getenv("LDFLAGS"); got != "-L/opt/dep/lib" {
		t.Errorf("LDFLAGS = %q", got)
	}
}

func TestOutputDirDefaultsToBuildDir(t *testing.T) {
	a := New(t.TempDir())
	a.installDir = ""
	if a.OutputDir() != a.buildDir {
		t.Errorf("OutputDir = %q, want build dir %q", a.OutputDir(), a.buildDir)
	}
}

var _ extbuild.BuildSystem = (*AutoTools)(nil)
