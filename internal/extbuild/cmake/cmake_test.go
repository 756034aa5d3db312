package cmake

import (
	"os"
	"runtime"
	"testing"

	"github.com/nbt-build/nbt/internal/extbuild"
)

func TestDefinesArgsSortedAndTyped(t *testing.T) {
	c := New(t.TempDir())
	c.Define("ZEBRA", "1").DefineBool("AARDVARK", true)

	got := c.definesArgs()
	want := []string{"-DAARDVARK:BOOL=ON", "-DZEBRA:STRING=1"}
	if len(got) != len(want) {
		t.Fatalf("definesArgs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("definesArgs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUseSetsUnixFlags(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix-only assertions")
	}
	t.Setenv("CPPFLAGS", "")
	t.Setenv("LDFLAGS", "")
	t.Setenv("CMAKE_PREFIX_PATH", "")

	c := New(t.TempDir())
	c.Use(extbuild.Dirs{Root: "/opt/dep", Include: "/opt/dep/include", Lib: "/opt/dep/lib"})

	if got := os.Getenv("CPPFLAGS"); got != "-I/opt/dep/include" {
		t.Errorf("CPPFLAGS = %q", got)
	}
	if got := os.Getenv("LDFLAGS"); got != "-L/opt/dep/lib" {
		t.Errorf("LDFLAGS = %q", got)
	}
	if got := os.Getenv("CMAKE_PREFIX_PATH"); got != "/opt/dep" {
		t.Errorf("CMAKE_PREFIX_PATH = %q", got)
	}
}

func TestOutputDirPrefersInstallDir(t *testing.T) {
	c := New(t.TempDir())
	c.InstallDir("/out")
	if c.OutputDir() != "/out" {
		t.Errorf("OutputDir = %q, want /out", c.OutputDir())
	}
}

var _ extbuild.BuildSystem = (*CMake)(nil)
