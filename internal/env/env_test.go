package env

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestRepoDirCreatesDirectoryWithRestrictivePerms(t *testing.T) {
	dir, err := RepoDir()
	if err != nil {
		t.Fatalf("RepoDir() returned error: %v", err)
	}
	if dir == "" {
		t.Fatal("RepoDir() returned empty path")
	}

	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		t.Fatalf("os.UserCacheDir() returned error: %v", err)
	}
	want := filepath.Join(userCacheDir, "nbt", "repo")
	if dir != want {
		t.Errorf("RepoDir() = %q, want %q", dir, want)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("RepoDir() created a file instead of a directory")
	}
	if mode := info.Mode().Perm(); mode != 0700 {
		t.Errorf("directory has permissions %v, want %v", mode, os.FileMode(0700))
	}
}

func TestRepoDirIdempotent(t *testing.T) {
	dir1, err := RepoDir()
	if err != nil {
		t.Fatalf("first RepoDir() call failed: %v", err)
	}
	dir2, err := RepoDir()
	if err != nil {
		t.Fatalf("second RepoDir() call failed: %v", err)
	}
	if dir1 != dir2 {
		t.Errorf("RepoDir() not idempotent: first = %q, second = %q", dir1, dir2)
	}
}

func TestToolchainDirDistinctFromRepoDir(t *testing.T) {
	repoDir, err := RepoDir()
	if err != nil {
		t.Fatalf("RepoDir(): %v", err)
	}
	toolchainDir, err := ToolchainDir()
	if err != nil {
		t.Fatalf("ToolchainDir(): %v", err)
	}
	if repoDir == toolchainDir {
		t.Fatalf("RepoDir and ToolchainDir both resolved to %q", repoDir)
	}
	if _, err := os.Stat(toolchainDir); err != nil {
		t.Errorf("toolchain directory not accessible: %v", err)
	}
}

func TestWorkDirRespectsCustomCacheHome(t *testing.T) {
	tempDir := t.TempDir()
	original := os.Getenv("XDG_CACHE_HOME")
	t.Cleanup(func() {
		if original != "" {
			os.Setenv("XDG_CACHE_HOME", original)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	})
	os.Setenv("XDG_CACHE_HOME", tempDir)

	dir, err := WorkDir()
	if err != nil {
		t.Fatalf("WorkDir() failed with custom cache dir: %v", err)
	}
	if dir == "" {
		t.Fatal("WorkDir() returned empty path")
	}
	// os.UserCacheDir honours XDG_CACHE_HOME on Linux only.
	if runtime.GOOS == "linux" {
		if want := filepath.Join(tempDir, "nbt"); dir != want {
			t.Errorf("WorkDir() = %q, want %q", dir, want)
		}
	}
}
