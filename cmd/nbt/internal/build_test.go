package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nbt-build/nbt/internal/extbuild/autotools"
	"github.com/nbt-build/nbt/internal/extbuild/cmake"
)

func TestDetectExternalBuildSystem_CMake(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(x)"), 0644); err != nil {
		t.Fatal(err)
	}

	bs := detectExternalBuildSystem(dir)
	if _, ok := bs.(*cmake.CMake); !ok {
		t.Fatalf("detectExternalBuildSystem(%q) = %T, want *cmake.CMake", dir, bs)
	}
}

func TestDetectExternalBuildSystem_Autotools(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "configure"), []byte("#!/bin/sh"), 0755); err != nil {
		t.Fatal(err)
	}

	bs := detectExternalBuildSystem(dir)
	if _, ok := bs.(*autotools.AutoTools); !ok {
		t.Fatalf("detectExternalBuildSystem(%q) = %T, want *autotools.AutoTools", dir, bs)
	}
}

func TestDetectExternalBuildSystem_None(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.cpp"), []byte("int main(){}"), 0644); err != nil {
		t.Fatal(err)
	}

	if bs := detectExternalBuildSystem(dir); bs != nil {
		t.Fatalf("detectExternalBuildSystem(%q) = %T, want nil", dir, bs)
	}
}

func TestDetectExternalBuildSystem_CMakePreferredOverConfigure(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(x)"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configure"), []byte("#!/bin/sh"), 0755); err != nil {
		t.Fatal(err)
	}

	bs := detectExternalBuildSystem(dir)
	if _, ok := bs.(*cmake.CMake); !ok {
		t.Fatalf("detectExternalBuildSystem(%q) = %T, want *cmake.CMake", dir, bs)
	}
}
