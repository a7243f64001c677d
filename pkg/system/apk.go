package system

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// Virtual package names used to group dependencies in apk's world file.
const (
	BuildDepsVirtual   = ".build-deps"
	RuntimeDepsVirtual = ".docker-phpexts-rundeps"
)

// Default scan locations, matching where the official PHP images install
// PHP and its extensions.
const (
	DefaultScanDir = "/usr/local"
	DefaultLibDir  = "/usr/local/lib"
)

// Apk drives the Alpine package manager.
//
// Build dependencies are installed under a virtual package so they can be
// removed in one step once the extensions are compiled. Before removing
// them, the shared libraries the compiled extensions link against are
// pinned under a second virtual package.
type Apk struct {
	Runner Runner

	// ScanDir is searched recursively by scanelf for ELF objects.
	ScanDir string
	// LibDir holds libraries installed alongside PHP itself; dependencies
	// found there are not apk's concern.
	LibDir string

	// Exists reports whether a file exists. Nil means os.Stat.
	Exists func(path string) bool
}

// NewApk returns an Apk using the default scan locations.
func NewApk(r Runner) *Apk {
	return &Apk{Runner: r, ScanDir: DefaultScanDir, LibDir: DefaultLibDir}
}

// InstallCommand returns the command that installs packages as build
// dependencies.
func (a *Apk) InstallCommand(packages []string) Command {
	args := append([]string{"add", "--no-cache", "--virtual", BuildDepsVirtual}, packages...)
	return NewCommand("apk", args...)
}

// Install installs packages as build dependencies.
func (a *Apk) Install(ctx context.Context, packages []string) error {
	return a.Runner.Run(ctx, a.InstallCommand(packages))
}

// ScanCommand returns the scanelf invocation that lists the shared
// libraries needed by everything under ScanDir.
func (a *Apk) ScanCommand() Command {
	return NewCommand("scanelf", "--needed", "--nobanner", "--format", "%n#p", "--recursive", a.scanDir())
}

// SaveRuntimeDeps marks the shared libraries needed by binaries under
// ScanDir as explicitly installed, so that removing the build dependencies
// does not remove them.
//
// Libraries that exist in LibDir are skipped. If nothing remains, apk is
// not invoked.
func (a *Apk) SaveRuntimeDeps(ctx context.Context) error {
	out, err := a.Runner.Output(ctx, a.ScanCommand())
	if err != nil {
		return err
	}

	deps := a.RuntimeDeps(out)
	if len(deps) == 0 {
		return nil
	}

	args := append([]string{"add", "--virtual", RuntimeDepsVirtual}, deps...)
	return a.Runner.Run(ctx, NewCommand("apk", args...))
}

// RuntimeDeps turns scanelf output into apk "so:" dependency names, sorted
// and without duplicates.
func (a *Apk) RuntimeDeps(scanelfOutput string) []string {
	exists := a.Exists
	if exists == nil {
		exists = fileExists
	}

	var deps []string
	for _, lib := range SplitScanelf(scanelfOutput) {
		if exists(filepath.Join(a.libDir(), lib)) {
			continue
		}
		deps = append(deps, "so:"+lib)
	}
	return deps
}

// RemoveBuildDepsCommand returns the command that removes the build
// dependency virtual package.
func (a *Apk) RemoveBuildDepsCommand() Command {
	return NewCommand("apk", "del", BuildDepsVirtual)
}

// RemoveBuildDeps removes all build dependencies, both PHPIZE_DEPS and
// those requested by extensions.
func (a *Apk) RemoveBuildDeps(ctx context.Context) error {
	return a.Runner.Run(ctx, a.RemoveBuildDepsCommand())
}

func (a *Apk) scanDir() string {
	if a.ScanDir == "" {
		return DefaultScanDir
	}
	return a.ScanDir
}

func (a *Apk) libDir() string {
	if a.LibDir == "" {
		return DefaultLibDir
	}
	return a.LibDir
}

// SplitScanelf splits scanelf output (one comma-separated list per line)
// into unique library names, sorted.
func SplitScanelf(output string) []string {
	fields := strings.FieldsFunc(output, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	seen := make(map[string]struct{}, len(fields))
	libs := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		libs = append(libs, f)
	}
	sort.Strings(libs)
	return libs
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
