// Package installer sequences the package manager and PHP toolchain calls
// that install a list of parsed extensions inside a container build.
//
// A run proceeds in fixed steps:
//
//  1. build-deps: install PHPIZE_DEPS plus every extension's packages
//  2. configure: docker-php-ext-configure for builtins that need it
//  3. builtins: one batched docker-php-ext-install
//  4. pecl: pecl install, then docker-php-ext-enable unless disabled
//  5. runtime-deps: pin shared libraries the new extensions link against
//     (only when some extension pulled in packages)
//  6. cleanup: remove the build dependencies
//
// The first failing step aborts the run. Nothing is retried or rolled back;
// a failed container build is expected to be discarded.
package installer

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/forumone/f1-ext-install/pkg/extension"
	"github.com/forumone/f1-ext-install/pkg/observability"
)

// Step names reported to hooks and logs.
const (
	StepBuildDeps   = "build-deps"
	StepConfigure   = "configure"
	StepBuiltins    = "builtins"
	StepPecl        = "pecl"
	StepRuntimeDeps = "runtime-deps"
	StepCleanup     = "cleanup"
)

// PackageManager installs and removes system packages.
type PackageManager interface {
	Install(ctx context.Context, packages []string) error
	SaveRuntimeDeps(ctx context.Context) error
	RemoveBuildDeps(ctx context.Context) error
}

// Toolchain builds and enables PHP extensions.
type Toolchain interface {
	Configure(ctx context.Context, name string, args []string) error
	Install(ctx context.Context, names []string) error
	PeclInstall(ctx context.Context, specifier string) error
	Enable(ctx context.Context, name string) error
}

// Installer runs the installation steps for a set of extensions.
//
// The Installer holds no per-run state; Run may be called repeatedly.
type Installer struct {
	Packages PackageManager
	PHP      Toolchain

	// BaseDeps are installed as build dependencies ahead of any extension
	// packages, normally the whitespace-split PHPIZE_DEPS.
	BaseDeps []string

	Logger *log.Logger
}

// New creates an installer. If logger is nil, log.Default() is used.
func New(pm PackageManager, php Toolchain, baseDeps []string, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.Default()
	}
	return &Installer{
		Packages: pm,
		PHP:      php,
		BaseDeps: baseDeps,
		Logger:   logger,
	}
}

// Run installs exts. Extensions are processed in the order given within
// each step.
func (in *Installer) Run(ctx context.Context, exts []extension.Extension) error {
	builtins, pecls := partition(exts)

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepBuildDeps, func(ctx context.Context) error {
			return in.Packages.Install(ctx, CollectPackages(in.BaseDeps, exts))
		}},
		{StepConfigure, func(ctx context.Context) error {
			return in.configure(ctx, builtins)
		}},
		{StepBuiltins, func(ctx context.Context) error {
			return in.PHP.Install(ctx, names(builtins))
		}},
		{StepPecl, func(ctx context.Context) error {
			return in.installPecl(ctx, pecls)
		}},
		{StepRuntimeDeps, func(ctx context.Context) error {
			if !anyHasPackages(exts) {
				in.logger().Debug("no extension packages; skipping runtime dependency scan")
				return nil
			}
			return in.Packages.SaveRuntimeDeps(ctx)
		}},
		{StepCleanup, func(ctx context.Context) error {
			return in.Packages.RemoveBuildDeps(ctx)
		}},
	}

	total := time.Now()
	for _, step := range steps {
		if err := in.step(ctx, step.name, step.run); err != nil {
			return err
		}
	}
	in.logger().Infof("Installed %d extension(s) (%s)", len(exts), time.Since(total).Round(time.Millisecond))
	return nil
}

func (in *Installer) step(ctx context.Context, name string, run func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	hooks := observability.Install()
	hooks.OnStepStart(ctx, name)
	start := time.Now()

	err := run(ctx)

	elapsed := time.Since(start)
	hooks.OnStepComplete(ctx, name, elapsed, err)
	in.logger().Debug("step done", "step", name, "elapsed", elapsed.Round(time.Millisecond), "ok", err == nil)
	return err
}

func (in *Installer) configure(ctx context.Context, builtins []extension.Extension) error {
	for _, ext := range builtins {
		args := ext.ConfigureCmd()
		if args == nil {
			continue
		}
		if err := in.PHP.Configure(ctx, ext.Name().String(), args); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) installPecl(ctx context.Context, pecls []extension.Extension) error {
	for _, ext := range pecls {
		if err := in.PHP.PeclInstall(ctx, ext.Specifier()); err != nil {
			return err
		}
		if !ext.DefaultEnabled() {
			in.logger().Info("leaving extension disabled", "name", ext.Name())
			continue
		}
		if err := in.PHP.Enable(ctx, ext.Name().String()); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) logger() *log.Logger {
	if in.Logger == nil {
		return log.Default()
	}
	return in.Logger
}

// CollectPackages returns base followed by the packages of every extension,
// in order. Duplicates are kept; apk tolerates them.
func CollectPackages(base []string, exts []extension.Extension) []string {
	all := append([]string(nil), base...)
	for _, ext := range exts {
		all = append(all, ext.Packages()...)
	}
	return all
}

func partition(exts []extension.Extension) (builtins, pecls []extension.Extension) {
	for _, ext := range exts {
		switch ext.Kind() {
		case extension.KindBuiltin:
			builtins = append(builtins, ext)
		case extension.KindPecl:
			pecls = append(pecls, ext)
		}
	}
	return builtins, pecls
}

func names(exts []extension.Extension) []string {
	out := make([]string, len(exts))
	for i, ext := range exts {
		out[i] = ext.Name().String()
	}
	return out
}

func anyHasPackages(exts []extension.Extension) bool {
	for _, ext := range exts {
		if ext.HasPackages() {
			return true
		}
	}
	return false
}
