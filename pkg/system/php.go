package system

import (
	"context"
	"runtime"
	"strconv"
)

// PHP drives the helper scripts shipped in the official PHP images, plus
// pecl.
type PHP struct {
	Runner Runner

	// Jobs is passed to docker-php-ext-install -j. Zero or less means
	// runtime.NumCPU().
	Jobs int
}

// NewPHP returns a PHP toolchain that compiles with jobs parallel jobs.
func NewPHP(r Runner, jobs int) *PHP {
	return &PHP{Runner: r, Jobs: jobs}
}

// ConfigureCommand returns the docker-php-ext-configure call for a builtin.
func (p *PHP) ConfigureCommand(name string, args []string) Command {
	return NewCommand("docker-php-ext-configure", append([]string{name}, args...)...)
}

// Configure runs docker-php-ext-configure for a builtin.
func (p *PHP) Configure(ctx context.Context, name string, args []string) error {
	return p.Runner.Run(ctx, p.ConfigureCommand(name, args))
}

// InstallCommand returns the batched docker-php-ext-install call.
func (p *PHP) InstallCommand(names []string) Command {
	args := append([]string{"-j", strconv.Itoa(p.jobs())}, names...)
	return NewCommand("docker-php-ext-install", args...)
}

// Install compiles and enables builtins in one docker-php-ext-install call.
// An empty list is a no-op.
func (p *PHP) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	return p.Runner.Run(ctx, p.InstallCommand(names))
}

// PeclInstallCommand returns the pecl install call for a NAME-VERSION
// specifier.
func (p *PHP) PeclInstallCommand(specifier string) Command {
	return NewCommand("pecl", "install", specifier)
}

// PeclInstall downloads and builds a PECL extension.
func (p *PHP) PeclInstall(ctx context.Context, specifier string) error {
	return p.Runner.Run(ctx, p.PeclInstallCommand(specifier))
}

// EnableCommand returns the docker-php-ext-enable call for name.
func (p *PHP) EnableCommand(name string) Command {
	return NewCommand("docker-php-ext-enable", name)
}

// Enable writes the ini file that loads an installed extension.
func (p *PHP) Enable(ctx context.Context, name string) error {
	return p.Runner.Run(ctx, p.EnableCommand(name))
}

func (p *PHP) jobs() int {
	if p.Jobs <= 0 {
		return runtime.NumCPU()
	}
	return p.Jobs
}
