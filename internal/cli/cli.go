// Package cli implements the f1-ext-install command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/forumone/f1-ext-install/internal/config"
	"github.com/forumone/f1-ext-install/pkg/buildinfo"
	"github.com/forumone/f1-ext-install/pkg/extension"
	"github.com/forumone/f1-ext-install/pkg/installer"
	"github.com/forumone/f1-ext-install/pkg/observability"
	"github.com/forumone/f1-ext-install/pkg/system"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help and completion output.
const appName = "f1-ext-install"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Runner overrides the command runner chosen from the settings.
	// Tests set it to a *system.DryRunner.
	Runner system.Runner

	// LookupEnv overrides the environment used for extension metadata.
	LookupEnv extension.LookupEnvFunc

	config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself performs the installation.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName + " [flags] SPECIFIER...",
		Short: "Install PHP extensions into an Alpine-based PHP image",
		Long: `f1-ext-install installs PHP extensions inside a container build.

Each SPECIFIER is one of:

  builtin:NAME          an extension bundled with PHP (docker-php-ext-install)
  pecl:NAME             the stable release of a PECL extension
  pecl:NAME@X.Y.Z       a specific PECL release

All specifiers are validated before anything is installed. Build
dependencies (PHPIZE_DEPS plus each extension's packages) are removed
again once the extensions are compiled; shared libraries the extensions
link against are kept.

Extensions missing from the built-in registry can be described with
environment variables:

  F1_BUILTIN_<NAME>_PACKAGES       comma-separated apk packages
  F1_BUILTIN_<NAME>_CONFIGURE_CMD  comma-separated configure arguments
  F1_PECL_<NAME>_PACKAGES          comma-separated apk packages
  F1_PECL_<NAME>_DISABLED          install without enabling (true/false)`,
		Example: `  f1-ext-install builtin:gd builtin:opcache pecl:memcached
  f1-ext-install --dry-run pecl:xdebug@2.5.5`,
		Version:       buildinfo.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE:              c.runInstall,
		ValidArgsFunction: completeSpecifiers,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	root.Flags().IntP("jobs", "j", 0, "parallel compile jobs (default: number of CPUs)")
	root.Flags().BoolP("dry-run", "n", false, "print the commands instead of running them")

	root.AddCommand(c.registryCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the settings and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	c.config = cfg

	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	observability.SetInstallHooks(&stepHooks{w: cmd.ErrOrStderr()})
	observability.SetCommandHooks(&commandHooks{logger: c.Logger})
	return nil
}

// =============================================================================
// Install
// =============================================================================

func (c *CLI) runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	exts, err := c.resolver(logger).ParseAll(args)
	if err != nil {
		return err
	}
	logger.Debug("parsed extensions", "count", len(exts), "extensions", describe(exts))

	runner := c.runner(cmd.OutOrStdout())
	in := installer.New(
		system.NewApk(runner),
		system.NewPHP(runner, c.config.Jobs),
		c.config.BaseDeps(),
		logger,
	)

	if c.config.DryRun {
		printDryRunHeader(cmd.ErrOrStderr(), exts)
	}

	prog := newProgress(logger)
	if err := in.Run(ctx, exts); err != nil {
		return err
	}
	if c.config.DryRun {
		prog.done("Dry run complete")
		return nil
	}
	printSuccess(cmd.ErrOrStderr(), "Installed %s", describe(exts))
	return nil
}

func (c *CLI) resolver(logger *log.Logger) *extension.Resolver {
	return &extension.Resolver{LookupEnv: c.LookupEnv, Logger: logger}
}

// runner returns the command runner for this invocation. Dry runs print
// commands to w.
func (c *CLI) runner(w io.Writer) system.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	if c.config.DryRun {
		return &system.DryRunner{W: w}
	}
	return system.NewExecRunner(c.Logger)
}

func describe(exts []extension.Extension) string {
	parts := make([]string, len(exts))
	for i, ext := range exts {
		parts[i] = ext.String()
	}
	return strings.Join(parts, " ")
}
