// Package config loads f1-ext-install's settings using Viper.
//
// Settings come, in order of precedence, from command-line flags, from
// F1_EXT_INSTALL_* environment variables and from built-in defaults. The
// PHPIZE_DEPS variable set by the official PHP images is read as-is.
package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

// EnvPrefix is prepended to every setting's environment variable.
const EnvPrefix = "F1_EXT_INSTALL"

// Setting keys. Flags of the same name, with '_' replaced by '-', are bound
// to them.
const (
	KeyJobs       = "jobs"
	KeyDryRun     = "dry_run"
	KeyVerbose    = "verbose"
	KeyPhpizeDeps = "phpize_deps"
)

// Config holds the resolved settings.
type Config struct {
	// Jobs is the parallelism passed to docker-php-ext-install.
	Jobs int `mapstructure:"jobs"`

	// DryRun prints commands instead of running them.
	DryRun bool `mapstructure:"dry_run"`

	Verbose bool `mapstructure:"verbose"`

	// PhpizeDeps is the raw, whitespace-separated PHPIZE_DEPS value.
	PhpizeDeps string `mapstructure:"phpize_deps"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{Jobs: runtime.NumCPU()}
}

// BaseDeps returns PHPIZE_DEPS split on whitespace.
func (c Config) BaseDeps() []string {
	return strings.Fields(c.PhpizeDeps)
}

// Load resolves the settings from flags and the environment. Flags that
// are absent from the set are ignored; flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault(KeyJobs, defaults.Jobs)
	v.SetDefault(KeyDryRun, defaults.DryRun)
	v.SetDefault(KeyVerbose, defaults.Verbose)
	v.SetDefault(KeyPhpizeDeps, defaults.PhpizeDeps)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv(KeyPhpizeDeps, "PHPIZE_DEPS"); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bind PHPIZE_DEPS")
	}

	if flags != nil {
		for _, key := range []string{KeyJobs, KeyDryRun, KeyVerbose} {
			f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bind flag %q", f.Name)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "failed to parse settings")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks setting ranges.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}
