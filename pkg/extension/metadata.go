package extension

import (
	"slices"
)

// Metadata describes what an extension needs beyond its name.
//
// A nil slice means "none"; an empty non-nil slice means the value was given
// but lists nothing. Order is significant: both lists are passed verbatim to
// external commands.
type Metadata struct {
	// Packages are system package names (as understood by apk) needed at
	// build time.
	Packages []string `toml:"packages,omitempty" yaml:"packages,omitempty"`

	// ConfigureCmd holds the arguments for docker-php-ext-configure.
	// Only meaningful for builtins.
	ConfigureCmd []string `toml:"configure_cmd,omitempty" yaml:"configure_cmd,omitempty"`

	// Disabled keeps a PECL extension from being enabled after install.
	// XDebug uses this because of its runtime cost.
	Disabled bool `toml:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// DefaultEnabled reports whether the extension should be enabled once
// installed.
func (m Metadata) DefaultEnabled() bool {
	return !m.Disabled
}

// IsZero reports whether m carries no information.
func (m Metadata) IsZero() bool {
	return m.Packages == nil && m.ConfigureCmd == nil && !m.Disabled
}

// clone returns a deep copy so callers can never alias registry storage.
func (m Metadata) clone() Metadata {
	return Metadata{
		Packages:     slices.Clone(m.Packages),
		ConfigureCmd: slices.Clone(m.ConfigureCmd),
		Disabled:     m.Disabled,
	}
}
