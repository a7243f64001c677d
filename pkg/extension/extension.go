package extension

import (
	"slices"
)

// Kind discriminates the two ways an extension is installed.
type Kind int

const (
	// KindBuiltin is an extension shipped in the PHP source tree and built
	// with docker-php-ext-install.
	KindBuiltin Kind = iota
	// KindPecl is an extension downloaded and built by pecl install.
	KindPecl
)

// String returns the specifier prefix for k, without the colon.
func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindPecl:
		return "pecl"
	default:
		return "unknown"
	}
}

// Extension is one parsed specifier: a builtin or a PECL extension together
// with its resolved metadata.
//
// Extensions are immutable values. Accessors that return slices return
// copies.
type Extension struct {
	kind     Kind
	name     Name
	version  Version
	metadata Metadata
}

// NewBuiltin returns a builtin extension with the given metadata. A name
// that does not satisfy the name grammar is rejected with INVALID_SYNTAX.
func NewBuiltin(name Name, m Metadata) (Extension, error) {
	if err := name.validate(); err != nil {
		return Extension{}, err
	}
	m = m.clone()
	m.Disabled = false
	return Extension{kind: KindBuiltin, name: name, metadata: m}, nil
}

// NewPecl returns a PECL extension with the given version and metadata.
// Configure arguments do not apply to PECL and are dropped. An invalid name
// is rejected with INVALID_SYNTAX.
func NewPecl(name Name, version Version, m Metadata) (Extension, error) {
	if err := name.validate(); err != nil {
		return Extension{}, err
	}
	m = m.clone()
	m.ConfigureCmd = nil
	return Extension{kind: KindPecl, name: name, version: version, metadata: m}, nil
}

// Kind reports whether e is a builtin or a PECL extension.
func (e Extension) Kind() Kind { return e.kind }

// Name returns the extension name.
func (e Extension) Name() Name { return e.name }

// Version returns the requested PECL version. Builtins always report
// [Stable].
func (e Extension) Version() Version { return e.version }

// Metadata returns a copy of the resolved metadata.
func (e Extension) Metadata() Metadata { return e.metadata.clone() }

// Packages returns the system packages needed to build e, or nil if none.
func (e Extension) Packages() []string {
	return slices.Clone(e.metadata.Packages)
}

// HasPackages reports whether e needs at least one system package.
func (e Extension) HasPackages() bool {
	return len(e.metadata.Packages) > 0
}

// ConfigureCmd returns the docker-php-ext-configure arguments for a
// builtin, or nil if none are needed. It is always nil for PECL extensions.
func (e Extension) ConfigureCmd() []string {
	if e.kind != KindBuiltin {
		return nil
	}
	return slices.Clone(e.metadata.ConfigureCmd)
}

// DefaultEnabled reports whether e should be enabled after installation.
// Builtins are enabled by docker-php-ext-install itself and always report
// true.
func (e Extension) DefaultEnabled() bool {
	return e.metadata.DefaultEnabled()
}

// Specifier returns the pecl install argument NAME-VERSION, e.g.
// "xdebug-2.5.5" or "memcached-stable".
func (e Extension) Specifier() string {
	return e.name.String() + "-" + e.version.String()
}

// String returns the canonical command-line form of e, e.g. "builtin:gd" or
// "pecl:xdebug@2.5.5". Parsing the result yields an equivalent extension.
func (e Extension) String() string {
	s := e.kind.String() + ":" + e.name.String()
	if e.kind == KindPecl && !e.version.IsStable() {
		s += "@" + e.version.String()
	}
	return s
}
