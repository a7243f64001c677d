package extension

import (
	"os"
	"sort"

	"github.com/charmbracelet/log"
)

// builtinRegistry holds metadata for builtins that need system packages or
// configure flags on the php:*-alpine images. Builtins that compile without
// extra packages, or that those images already load, are deliberately
// absent: a registry miss resolves to empty metadata.
var builtinRegistry = map[string]Metadata{
	"bz2": {
		Packages:     []string{"bzip2-dev"},
		ConfigureCmd: []string{"--with-bz2"},
	},
	"enchant": {
		Packages:     []string{"enchant-dev"},
		ConfigureCmd: []string{"--with-enchant"},
	},
	"gd": {
		Packages: []string{"coreutils", "freetype-dev", "libjpeg-turbo-dev"},
		ConfigureCmd: []string{
			"--with-freetype-dir=/usr/include/",
			"--with-jpeg-dir=/usr/include/",
			"--with-png-dir=/usr/include/",
		},
	},
	"gettext": {
		Packages:     []string{"gettext", "gettext-dev"},
		ConfigureCmd: []string{"--with-gettext"},
	},
	"gmp": {
		Packages:     []string{"gmp-dev"},
		ConfigureCmd: []string{"--with-gmp"},
	},
	"imap": {
		Packages:     []string{"imap-dev", "openssl-dev"},
		ConfigureCmd: []string{"--with-imap", "--with-imap-ssl"},
	},
	"intl": {
		Packages: []string{"icu-dev"},
	},
	"ldap": {
		Packages:     []string{"openldap-dev"},
		ConfigureCmd: []string{"--with-ldap", "--with-ldap-sasl"},
	},
	"soap": {
		Packages: []string{"libxml2-dev"},
	},
	"zip": {
		Packages: []string{"libzip-dev"},
	},
}

var peclRegistry = map[string]Metadata{
	"imagick": {
		Packages: []string{"imagemagick-dev"},
	},
	"memcached": {
		Packages: []string{"libmemcached-dev", "zlib-dev", "libevent-dev"},
	},
	"xdebug": {
		Disabled: true,
	},
}

func registryFor(kind Kind) map[string]Metadata {
	if kind == KindPecl {
		return peclRegistry
	}
	return builtinRegistry
}

// Lookup returns the compiled-in metadata for name. The match is exact and
// case-sensitive. The returned value is a copy.
func Lookup(kind Kind, name Name) (Metadata, bool) {
	m, ok := registryFor(kind)[string(name)]
	if !ok {
		return Metadata{}, false
	}
	return m.clone(), true
}

// Known returns the names in the compiled-in registry for kind, sorted.
func Known(kind Kind) []Name {
	reg := registryFor(kind)
	names := make([]Name, 0, len(reg))
	for name := range reg {
		names = append(names, Name(name))
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// LookupEnvFunc retrieves the value of an environment variable, reporting
// whether it was set. os.LookupEnv satisfies it.
type LookupEnvFunc func(key string) (string, bool)

// Resolver finds metadata for extension names: registry first, then
// environment overrides, then empty metadata.
//
// The zero value reads the process environment and logs nothing.
type Resolver struct {
	// LookupEnv reads environment overrides. Nil means os.LookupEnv.
	LookupEnv LookupEnvFunc

	// Logger receives debug messages about discarded overrides. Optional.
	Logger *log.Logger
}

// DefaultResolver resolves against the process environment.
var DefaultResolver = &Resolver{}

// Resolve returns the metadata for name. It never fails: a name that is
// neither registered nor configured through the environment resolves to
// empty metadata.
func (r *Resolver) Resolve(kind Kind, name Name) Metadata {
	if m, ok := Lookup(kind, name); ok {
		return m
	}

	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	m, err := DecodeEnv(kind, name, lookup)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Debug("ignoring environment metadata", "kind", kind, "name", name, "err", err)
		}
		return Metadata{}
	}
	return m
}
