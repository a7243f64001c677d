// Package extension parses and resolves PHP extension specifiers.
//
// A specifier names one extension to install inside a container build. Two
// kinds are recognized:
//
//	builtin:<name>            a PHP builtin, installed with docker-php-ext-install
//	pecl:<name>               the latest stable release from PECL
//	pecl:<name>@stable        the same, with the channel spelled out
//	pecl:<name>@<x.y.z>       a specific PECL release
//
// Names are alpha-led segments joined by single underscores ("gd",
// "pdo_mysql"). Versions are either "stable" or a strict MAJOR.MINOR.PATCH
// triple.
//
// # Metadata Resolution
//
// Every parsed [Extension] carries [Metadata]: the system packages it needs
// at build time and, for builtins, the arguments passed to
// docker-php-ext-configure. Metadata is resolved by name:
//
//  1. The compiled-in registry (see [Lookup]).
//  2. Environment overrides, e.g. F1_BUILTIN_LDAP_PACKAGES or
//     F1_PECL_XDEBUG_DISABLED (see [DecodeEnv]).
//  3. Empty metadata. Most builtins need nothing extra, so this is not an
//     error.
//
// # Usage
//
//	exts, err := extension.ParseAll(os.Args[1:])
//	if err != nil {
//	    return err
//	}
//	for _, ext := range exts {
//	    fmt.Println(ext.Kind(), ext.Name(), ext.Packages())
//	}
//
// Parsing is pure apart from reading the environment, and the registry is
// never mutated, so all functions in this package are safe for concurrent
// use.
package extension
