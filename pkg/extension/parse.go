package extension

import (
	"strings"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

// Specifier prefixes.
const (
	BuiltinPrefix = "builtin:"
	PeclPrefix    = "pecl:"
)

// Parse parses a single specifier, resolving metadata against the process
// environment.
func Parse(s string) (Extension, error) {
	return DefaultResolver.Parse(s)
}

// ParseAll parses every specifier in args before returning, so that a bad
// argument is reported before anything is installed. The first failure is
// returned, annotated with its position.
func ParseAll(args []string) ([]Extension, error) {
	return DefaultResolver.ParseAll(args)
}

// Parse parses a single specifier of the form "builtin:<name>",
// "pecl:<name>" or "pecl:<name>@<version>".
//
// The prefix decides the grammar for the remainder; there is no fallback
// from one kind to the other. The remainder must be consumed entirely.
func (r *Resolver) Parse(s string) (Extension, error) {
	if rest, ok := strings.CutPrefix(s, BuiltinPrefix); ok {
		return r.parseBuiltin(s, rest)
	}
	if rest, ok := strings.CutPrefix(s, PeclPrefix); ok {
		return r.parsePecl(s, rest)
	}
	return Extension{}, errors.New(errors.ErrCodeExpectedPrefix,
		"extension %q must begin with %q or %q", s, BuiltinPrefix, PeclPrefix)
}

// ParseAll parses every specifier in args. See [ParseAll].
func (r *Resolver) ParseAll(args []string) ([]Extension, error) {
	exts := make([]Extension, 0, len(args))
	for i, arg := range args {
		ext, err := r.Parse(arg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "argument %d (%q)", i+1, arg)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

func (r *Resolver) parseBuiltin(input, rest string) (Extension, error) {
	name, rest, err := ParseNamePrefix(rest)
	if err != nil {
		return Extension{}, err
	}
	if rest != "" {
		return Extension{}, trailing(input, rest)
	}
	return NewBuiltin(name, r.Resolve(KindBuiltin, name))
}

func (r *Resolver) parsePecl(input, rest string) (Extension, error) {
	name, rest, err := ParseNamePrefix(rest)
	if err != nil {
		return Extension{}, err
	}

	version := Stable
	if after, ok := strings.CutPrefix(rest, "@"); ok {
		version, rest, err = ParseVersionPrefix(after)
		if err != nil {
			return Extension{}, err
		}
	}
	if rest != "" {
		return Extension{}, trailing(input, rest)
	}
	return NewPecl(name, version, r.Resolve(KindPecl, name))
}

func trailing(input, rest string) error {
	return errors.New(errors.ErrCodeInvalidSyntax,
		"invalid extension %q: unexpected trailing input %q", input, rest)
}
