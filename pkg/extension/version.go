package extension

import (
	"strings"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

// stableChannel is the PECL channel name used when no version is given.
const stableChannel = "stable"

// Version is a PECL version request: either the stable channel or an exact
// MAJOR.MINOR.PATCH release.
//
// The zero value is [Stable]. Other values are only produced by
// [ParseVersion] and [ParseVersionPrefix], so a Version is always valid.
// Versions are comparable with ==.
type Version struct {
	custom string
}

// Stable requests the latest stable release.
var Stable = Version{}

// exactVersion returns a Version for a release already matched by the
// version grammar. Outside this package versions come from [ParseVersion].
func exactVersion(v string) Version {
	return Version{custom: v}
}

// IsStable reports whether v is the stable channel.
func (v Version) IsStable() bool {
	return v.custom == ""
}

// Custom returns the exact release string and true, or "" and false for the
// stable channel.
func (v Version) Custom() (string, bool) {
	return v.custom, v.custom != ""
}

// String renders the version as pecl install expects it after the dash:
// "stable" or the release number.
func (v Version) String() string {
	if v.IsStable() {
		return stableChannel
	}
	return v.custom
}

// ParseVersion parses s as a complete version: "stable" or MAJOR.MINOR.PATCH.
func ParseVersion(s string) (Version, error) {
	v, rest, err := ParseVersionPrefix(s)
	if err != nil {
		return Version{}, err
	}
	if rest != "" {
		return Version{}, errors.New(errors.ErrCodeInvalidSyntax,
			"invalid version %q: unexpected %q after %q", s, rest, v)
	}
	return v, nil
}

// ParseVersionPrefix consumes a version from the start of s and returns the
// remaining input.
//
// Only ASCII digits are accepted in numeric components; signs, pre-release
// tags and build metadata are not part of the grammar.
func ParseVersionPrefix(s string) (Version, string, error) {
	if rest, ok := strings.CutPrefix(s, stableChannel); ok {
		return Stable, rest, nil
	}

	i := 0
	for part := 0; part < 3; part++ {
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return Version{}, s, invalidVersion(s)
		}
		if part < 2 {
			if i >= len(s) || s[i] != '.' {
				return Version{}, s, invalidVersion(s)
			}
			i++
		}
	}
	return exactVersion(s[:i]), s[i:], nil
}

func invalidVersion(s string) error {
	return errors.New(errors.ErrCodeInvalidSyntax,
		"invalid version %q: expected \"stable\" or MAJOR.MINOR.PATCH (e.g. 2.5.5)", s)
}
