package extension

import (
	"github.com/forumone/f1-ext-install/pkg/errors"
)

// Name is a validated extension name as understood by docker-php-ext-install
// and pecl install.
//
// A Name is a sequence of segments joined by single underscores, where each
// segment starts with an ASCII letter followed by letters or digits. Values
// obtained from [ParseName] or [ParseNamePrefix] are always valid.
type Name string

// String returns the name as written.
func (n Name) String() string {
	return string(n)
}

// ParseName parses s as a complete extension name.
// Leftover input after the longest valid name is an error.
func ParseName(s string) (Name, error) {
	name, rest, err := ParseNamePrefix(s)
	if err != nil {
		return "", err
	}
	if rest != "" {
		return "", errors.New(errors.ErrCodeInvalidSyntax,
			"invalid extension name %q: unexpected %q after %q", s, rest, name)
	}
	return name, nil
}

// ParseNamePrefix consumes the longest prefix of s that is a valid name and
// returns it along with the remaining input.
//
// An underscore is only consumed when a letter follows it, so "abc_" yields
// "abc" with "_" remaining. The only failure is s not starting with a letter.
func ParseNamePrefix(s string) (Name, string, error) {
	if s == "" || !isAlpha(s[0]) {
		return "", s, errors.New(errors.ErrCodeInvalidSyntax,
			"invalid extension name %q: must start with a letter (e.g. gd, pdo_mysql, memcached)", s)
	}

	end := segmentEnd(s, 0)
	for end+1 < len(s) && s[end] == '_' && isAlpha(s[end+1]) {
		end = segmentEnd(s, end+1)
	}
	return Name(s[:end]), s[end:], nil
}

// validate checks n against the name grammar. Names built by conversion
// rather than parsing pass through here before reaching a command line.
func (n Name) validate() error {
	_, err := ParseName(string(n))
	return err
}

// segmentEnd returns the index just past the segment starting at i.
// s[i] must be a letter.
func segmentEnd(s string, i int) int {
	i++
	for i < len(s) && isAlnum(s[i]) {
		i++
	}
	return i
}

func isAlpha(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
