package extension

import (
	"strconv"
	"strings"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

// Environment override fields.
const (
	envPackages     = "PACKAGES"
	envConfigureCmd = "CONFIGURE_CMD"
	envDisabled     = "DISABLED"
)

// EnvPrefix returns the variable prefix for overrides of name, e.g.
// "F1_BUILTIN_PDO_PGSQL_" or "F1_PECL_MCRYPT_".
func EnvPrefix(kind Kind, name Name) string {
	return "F1_" + strings.ToUpper(kind.String()) + "_" + strings.ToUpper(string(name)) + "_"
}

// EnvKeys returns the variables DecodeEnv consults for kind and name.
func EnvKeys(kind Kind, name Name) []string {
	prefix := EnvPrefix(kind, name)
	if kind == KindPecl {
		return []string{prefix + envPackages, prefix + envDisabled}
	}
	return []string{prefix + envPackages, prefix + envConfigureCmd}
}

// DecodeEnv builds metadata for name from environment overrides.
//
// The recognized variables, with <NAME> the upper-cased extension name, are:
//
//	F1_BUILTIN_<NAME>_PACKAGES       list
//	F1_BUILTIN_<NAME>_CONFIGURE_CMD  list
//	F1_PECL_<NAME>_PACKAGES          list
//	F1_PECL_<NAME>_DISABLED          bool
//
// Lists are comma-separated; items are trimmed and empty items dropped, so
// "a, b,,c" decodes to [a b c]. A variable that is set but empty yields an
// empty, non-nil list. Booleans use strconv.ParseBool. Unset variables leave
// the field at its zero value, so with nothing set the result is empty
// metadata.
//
// An unparsable boolean fails the whole decode.
func DecodeEnv(kind Kind, name Name, lookup LookupEnvFunc) (Metadata, error) {
	prefix := EnvPrefix(kind, name)

	var m Metadata
	if v, ok := lookup(prefix + envPackages); ok {
		m.Packages = SplitList(v)
	}

	switch kind {
	case KindBuiltin:
		if v, ok := lookup(prefix + envConfigureCmd); ok {
			m.ConfigureCmd = SplitList(v)
		}
	case KindPecl:
		if v, ok := lookup(prefix + envDisabled); ok {
			disabled, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return Metadata{}, errors.Wrap(errors.ErrCodeInvalidConfig, err,
					"%s%s must be a boolean, got %q", prefix, envDisabled, v)
			}
			m.Disabled = disabled
		}
	}

	return m, nil
}

// SplitList decodes a comma-separated environment list.
func SplitList(v string) []string {
	items := make([]string, 0, strings.Count(v, ",")+1)
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
