package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/forumone/f1-ext-install/pkg/errors"
	"github.com/forumone/f1-ext-install/pkg/extension"
)

// Output formats for the registry command.
const (
	formatTable = "table"
	formatTOML  = "toml"
	formatYAML  = "yaml"
)

// catalogue is the serialized form of extension metadata, keyed by kind and
// then by name.
type catalogue struct {
	Builtin map[string]extension.Metadata `toml:"builtin,omitempty" yaml:"builtin,omitempty"`
	Pecl    map[string]extension.Metadata `toml:"pecl,omitempty" yaml:"pecl,omitempty"`
}

func (c *catalogue) add(kind extension.Kind, name extension.Name, m extension.Metadata) {
	switch kind {
	case extension.KindBuiltin:
		if c.Builtin == nil {
			c.Builtin = make(map[string]extension.Metadata)
		}
		c.Builtin[name.String()] = m
	case extension.KindPecl:
		if c.Pecl == nil {
			c.Pecl = make(map[string]extension.Metadata)
		}
		c.Pecl[name.String()] = m
	}
}

// registryCommand creates the registry command, which prints extension
// metadata.
func (c *CLI) registryCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "registry [SPECIFIER...]",
		Short: "Show the metadata known for extensions",
		Long: `Show the packages, configure arguments and enablement known for extensions.

Without arguments the built-in registry is listed. With specifiers, each is
resolved exactly as an install would resolve it, including F1_* environment
overrides for extensions missing from the registry.`,
		Example: `  f1-ext-install registry
  f1-ext-install registry --format yaml builtin:gd pecl:apcu`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := c.registryRows(cmd, args)
			if err != nil {
				return err
			}
			if err := writeRegistry(cmd.OutOrStdout(), format, rows); err != nil {
				return err
			}
			printOverlayHints(cmd.ErrOrStderr(), rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, toml or yaml")
	return cmd
}

type registryRow struct {
	kind     extension.Kind
	name     extension.Name
	metadata extension.Metadata

	// registered is false for rows resolved through the environment
	// overlay (or to empty metadata).
	registered bool
}

func (c *CLI) registryRows(cmd *cobra.Command, args []string) ([]registryRow, error) {
	var rows []registryRow

	if len(args) == 0 {
		for _, kind := range []extension.Kind{extension.KindBuiltin, extension.KindPecl} {
			for _, name := range extension.Known(kind) {
				m, _ := extension.Lookup(kind, name)
				rows = append(rows, registryRow{kind, name, m, true})
			}
		}
		return rows, nil
	}

	exts, err := c.resolver(loggerFromContext(cmd.Context())).ParseAll(args)
	if err != nil {
		return nil, err
	}
	for _, ext := range exts {
		_, registered := extension.Lookup(ext.Kind(), ext.Name())
		rows = append(rows, registryRow{ext.Kind(), ext.Name(), ext.Metadata(), registered})
	}
	return rows, nil
}

// printOverlayHints lists the environment variables consulted for
// extensions missing from the registry. Extensions that resolved to nothing
// are called out, since they will be built without extra packages.
func printOverlayHints(w io.Writer, rows []registryRow) {
	for _, r := range rows {
		if r.registered {
			continue
		}
		spec := fmt.Sprintf("%s:%s", r.kind, r.name)
		if r.metadata.IsZero() {
			printInfo(w, "%s is not in the registry and no overrides are set; it will be built without extra packages", spec)
		} else {
			printInfo(w, "%s resolved from the environment", spec)
		}
		for _, key := range extension.EnvKeys(r.kind, r.name) {
			printDetail(w, "%s", key)
		}
	}
}

func writeRegistry(w io.Writer, format string, rows []registryRow) error {
	switch format {
	case formatTable:
		_, err := io.WriteString(w, registryTable(w, rows))
		return err
	case formatTOML, formatYAML:
		var cat catalogue
		for _, r := range rows {
			cat.add(r.kind, r.name, r.metadata)
		}
		if format == formatTOML {
			return toml.NewEncoder(w).Encode(cat)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeInvalidArgument,
			"unknown format %q (want %s, %s or %s)", format, formatTable, formatTOML, formatYAML)
	}
}

func registryTable(w io.Writer, rows []registryRow) string {
	body := make([][]string, len(rows))
	for i, r := range rows {
		body[i] = []string{
			fmt.Sprintf("%s:%s", r.kind, r.name),
			orDash(strings.Join(r.metadata.Packages, " ")),
			orDash(strings.Join(r.metadata.ConfigureCmd, " ")),
			fmt.Sprint(r.metadata.DefaultEnabled()),
		}
	}
	return renderTable(w, []string{"Extension", "Packages", "Configure", "Enabled"}, body)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
