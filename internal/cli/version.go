package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forumone/f1-ext-install/pkg/buildinfo"
)

// versionCommand creates the version command. With --tags it prints the
// image tags derived from the release version, one per line, for use by
// image build scripts.
func (c *CLI) versionCommand() *cobra.Command {
	var tags bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if !tags {
				fmt.Fprintln(w, buildinfo.String())
				return nil
			}

			list, err := buildinfo.Tags()
			if err != nil {
				return err
			}
			for _, t := range list {
				fmt.Fprintln(w, t)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&tags, "tags", false, "print X.Y.Z, X.Y and X on separate lines")
	return cmd
}
