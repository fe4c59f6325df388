package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joemfb/ml-common-ng/internal/version"
)

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	var shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shortOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mlq %s (commit %s, built %s, %s)\n",
				version.Version, version.Commit, version.Date, runtime.Version())
			return err
		},
	}

	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")

	return cmd
}
