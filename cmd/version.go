package cmd

import (
	"fmt"
	"items-api/internal/version"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of items-api",
		Run: func(cmd *cobra.Command, args []string) {
			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.Print("items-api"))
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "items-api version %s\n", version.GetVersion())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include revision, build date and Go version")

	return cmd
}
