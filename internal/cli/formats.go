package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported subtitle formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		aliases := registry.Aliases()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FORMAT\tREAD\tWRITE\tALIAS OF")
		for _, ext := range registry.Extensions() {
			write := "no"
			if registry.CanEncode(ext) {
				write = "yes"
			}
			fmt.Fprintf(tw, "%s\tyes\t%s\t%s\n", ext, write, aliases[ext])
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
