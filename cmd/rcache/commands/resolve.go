package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [files...]",
		Short: "Resolve every class declared in the given program files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.Resolve(cmd.Context(), args, resolveOptions(cmd))
		},
	}
	cmd.Flags().StringSliceP("class", "c", nil, "Only report the named classes")
	cmd.Flags().BoolP("stats", "s", false, "Print cache and span counters after the report")
	return cmd
}
