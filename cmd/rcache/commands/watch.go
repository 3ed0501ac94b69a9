package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rcache/internal/adapters/watcher" //nolint:depguard // Default window only
	"go.trai.ch/rcache/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Resolve the given program files and re-resolve whenever they change",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			debounce, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), args, app.WatchOptions{
				ResolveOptions: resolveOptions(cmd),
				Debounce:       debounce,
			})
		},
	}
	cmd.Flags().StringSliceP("class", "c", nil, "Only report the named classes")
	cmd.Flags().BoolP("stats", "s", false, "Print cache and span counters after every report")
	cmd.Flags().Duration("debounce", watcher.DefaultWindow, "Quiet period after a change before reloading")
	return cmd
}
