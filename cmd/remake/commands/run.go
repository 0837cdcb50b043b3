package commands

import "github.com/spf13/cobra"

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [target]",
		Short: "Build a target, or the first target of the makefile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Run(cmd.Context(), targetArg(args), options(cmd))
		},
	}
}
