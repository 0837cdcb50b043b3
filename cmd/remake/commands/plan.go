package commands

import "github.com/spf13/cobra"

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [target]",
		Short: "Print the execution order without running any recipe",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.WithOutput(cmd.OutOrStdout()).Plan(cmd.Context(), targetArg(args), options(cmd))
		},
	}
}
