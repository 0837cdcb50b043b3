package commands

import "github.com/spf13/cobra"

func (c *CLI) newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the statements parsed from the makefile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.WithOutput(cmd.OutOrStdout()).Print(cmd.Context(), options(cmd))
		},
	}
}
