package cmd

import (
	"github.com/spf13/cobra"
)

// newListCmd creates the Cobra command that renders all stored connections.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your financial connections",
		Long:  `Displays every stored financial connection with its ID and the date it was added.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(false)
			if err != nil {
				return err
			}
			orch.ListConnections()
			return nil
		},
	}
}
