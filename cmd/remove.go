package cmd

import (
	"github.com/spf13/cobra"
)

// newRemoveCmd creates the Cobra command that removes a connection and its
// stored access token.
func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a financial connection",
		Long: `Removes the named connection after confirmation. The access token is
deleted from your system keychain before the connection record is
dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(false)
			if err != nil {
				return err
			}
			return orch.RemoveConnection(args[0])
		},
	}
}
