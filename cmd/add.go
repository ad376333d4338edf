package cmd

import (
	"github.com/spf13/cobra"
)

// newAddCmd creates the Cobra command that runs the full hosted link
// authorization flow for a new connection.
func newAddCmd() *cobra.Command {
	var setupProfile bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new financial connection",
		Long: `Starts the browser-based authorization flow for a new financial
connection. A local listener captures the completion callback, the
resulting access token is stored in your system keychain, and the
connection is recorded under the given name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(true)
			if err != nil {
				return err
			}
			return orch.AddConnection(cmd.Context(), args[0], setupProfile)
		},
	}

	cmd.Flags().BoolVar(&setupProfile, "setup", false, "Re-run the profile prompts before connecting")
	return cmd
}
