package cmd

import (
	"github.com/spf13/cobra"
)

// newUserCmd creates the Cobra command for viewing and updating the user
// profile. Without flags it shows the stored profile, same as --show.
func newUserCmd() *cobra.Command {
	var setup bool
	var show bool

	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show or set up your user profile",
		Long: `Shows the stored user profile with the phone number masked. With
--setup the email and phone prompts run again and the profile is
replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orch, err := newOrchestrator(false)
			if err != nil {
				return err
			}
			if setup {
				_, err := orch.SetupProfile()
				return err
			}
			orch.ShowProfile()
			return nil
		},
	}

	cmd.Flags().BoolVar(&setup, "setup", false, "Set up or replace the user profile")
	cmd.Flags().BoolVar(&show, "show", false, "Show the stored user profile")
	cmd.MarkFlagsMutuallyExclusive("setup", "show")
	return cmd
}
