package cmd

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug specifies the GitHub repository (owner/repo) to check for
// updates.
const githubRepoSlug = "finlink/finlink"

// newSelfUpdateCmd creates the Cobra command for the self-update
// functionality. This allows the application to update itself from GitHub
// releases, either to the latest version or to a pinned one.
func newSelfUpdateCmd() *cobra.Command {
	var checkOnly bool
	var targetVersion string

	cmd := &cobra.Command{
		Use:   "selfupdate",
		Short: "Update finlink to the latest version",
		Long: `Checks for the latest release of finlink on GitHub and
updates the current binary if a newer version is found. With
--check-only the binary is left untouched; with --version a specific
release is installed instead of the latest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate(checkOnly, targetVersion)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check-only", false, "Check for a release without installing it")
	cmd.Flags().StringVar(&targetVersion, "version", "", "Update to a specific release (e.g. v1.2.3) instead of the latest")
	return cmd
}

// runSelfUpdate resolves the requested release, compares it against the
// running version, and replaces the binary unless checkOnly is set.
func runSelfUpdate(checkOnly bool, targetVersion string) error {
	currentVersion := rootCmd.Version
	// Development builds are not releases and do not follow semantic
	// versioning, so there is nothing to compare against.
	if currentVersion == "" || currentVersion == "dev" {
		return fmt.Errorf("cannot self-update a development version")
	}

	fmt.Printf("Current version: %s\n", currentVersion)
	fmt.Println("Checking for updates...")

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	repo := selfupdate.ParseSlug(githubRepoSlug)

	var release *selfupdate.Release
	var found bool
	if targetVersion != "" {
		release, found, err = updater.DetectVersion(context.Background(), repo, targetVersion)
		if err != nil {
			return fmt.Errorf("error detecting version %s: %w", targetVersion, err)
		}
		if !found {
			return fmt.Errorf("release %s for %s could not be found", targetVersion, githubRepoSlug)
		}
	} else {
		release, found, err = updater.DetectLatest(context.Background(), repo)
		if err != nil {
			return fmt.Errorf("error detecting latest version: %w", err)
		}
		if !found {
			return fmt.Errorf("latest release for %s could not be found", githubRepoSlug)
		}
	}

	if targetVersion == "" && !release.GreaterThan(currentVersion) {
		fmt.Println("Current version is the latest.")
		return nil
	}
	if release.Version() == currentVersion {
		fmt.Printf("Already running version %s.\n", currentVersion)
		return nil
	}

	fmt.Printf("Found version: %s (published at %s)\n", release.Version(), release.PublishedAt)
	fmt.Printf("Release notes:\n%s\n", release.ReleaseNotes)

	if checkOnly {
		fmt.Println("Run again without --check-only to install it.")
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Printf("Updating %s to version %s...\n", exe, release.Version())

	if err := updater.UpdateTo(context.Background(), release, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	fmt.Printf("Successfully updated to version %s\n", release.Version())
	return nil
}
