package cmd

import (
	"fmt"

	"finlink/internal/config"
	"finlink/internal/link"
	"finlink/internal/plaid"
	"finlink/internal/secrets"
	"finlink/internal/store"
	"finlink/internal/ui"
)

// newOrchestrator loads configuration and wires the full set of
// collaborators behind the link orchestrator. requireAPI is set by commands
// that talk to Plaid; list/user style commands work without credentials.
func newOrchestrator(requireAPI bool) (*link.Orchestrator, error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if requireAPI {
		if err := cfg.RequireAPICredentials(); err != nil {
			return nil, err
		}
	}

	client := plaid.NewClient(cfg.ClientID, cfg.Secret, cfg.Environment)
	connections := store.NewConnections(cfg.ConnectionsFile())
	profiles := store.NewProfiles(cfg.CredentialsFile())

	return link.New(cfg, client, secrets.NewKeychain(), connections, profiles, ui.NewTerminal()), nil
}
