package link

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/browser"

	"finlink/internal/callback"
	"finlink/internal/config"
	"finlink/internal/plaid"
	"finlink/internal/secrets"
	"finlink/internal/store"
	"finlink/pkg/logging"
)

// maxPromptAttempts bounds the validation re-prompt loop for each profile
// field.
const maxPromptAttempts = 5

// API is the subset of the Plaid client the orchestrator consumes.
type API interface {
	CreateHostedLink(ctx context.Context, user plaid.LinkUser, redirectURI string) (*plaid.HostedLink, error)
	GetLinkSession(ctx context.Context, linkToken string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
}

// UI is the terminal interaction surface the orchestrator drives.
type UI interface {
	Print(format string, args ...interface{})
	Bold(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Prompt(label string) (string, error)
	Confirm(question string) (bool, error)
	Table(title string, header []string, rows [][]string)
	StartProgress(message string)
	UpdateProgress(message string)
	StopProgress()
}

// Orchestrator drives the hosted link authorization exchange end to end:
// profile collection, link creation, the local callback listener, the
// browser handoff, the bounded wait, token exchange, and persistence.
// One orchestration attempt runs at a time per listener address.
type Orchestrator struct {
	cfg         config.Config
	api         API
	secrets     secrets.Store
	connections *store.Connections
	profiles    *store.Profiles
	ui          UI

	// openBrowser is injectable for tests. Launch failure is a warning, not
	// a fatal error.
	openBrowser func(url string) error

	state State
}

// New creates an orchestrator over the given collaborators.
func New(cfg config.Config, api API, secretStore secrets.Store, connections *store.Connections, profiles *store.Profiles, ui UI) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		api:         api,
		secrets:     secretStore,
		connections: connections,
		profiles:    profiles,
		ui:          ui,
		openBrowser: browser.OpenURL,
		state:       StateIdle,
	}
}

// State returns the current state of the most recent attempt.
func (o *Orchestrator) State() State {
	return o.state
}

// fail moves the machine to its terminal failure state and passes the error
// through.
func (o *Orchestrator) fail(err error) error {
	o.state = StateFailed
	return err
}

// AddConnection runs one full authorization attempt for a new named
// connection. setupProfile forces the profile prompts even when a profile is
// already stored.
func (o *Orchestrator) AddConnection(ctx context.Context, name string, setupProfile bool) error {
	o.state = StateIdle
	attemptID := uuid.NewString()
	logging.Debug("Link", "starting authorization attempt %s for connection %q", attemptID, name)

	// Duplicate-name policy: resolve before anything else runs. Declining
	// aborts with no side effects.
	if existing, ok := o.connections.FindByName(name); ok {
		o.ui.Warning("Connection with name '%s' already exists.", name)
		replace, err := o.ui.Confirm(fmt.Sprintf("Remove the existing connection to %s and continue?", name))
		if err != nil {
			return o.fail(err)
		}
		if !replace {
			o.ui.Print("Operation cancelled.")
			return nil
		}
		if err := o.deleteConnection(existing); err != nil {
			return o.fail(err)
		}
	}

	profile, err := o.ensureProfile(setupProfile)
	if err != nil {
		return o.fail(err)
	}
	o.state = StateProfileReady

	latch := callback.NewLatch()
	server := callback.NewServer(o.cfg.Callback.Host, o.cfg.Callback.Port, latch)

	o.ui.StartProgress("Adding connection...")
	defer o.ui.StopProgress()

	hosted, err := o.api.CreateHostedLink(ctx, plaid.LinkUser{
		ClientUserID: clientUserID(profile),
		Email:        profile.Email,
		Phone:        profile.Phone,
	}, server.RedirectURI())
	if err != nil {
		return o.fail(fmt.Errorf("failed to create hosted link: %w", err))
	}
	o.state = StateLinkCreated
	o.ui.UpdateProgress("Created link token...")

	// Keep the link token recoverable while the flow is in flight. Failure
	// here does not block the attempt.
	if err := o.secrets.Put(linkTokenKey(profile.Email), hosted.LinkToken); err != nil {
		logging.Warn("Link", "could not record in-flight link token: %v", err)
	}

	if err := server.Start(); err != nil {
		return o.fail(err)
	}
	// Once the listener is up it is always torn down, success or failure.
	defer server.Stop()
	o.state = StateListenerActive

	o.ui.StopProgress()
	o.ui.Bold("Opening browser to connect your financial institution...")
	if err := o.openBrowser(hosted.URL); err != nil {
		logging.Warn("Link", "browser launch failed: %v", err)
		o.ui.Warning("Could not open a browser automatically. Complete the authorization at:\n  %s", hosted.URL)
	}
	o.state = StateAwaitingCallback
	o.ui.StartProgress("Waiting for authorization...")

	if o.cfg.TestMode {
		// Deterministic substitution for integration tests: no browser
		// session exists, so complete the wait ourselves.
		time.Sleep(time.Second)
		latch.Signal()
	}
	if !callback.WaitForSignal(latch, o.cfg.WaitTimeout()) {
		return o.fail(ErrAuthorizationTimeout)
	}
	o.state = StateCallbackReceived
	o.ui.UpdateProgress("Received callback, exchanging token...")

	accessToken, itemID, err := o.exchangeToken(ctx, hosted.LinkToken)
	if err != nil {
		return o.fail(err)
	}
	o.state = StateTokenExchanged
	o.ui.UpdateProgress("Saving connection...")

	// The secret is written before the connection record: a crash between
	// the two leaves an orphaned secret, never a record without one.
	if err := o.secrets.Put(itemID, accessToken); err != nil {
		return o.fail(err)
	}
	if _, err := o.connections.Add(itemID, name); err != nil {
		return o.fail(err)
	}
	o.state = StatePersisted

	o.ui.StopProgress()
	o.ui.Success("Successfully added connection: %s", name)
	o.state = StateDone
	logging.Debug("Link", "attempt %s finished in state %s", attemptID, o.state)
	return nil
}

// exchangeToken turns the completed link session into a durable access
// credential. In test mode deterministic values substitute for the exchange.
func (o *Orchestrator) exchangeToken(ctx context.Context, linkToken string) (accessToken, itemID string, err error) {
	if o.cfg.TestMode {
		return "mock-access-token-12345", fmt.Sprintf("mock-item-id-%d", time.Now().Unix()), nil
	}

	publicToken, err := o.api.GetLinkSession(ctx, linkToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to retrieve link session: %w", err)
	}

	accessToken, itemID, err = o.api.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to exchange token: %w", err)
	}
	return accessToken, itemID, nil
}

// RemoveConnection deletes a named connection and its secret. The secret is
// removed first: if it is already absent the connection record is left
// untouched and the error surfaces.
func (o *Orchestrator) RemoveConnection(name string) error {
	conn, ok := o.connections.FindByName(name)
	if !ok {
		return fmt.Errorf("connection with name %q not found", name)
	}

	confirmed, err := o.ui.Confirm(fmt.Sprintf("Are you sure you want to remove the connection to %s?", name))
	if err != nil {
		return err
	}
	if !confirmed {
		o.ui.Print("Operation cancelled.")
		return nil
	}

	if err := o.secrets.Delete(conn.ID); err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return fmt.Errorf("access token for %s not found in secure storage: %w", conn.ID, err)
		}
		return err
	}
	if err := o.connections.Remove(name); err != nil {
		return err
	}

	o.ui.Success("Successfully removed connection: %s", name)
	return nil
}

// deleteConnection removes a connection record and its secret without
// confirmation, as part of replacing a duplicate name. An already-missing
// secret does not block the replacement.
func (o *Orchestrator) deleteConnection(conn store.Connection) error {
	if err := o.secrets.Delete(conn.ID); err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return err
	}
	return o.connections.Remove(conn.Name)
}

// ListConnections renders all stored connections.
func (o *Orchestrator) ListConnections() {
	connections := o.connections.Load()
	if len(connections) == 0 {
		o.ui.Warning("No financial connections found.")
		o.ui.Bold("Add a connection with: finlink add <name>")
		return
	}

	rows := make([][]string, 0, len(connections))
	for _, conn := range connections {
		rows = append(rows, []string{conn.ID, conn.Name, conn.DateAdded})
	}
	o.ui.Table("Your Financial Connections", []string{"ID", "Name", "Date Added"}, rows)
}

// ShowProfile renders the stored user profile with the phone masked to its
// last four digits.
func (o *Orchestrator) ShowProfile() {
	profile, ok := o.profiles.Load()
	if !ok {
		o.ui.Warning("No user profile found.")
		o.ui.Bold("Set up your profile with: finlink user --setup")
		return
	}

	o.ui.Table("User Profile", []string{"Field", "Value"}, [][]string{
		{"Email", profile.Email},
		{"Phone", store.MaskPhone(profile.Phone)},
	})
}

// SetupProfile prompts for and persists the user profile, re-prompting on
// invalid input.
func (o *Orchestrator) SetupProfile() (store.Profile, error) {
	o.ui.Bold("Setting up your user profile...")

	email, err := o.promptValid("Enter your email address:", store.ValidateEmail)
	if err != nil {
		return store.Profile{}, err
	}
	phone, err := o.promptValid("Enter your phone number (10 digits only, no spaces or dashes):", store.ValidatePhone)
	if err != nil {
		return store.Profile{}, err
	}

	profile := store.Profile{Email: email, Phone: phone}
	if err := o.profiles.Save(profile); err != nil {
		return store.Profile{}, err
	}
	o.ui.Success("User profile saved.")
	return profile, nil
}

// ensureProfile returns the stored profile, running setup when it is absent
// or explicitly requested.
func (o *Orchestrator) ensureProfile(force bool) (store.Profile, error) {
	if !force {
		if profile, ok := o.profiles.Load(); ok {
			return profile, nil
		}
	}
	return o.SetupProfile()
}

// promptValid reads a value until it validates, up to maxPromptAttempts.
func (o *Orchestrator) promptValid(label string, validate func(string) error) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		value, err := o.ui.Prompt(label)
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)

		if lastErr = validate(value); lastErr == nil {
			return value, nil
		}
		o.ui.Error("%v", lastErr)
	}
	return "", lastErr
}

// clientUserID identifies the user to Plaid. The original profile email is
// used when present.
func clientUserID(p store.Profile) string {
	if p.Email != "" {
		return p.Email
	}
	return uuid.NewString()
}

// linkTokenKey is the secret-store key for the in-flight link token.
func linkTokenKey(email string) string {
	return "link-token/" + email
}
