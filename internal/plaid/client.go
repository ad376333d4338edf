package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"finlink/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for Plaid API requests.
const DefaultHTTPTimeout = 30 * time.Second

// clientName is the application name reported on link token creation.
const clientName = "finlink"

// Environment selects which Plaid host the client talks to.
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

// Host returns the API base URL for the environment.
func (e Environment) Host() string {
	return "https://" + string(e) + ".plaid.com"
}

// LinkUser is the end-user identity attached to a hosted link request.
type LinkUser struct {
	ClientUserID string
	Email        string
	Phone        string
}

// HostedLink is the result of creating a hosted authorization link.
type HostedLink struct {
	// LinkToken identifies the link session for later retrieval.
	LinkToken string

	// URL is the Plaid-hosted page the user completes in a browser.
	URL string
}

// Client is a thin HTTP client for the three Plaid operations the CLI
// consumes: hosted link creation, link session retrieval, and public token
// exchange.
type Client struct {
	clientID   string
	secret     string
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for API requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a Plaid client for the given credentials and environment.
func NewClient(clientID, secret string, env Environment, opts ...Option) *Client {
	c := &Client{
		clientID: clientID,
		secret:   secret,
		baseURL:  env.Host(),
		httpClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type linkTokenCreateRequest struct {
	ClientID     string          `json:"client_id"`
	Secret       string          `json:"secret"`
	ClientName   string          `json:"client_name"`
	Language     string          `json:"language"`
	CountryCodes []string        `json:"country_codes"`
	Products     []string        `json:"products"`
	Webhook      string          `json:"webhook,omitempty"`
	User         linkTokenUser   `json:"user"`
	HostedLink   hostedLinkParam `json:"hosted_link"`
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
	EmailAddress string `json:"email_address,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

type hostedLinkParam struct {
	CompletionRedirectURI string `json:"completion_redirect_uri"`
}

type linkTokenCreateResponse struct {
	LinkToken     string `json:"link_token"`
	HostedLinkURL string `json:"hosted_link_url"`
	Expiration    string `json:"expiration"`
	RequestID     string `json:"request_id"`
}

// WebhookURL is registered on link creation so Plaid can deliver item
// webhooks. The webhook receiver itself is out of scope for the CLI.
const WebhookURL = "http://localhost:8000/auth/plaid/webhook"

// CreateHostedLink requests a hosted authorization link for the user. The
// hosted flow redirects to redirectURI on completion.
func (c *Client) CreateHostedLink(ctx context.Context, user LinkUser, redirectURI string) (*HostedLink, error) {
	req := linkTokenCreateRequest{
		ClientID:     c.clientID,
		Secret:       c.secret,
		ClientName:   clientName,
		Language:     "en",
		CountryCodes: []string{"CA"},
		Products:     []string{"transactions"},
		Webhook:      WebhookURL,
		User: linkTokenUser{
			ClientUserID: user.ClientUserID,
			EmailAddress: user.Email,
			PhoneNumber:  user.Phone,
		},
		HostedLink: hostedLinkParam{
			CompletionRedirectURI: redirectURI,
		},
	}

	var resp linkTokenCreateResponse
	if err := c.post(ctx, "/link/token/create", req, &resp); err != nil {
		return nil, err
	}

	if resp.LinkToken == "" || resp.HostedLinkURL == "" {
		return nil, fmt.Errorf("link token response missing link_token or hosted_link_url")
	}

	logging.Debug("Plaid", "created link token (request_id=%s)", resp.RequestID)
	return &HostedLink{
		LinkToken: resp.LinkToken,
		URL:       resp.HostedLinkURL,
	}, nil
}

type linkTokenGetRequest struct {
	ClientID  string `json:"client_id"`
	Secret    string `json:"secret"`
	LinkToken string `json:"link_token"`
}

type linkTokenGetResponse struct {
	LinkSessions []struct {
		Results struct {
			ItemAddResults []struct {
				PublicToken string `json:"public_token"`
			} `json:"item_add_results"`
		} `json:"results"`
	} `json:"link_sessions"`
	RequestID string `json:"request_id"`
}

// GetLinkSession retrieves the public token produced by a completed link
// session. The most recent session's most recent item result wins.
func (c *Client) GetLinkSession(ctx context.Context, linkToken string) (string, error) {
	req := linkTokenGetRequest{
		ClientID:  c.clientID,
		Secret:    c.secret,
		LinkToken: linkToken,
	}

	var resp linkTokenGetResponse
	if err := c.post(ctx, "/link/token/get", req, &resp); err != nil {
		return "", err
	}

	if len(resp.LinkSessions) == 0 {
		return "", fmt.Errorf("link session has not produced any results yet")
	}
	results := resp.LinkSessions[len(resp.LinkSessions)-1].Results.ItemAddResults
	if len(results) == 0 {
		return "", fmt.Errorf("link session completed without an item result")
	}

	publicToken := results[len(results)-1].PublicToken
	if publicToken == "" {
		return "", fmt.Errorf("link session returned an empty public token")
	}
	return publicToken, nil
}

type publicTokenExchangeRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	PublicToken string `json:"public_token"`
}

type publicTokenExchangeResponse struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
	RequestID   string `json:"request_id"`
}

// ExchangePublicToken exchanges a one-time public token for a durable access
// token and its item id.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	req := publicTokenExchangeRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		PublicToken: publicToken,
	}

	var resp publicTokenExchangeResponse
	if err := c.post(ctx, "/item/public_token/exchange", req, &resp); err != nil {
		return "", "", err
	}

	if resp.AccessToken == "" || resp.ItemID == "" {
		return "", "", fmt.Errorf("exchange response missing access_token or item_id")
	}
	return resp.AccessToken, resp.ItemID, nil
}

// post sends a JSON request to the given API path and decodes a successful
// response into out. Non-2xx responses are decoded into *APIError.
// SECURITY: request bodies carry credentials and are never logged.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
