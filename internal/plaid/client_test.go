package plaid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-client-id", "test-secret", Sandbox, WithBaseURL(srv.URL))
}

func TestEnvironmentHost(t *testing.T) {
	assert.Equal(t, "https://sandbox.plaid.com", Sandbox.Host())
	assert.Equal(t, "https://production.plaid.com", Production.Host())
}

func TestCreateHostedLink(t *testing.T) {
	var gotBody map[string]interface{}

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/link/token/create", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]string{
			"link_token":      "link-sandbox-123",
			"hosted_link_url": "https://secure.plaid.com/hl/abc",
			"request_id":      "req-1",
		})
	}))

	link, err := client.CreateHostedLink(context.Background(), LinkUser{
		ClientUserID: "user@example.com",
		Email:        "user@example.com",
		Phone:        "5551234567",
	}, "http://localhost:8000/oauth-callback")
	require.NoError(t, err)

	assert.Equal(t, "link-sandbox-123", link.LinkToken)
	assert.Equal(t, "https://secure.plaid.com/hl/abc", link.URL)

	// Credentials and the redirect target travel in the request body.
	assert.Equal(t, "test-client-id", gotBody["client_id"])
	assert.Equal(t, "test-secret", gotBody["secret"])
	assert.Equal(t, "finlink", gotBody["client_name"])
	hosted := gotBody["hosted_link"].(map[string]interface{})
	assert.Equal(t, "http://localhost:8000/oauth-callback", hosted["completion_redirect_uri"])
	user := gotBody["user"].(map[string]interface{})
	assert.Equal(t, "user@example.com", user["email_address"])
}

func TestCreateHostedLink_MissingFields(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"request_id": "req-1"})
	}))

	_, err := client.CreateHostedLink(context.Background(), LinkUser{ClientUserID: "u"}, "http://localhost:8000/oauth-callback")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hosted_link_url")
}

func TestGetLinkSession(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/link/token/get", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"link_sessions": []map[string]interface{}{
				{"results": map[string]interface{}{
					"item_add_results": []map[string]string{{"public_token": "public-old"}},
				}},
				{"results": map[string]interface{}{
					"item_add_results": []map[string]string{
						{"public_token": "public-older"},
						{"public_token": "public-latest"},
					},
				}},
			},
		})
	}))

	token, err := client.GetLinkSession(context.Background(), "link-sandbox-123")
	require.NoError(t, err)

	// Most recent session, most recent item result.
	assert.Equal(t, "public-latest", token)
}

func TestGetLinkSession_NoResults(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"link_sessions": []interface{}{}})
	}))

	_, err := client.GetLinkSession(context.Background(), "link-sandbox-123")
	require.Error(t, err)
}

func TestExchangePublicToken(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/item/public_token/exchange", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "public-123", body["public_token"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-sandbox-456",
			"item_id":      "item-789",
		})
	}))

	accessToken, itemID, err := client.ExchangePublicToken(context.Background(), "public-123")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-456", accessToken)
	assert.Equal(t, "item-789", itemID)
}

func TestAPIErrorMapping(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error_type":    "INVALID_REQUEST",
			"error_code":    "INVALID_FIELD",
			"error_message": "client_id must be a non-empty string",
			"request_id":    "req-err",
		})
	}))

	_, _, err := client.ExchangePublicToken(context.Background(), "public-123")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "INVALID_FIELD", apiErr.ErrorCode)
	assert.Contains(t, apiErr.Error(), "client_id must be a non-empty string")
}

func TestAPIErrorWithoutEnvelope(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))

	_, err := client.GetLinkSession(context.Background(), "link-sandbox-123")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
