package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeychainRoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeychain()

	require.NoError(t, store.Put("item-123", "access-sandbox-456"))

	secret, err := store.Get("item-123")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-456", secret)

	require.NoError(t, store.Delete("item-123"))

	_, err = store.Get("item-123")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestKeychainGetMissing(t *testing.T) {
	keyring.MockInit()
	store := NewKeychain()

	_, err := store.Get("no-such-item")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeychainDeleteMissing(t *testing.T) {
	keyring.MockInit()
	store := NewKeychain()

	err := store.Delete("no-such-item")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeychainOverwrite(t *testing.T) {
	keyring.MockInit()
	store := NewKeychain()

	require.NoError(t, store.Put("item-123", "first"))
	require.NoError(t, store.Put("item-123", "second"))

	secret, err := store.Get("item-123")
	require.NoError(t, err)
	assert.Equal(t, "second", secret)
}
