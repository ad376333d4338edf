// Package secrets stores access credentials in the operating system keychain.
// Connection records never carry the credential itself, only the item id that
// keys it here.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// service is the keychain service name all finlink secrets live under.
const service = "finlink"

// ErrNotFound is returned when no secret exists for the requested key.
var ErrNotFound = errors.New("secret not found")

// Store is the secret storage contract used by the link orchestrator.
type Store interface {
	// Put stores a secret under the given key, replacing any previous value.
	Put(key, secret string) error

	// Get retrieves the secret for key, or ErrNotFound.
	Get(key string) (string, error)

	// Delete removes the secret for key, or returns ErrNotFound if absent.
	Delete(key string) error
}

// Keychain is the OS-keychain-backed Store.
type Keychain struct{}

// NewKeychain creates a keychain-backed secret store.
func NewKeychain() *Keychain {
	return &Keychain{}
}

// Put implements Store.
func (k *Keychain) Put(key, secret string) error {
	if err := keyring.Set(service, key, secret); err != nil {
		return fmt.Errorf("failed to store secret for %s: %w", key, err)
	}
	return nil
}

// Get implements Store.
func (k *Keychain) Get(key string) (string, error) {
	secret, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read secret for %s: %w", key, err)
	}
	return secret, nil
}

// Delete implements Store.
func (k *Keychain) Delete(key string) error {
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete secret for %s: %w", key, err)
	}
	return nil
}
