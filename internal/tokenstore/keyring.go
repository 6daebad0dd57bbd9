package tokenstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "docsite"

	availabilityKey = "docsite-availability-check"
)

// Keyring stores tokens in the OS keychain/credential manager
type Keyring struct{}

// NewKeyring returns a keyring-backed store
func NewKeyring() *Keyring {
	return &Keyring{}
}

// Save persists the token securely in the OS keychain/credential manager
func (k *Keyring) Save(key, token string) error {
	if err := keyring.Set(service, key, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load retrieves the token from the OS keychain/credential manager
func (k *Keyring) Load(key string) (string, error) {
	token, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// Delete removes the token from the OS keychain/credential manager
func (k *Keyring) Delete(key string) error {
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// KeyringAvailable reports whether the OS credential manager answers at all.
// A missing entry still counts as available.
func KeyringAvailable() bool {
	_, err := keyring.Get(service, availabilityKey)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
